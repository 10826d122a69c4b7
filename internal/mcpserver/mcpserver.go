// Package mcpserver exposes outline extraction as MCP tools.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

// Register adds the outline tools to srv. Documents are analyzed on the
// calling goroutine by w.
func Register(srv *mcp.Server, w *pipeline.Worker) {
	registerExtractTool(srv, w)
	registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type extractReq struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

func registerExtractTool(srv *mcp.Server, w *pipeline.Worker) {
	tool := &mcp.Tool{
		Name:        "outline_extract",
		Description: "Infer the title and H1-H4 outline of a document file (pdf, md, html, docx).",
		InputSchema: inputSchema(map[string]any{
			"path":   map[string]any{"type": "string", "description": "File path to analyze"},
			"format": map[string]any{"type": "string", "description": "json (default), markdown or html"},
		}, []string{"path"}),
	}

	srv.AddTool(tool, func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r extractReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err)), nil
		}
		if r.Path == "" {
			return toolError(fmt.Errorf("path is required")), nil
		}
		format, err := render.ParseFormat(r.Format)
		if err != nil {
			return toolError(err), nil
		}

		f, err := os.Open(r.Path)
		if err != nil {
			return toolError(err), nil
		}
		defer f.Close()

		a, err := w.Analyze(filepath.Base(r.Path), f)
		if err != nil {
			return toolError(err), nil
		}

		var buf bytes.Buffer
		if err := render.Write(&buf, a.Summary, format); err != nil {
			return toolError(err), nil
		}
		return textResult(buf.String()), nil
	})
}

func registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "outline_formats",
		Description: "List the document formats outline_extract accepts.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(map[string]any{"formats": parser.Formats()})
		if err != nil {
			return toolError(fmt.Errorf("marshal: %w", err)), nil
		}
		return textResult(string(data)), nil
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}
