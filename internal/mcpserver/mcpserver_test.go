package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var testImpl = &mcp.Implementation{Name: "docoutline-test", Version: "0.1.0"}

func session(t *testing.T) *mcp.ClientSession {
	t.Helper()
	engine, err := layout.New(layout.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	srv := mcp.NewServer(testImpl, nil)
	Register(srv, pipeline.NewWorker(engine, nil, nil))

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testImpl, nil)
	s, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func callTool(t *testing.T, s *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := s.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("expected TextContent")
	}
	return tc.Text
}

func writeGuide(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guide.md")
	content := "# Field Guide\n\n## Woodland Birds\n\n### Owls of the North\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestFormats(t *testing.T) {
	got := text(t, callTool(t, session(t), "outline_formats", map[string]any{}))

	var resp struct {
		Formats []string `json:"formats"`
	}
	if err := json.Unmarshal([]byte(got), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := "docx,htm,html,markdown,md,pdf"
	if strings.Join(resp.Formats, ",") != want {
		t.Errorf("expected formats %q, got %v", want, resp.Formats)
	}
}

func TestExtract(t *testing.T) {
	got := text(t, callTool(t, session(t), "outline_extract", map[string]any{"path": writeGuide(t)}))

	var s doctree.Summary
	if err := json.Unmarshal([]byte(got), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Title != "Field Guide" {
		t.Errorf("expected title %q, got %q", "Field Guide", s.Title)
	}
	if len(s.Outline) != 2 || s.Outline[1].Level != doctree.H3 {
		t.Errorf("expected H2 then H3, got %+v", s.Outline)
	}
}

func TestExtractMarkdown(t *testing.T) {
	got := text(t, callTool(t, session(t), "outline_extract", map[string]any{"path": writeGuide(t), "format": "markdown"}))
	if !strings.HasPrefix(got, "# Field Guide\n") {
		t.Errorf("expected markdown rendering, got %q", got)
	}
}

func TestExtractErrors(t *testing.T) {
	s := session(t)
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing path", map[string]any{}},
		{"missing file", map[string]any{"path": filepath.Join(t.TempDir(), "absent.pdf")}},
		{"bad format", map[string]any{"path": writeGuide(t), "format": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := callTool(t, s, "outline_extract", tt.args); !res.IsError {
				t.Error("expected tool error")
			}
		})
	}
}
