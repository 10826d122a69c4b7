package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/mcpserver"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve outline tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol.
			log := opts.newLogger(os.Stderr, "json")
			engine, err := opts.newEngine(log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mcp.NewServer(&mcp.Implementation{Name: appName, Version: version}, nil)
			mcpserver.Register(srv, pipeline.NewWorker(engine, nil, log))

			log.Info("serving mcp on stdio")
			return srv.Run(ctx, &mcp.StdioTransport{})
		},
	}
}
