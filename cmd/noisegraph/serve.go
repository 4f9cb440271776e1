package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"noisegraph/internal/mcp"
	"noisegraph/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	var db store.Store
	if p.cfg.Database.DSN != "" {
		db, err = openDB(ctx, p.cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	p.logger.Info("serving MCP over stdio",
		zap.String("project", p.cfg.Project),
		zap.Bool("history", db != nil),
	)
	server := mcp.NewServer(p.session, db, p.logger, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
