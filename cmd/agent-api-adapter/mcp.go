package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adityahash12/agent-api-adapter/internal/mcptool"
	"github.com/Adityahash12/agent-api-adapter/internal/observability/logging"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the api_transform and generate_mapping tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.WithComponent(a.logger, "mcp")
			logger.Info().Str("server", mcptool.ServerName).Msg("serving MCP over stdio")

			return mcptool.Serve(ctx, a.service(), logger)
		},
	}
}
