package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/deepset/internal/cli"
	"github.com/aretw0/deepset/pkg/adapters/mcp"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the document store as MCP tools (set_value, get_value, list_documents)
and documents as deepset://documents/{id} resources.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")

			e, err := setup(cmd, domain.Hooks{})
			if err != nil {
				return err
			}
			defer e.Close()

			srv := mcp.NewServer(e.manager, e.logger)

			switch transport {
			case "stdio":
				// Ensure logs don't corrupt JSON-RPC on Stdout
				log.SetOutput(os.Stderr)
				e.logger.Info("Starting deepset MCP Server (Stdio)")
				return srv.ServeStdio()
			case "sse":
				sigCtx := cli.NewSignalContext(cmd.Context())
				defer sigCtx.Cancel()
				return srv.ServeSSE(sigCtx, port)
			default:
				return fmt.Errorf("unknown transport %q", transport)
			}
		},
	}
	cmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	cmd.Flags().IntP("port", "p", 8080, "Port for the sse transport")
	return cmd
}
