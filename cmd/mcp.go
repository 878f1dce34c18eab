package cmd

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/confkit/confkit/internal/resolver"
)

// mcpCmd starts an MCP stdio server exposing confkit's resolve-config and
// check-config tools over stdin/stdout.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing resolve-config and check-config tools",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can resolve
and diagnose a tool's configuration the same way the confkit CLI does.

The server runs over stdin/stdout until the client disconnects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(ctx context.Context) error {
	impl := &mcp.Implementation{
		Name:    "confkit",
		Version: version,
	}
	server := mcp.NewServer(impl, &mcp.ServerOptions{})

	cfg := resolver.Config{
		Schema:            instance.Descriptor(),
		ResolveFileConfig: fileConfigResolver,
		Security:          instance.Security(),
	}
	if err := resolver.RegisterTools(server, cfg); err != nil {
		return fmt.Errorf("failed to register MCP tools: %w", err)
	}

	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
