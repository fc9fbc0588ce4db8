// ABOUTME: MCP server subcommand
// ABOUTME: Serves the CRM tools and resources over stdio
package cli

import (
	"context"

	"github.com/harperreed/buildcrm/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio and blocks until the client goes away
func MCPCommand(ctx context.Context, version string, deps handlers.Deps) error {
	deps.Log.Info("starting MCP server", "version", version)

	server := handlers.NewServer(version, deps)
	return server.Run(ctx, &mcp.StdioTransport{})
}
