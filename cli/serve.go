// ABOUTME: HTTP server subcommand
// ABOUTME: Runs the JSON API until interrupted
package cli

import (
	"context"
	"flag"

	"github.com/harperreed/buildcrm/web"
)

// ServeCommand runs the HTTP API. --port overrides the configured port.
func ServeCommand(ctx context.Context, opts web.Options, defaultPort int, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.Int("port", defaultPort, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return web.NewServer(opts).Run(ctx, *port)
}
