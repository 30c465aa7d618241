package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// serveCommand returns a CLI command that starts the HTTP server.
//
// Usage example:
//
//	ethcrawler serve --addr 127.0.0.1:8000
//
// The server runs until it receives an interrupt (SIGINT or SIGTERM), then shuts down gracefully.
func serveCommand(server Server, defaultAddr string) *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Description: "Serves the transaction search page and the JSON API.",
		Usage:       "Starts the HTTP server. Terminates gracefully on Ctrl+C or termination signals.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Address to listen on",
				Value: defaultAddr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.ListenAndServe(ctx, c.String("addr"))
		},
	}
}
