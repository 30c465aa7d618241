package cli

import (
	"context"
	"os"

	"github.com/gabapcia/ethcrawler/internal/crawler"

	"github.com/urfave/cli/v3"
)

// Server serves crawl requests until its context is done.
type Server interface {
	ListenAndServe(ctx context.Context, addr string) error
}

// newApp builds the root command.
func newApp(svc crawler.Service, server Server, defaultAddr string) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "ethcrawler",
		Description:           "Lists every Ethereum transaction in a block range that involves a given address.",
		Usage:                 "ethcrawler [command] [flags]",
		Commands: []*cli.Command{
			serveCommand(server, defaultAddr),
			crawlCommand(svc),
		},
	}
}

// Run initializes and executes the ethcrawler CLI application.
//
// It registers all available commands, including:
//
//   - `serve`: Starts the HTTP server with the search page and the JSON API.
//   - `crawl`: Runs a single crawl and prints the matches.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - svc: The crawler used by the crawl command.
//   - server: The HTTP server started by the serve command.
//   - defaultAddr: The listen address used when serve gets no --addr flag.
func Run(ctx context.Context, svc crawler.Service, server Server, defaultAddr string) error {
	return newApp(svc, server, defaultAddr).Run(ctx, os.Args)
}
