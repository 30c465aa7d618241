package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gabapcia/ethcrawler/internal/crawler"

	"github.com/urfave/cli/v3"
)

// crawlCommand returns a CLI command that runs one crawl and prints the matching
// transactions as a table or, with --json, as a JSON document.
//
// Usage example:
//
//	ethcrawler crawl --address 0xaa7a9ca87d3694b5755f213b5d04094b8d0f0a6f --from 17571440 --to 17571500
//
// Without --to the crawl runs up to the current chain head.
func crawlCommand(svc crawler.Service) *cli.Command {
	return &cli.Command{
		Name:        "crawl",
		Description: "Lists the transactions sent or received by an address in a block range.",
		Usage:       "Runs a single crawl. Must provide the address and the first block.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Address to look for",
				Required: true,
			},
			&cli.Uint64Flag{
				Name:     "from",
				Usage:    "First block to scan",
				Required: true,
			},
			&cli.Uint64Flag{
				Name:  "to",
				Usage: "Last block to scan (defaults to the chain head)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			req := crawler.Request{
				Address:   c.String("address"),
				FromBlock: c.Uint64("from"),
			}

			if c.IsSet("to") {
				to := c.Uint64("to")
				req.ToBlock = &to
			}

			transactions, err := svc.Crawl(ctx, req)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if c.Bool("json") {
				return writeJSON(w, transactions)
			}

			return writeTable(w, transactions)
		},
	}
}

func writeJSON(w io.Writer, transactions []crawler.MatchedTransaction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(struct {
		Transactions []crawler.MatchedTransaction `json:"transactions"`
	}{
		Transactions: transactions,
	})
}

func writeTable(w io.Writer, transactions []crawler.MatchedTransaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "HASH\tFROM\tTO\tVALUE")
	for _, tx := range transactions {
		to := "-"
		if tx.To != nil {
			to = tx.To.Hex()
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tx.Hash.Hex(), tx.From.Hex(), to, tx.Value)
	}

	return tw.Flush()
}
