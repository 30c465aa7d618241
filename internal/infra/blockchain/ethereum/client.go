// Package ethereum provides an implementation of the crawler.Blockchain interface
// for Ethereum-compatible nodes using a JSON-RPC client.
package ethereum

import (
	"bytes"
	"encoding/json"

	"github.com/gabapcia/ethcrawler/internal/crawler"
	"github.com/gabapcia/ethcrawler/internal/pkg/transport/jsonrpc"
)

// client implements the crawler.Blockchain interface for Ethereum-based networks.
// It communicates with an Ethereum node via a JSON-RPC client.
type client struct {
	conn jsonrpc.Client // Underlying JSON-RPC client used to interact with the Ethereum node
}

// Ensure client implements the crawler.Blockchain interface at compile time.
var _ crawler.Blockchain = (*client)(nil)

// isNull reports whether a raw JSON-RPC result is absent or the JSON literal null,
// which nodes return for unknown blocks and transactions.
func isNull(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// NewClient creates a new Ethereum blockchain client using the provided JSON-RPC connection.
// The returned client is safe for concurrent use.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}
