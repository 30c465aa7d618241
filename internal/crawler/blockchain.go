package crawler

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	// ErrBlockNotFound is returned by a Blockchain when the requested block does not exist.
	ErrBlockNotFound = errors.New("block not found")

	// ErrTransactionNotFound is returned by a Blockchain when the requested transaction does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Block is the part of a block the crawler needs: its height and the hashes
// of its transactions in canonical order.
type Block struct {
	Number            uint64
	TransactionHashes []common.Hash
}

// Transaction is an immutable transaction record as returned by the node.
type Transaction struct {
	Hash  common.Hash
	From  common.Address
	To    *common.Address // nil for contract creation
	Value *uint256.Int    // wei
}

// Blockchain is a read-only handle to a remote node. Implementations must be
// safe for concurrent use: the crawler shares one handle across every in-flight call.
type Blockchain interface {
	// LatestBlockNumber returns the current chain head.
	LatestBlockNumber(ctx context.Context) (uint64, error)

	// BlockByNumber returns the block at the given height, or ErrBlockNotFound.
	BlockByNumber(ctx context.Context, number uint64) (Block, error)

	// TransactionByHash returns the transaction with the given hash, or ErrTransactionNotFound.
	TransactionByHash(ctx context.Context, hash common.Hash) (Transaction, error)
}
