package crawler

import (
	"context"
	"errors"

	"github.com/gabapcia/ethcrawler/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	stageBlock       = "block"
	stageTransaction = "transaction"
)

// fetchStatus classifies the result of a single RPC call.
type fetchStatus int

const (
	fetchFound fetchStatus = iota
	fetchNotFound
	fetchFailed
)

func (s fetchStatus) String() string {
	switch s {
	case fetchFound:
		return "found"
	case fetchNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// outcome is the tagged result of a fetch before it is reduced to value-or-absent.
type outcome[T any] struct {
	value  T
	status fetchStatus
	err    error
}

// newOutcome classifies err, treating notFound as an absent value rather than a failure.
func newOutcome[T any](value T, err, notFound error) outcome[T] {
	switch {
	case err == nil:
		return outcome[T]{value: value, status: fetchFound}
	case errors.Is(err, notFound):
		return outcome[T]{status: fetchNotFound, err: err}
	default:
		return outcome[T]{status: fetchFailed, err: err}
	}
}

// collapse reduces an outcome to value-or-absent. This is the only place where
// RPC failures are dropped: each one is logged and counted, then discarded, so a
// failed block or transaction is missing from the result instead of failing the run.
func collapse[T any](ctx context.Context, dropped metric.Int64Counter, stage string, o outcome[T], keysAndValues ...any) (T, bool) {
	if o.status == fetchFound {
		return o.value, true
	}

	var zero T

	// The run is being aborted; the orchestrator reports the cancellation itself.
	if ctx.Err() != nil {
		return zero, false
	}

	dropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("reason", o.status.String()),
	))

	logger.Warn(ctx, "dropping unavailable "+stage, append(keysAndValues,
		"fetch.status", o.status.String(),
		"error", o.err,
	)...)

	return zero, false
}

// fetchBlock returns the transaction hashes of the given block, or nothing when
// the block cannot be retrieved.
func (s *service) fetchBlock(ctx context.Context, number uint64) []common.Hash {
	block, err := s.blockchain.BlockByNumber(ctx, number)

	block, ok := collapse(ctx, s.dropped, stageBlock, newOutcome(block, err, ErrBlockNotFound),
		"block.number", number,
	)
	if !ok {
		return nil
	}

	return block.TransactionHashes
}

// fetchTransaction returns the transaction with the given hash, or nil when it
// cannot be retrieved.
func (s *service) fetchTransaction(ctx context.Context, hash common.Hash) *Transaction {
	tx, err := s.blockchain.TransactionByHash(ctx, hash)

	tx, ok := collapse(ctx, s.dropped, stageTransaction, newOutcome(tx, err, ErrTransactionNotFound),
		"transaction.hash", hash.Hex(),
	)
	if !ok {
		return nil
	}

	return &tx
}
