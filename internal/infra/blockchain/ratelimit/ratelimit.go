// Package ratelimit throttles the calls made through a crawler.Blockchain.
package ratelimit

import (
	"context"

	"github.com/gabapcia/ethcrawler/internal/crawler"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/time/rate"
)

// blockchain delays every call on a shared token bucket before delegating.
type blockchain struct {
	next    crawler.Blockchain
	limiter *rate.Limiter
}

var _ crawler.Blockchain = (*blockchain)(nil)

func (b *blockchain) LatestBlockNumber(ctx context.Context) (uint64, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	return b.next.LatestBlockNumber(ctx)
}

func (b *blockchain) BlockByNumber(ctx context.Context, number uint64) (crawler.Block, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return crawler.Block{}, err
	}

	return b.next.BlockByNumber(ctx, number)
}

func (b *blockchain) TransactionByHash(ctx context.Context, hash common.Hash) (crawler.Transaction, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return crawler.Transaction{}, err
	}

	return b.next.TransactionByHash(ctx, hash)
}

// Wrap returns next limited to rps calls per second with bursts of up to burst
// calls, shared across all goroutines using the returned value. A non-positive
// rps disables limiting and returns next unchanged. A burst below 1 is raised to 1.
//
// A call that cannot get a token before ctx is done fails with the limiter's
// error and never reaches next.
func Wrap(next crawler.Blockchain, rps float64, burst int) crawler.Blockchain {
	if rps <= 0 {
		return next
	}

	return &blockchain{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), max(burst, 1)),
	}
}
