// Package admission limits how many crawls run at the same time. Callers
// beyond the limit wait for a slot.
package admission

import (
	"context"
	"sync"

	"github.com/gabapcia/ethcrawler/internal/pkg/x/chflow"
)

// ReleaseFunc gives an acquired slot back. Calling it more than once has no effect.
type ReleaseFunc func()

// Limiter admits a bounded number of concurrent holders.
type Limiter interface {
	// Acquire blocks until a slot is free or ctx is done. On success the caller
	// must call the returned ReleaseFunc when finished.
	Acquire(ctx context.Context) (ReleaseFunc, error)
}

// local is an in-process Limiter backed by a buffered channel.
type local struct {
	slots chan struct{}
}

var _ Limiter = (*local)(nil)

// Acquire implements Limiter.
func (l *local) Acquire(ctx context.Context) (ReleaseFunc, error) {
	if !chflow.Send(ctx, l.slots, struct{}{}) {
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-l.slots })
	}, nil
}

// NewLocal returns a Limiter admitting at most n holders within this process.
// n below 1 is treated as 1.
func NewLocal(n int) *local {
	return &local{
		slots: make(chan struct{}, max(n, 1)),
	}
}
