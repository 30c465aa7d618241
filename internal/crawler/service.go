// Package crawler lists every transaction in a block range that involves a given address.
//
// A crawl runs two bounded fan-out stages against a shared Blockchain handle:
// blocks are fetched to collect transaction hashes, then every transaction is
// fetched and matched against the address. Results always follow block order,
// then the order of transactions within each block.
//
// Per-call failures are not errors: a block or transaction the node fails to
// return is logged, counted in the crawler.fetch.dropped metric and left out of
// the result. Callers must treat results as possibly incomplete.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gabapcia/ethcrawler/internal/pkg/logger"
	"github.com/gabapcia/ethcrawler/internal/pkg/x/parallel"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// instrumentationName identifies the crawler's tracer and meter.
	instrumentationName = "github.com/gabapcia/ethcrawler/internal/crawler"

	// defaultConcurrency is the maximum number of RPC calls in flight per stage.
	defaultConcurrency = 100

	// defaultMaxBlockRange is the largest number of blocks a single crawl may span.
	defaultMaxBlockRange = 1_000_000
)

var (
	// ErrInvalidAddress is returned when the request address is not a 20-byte hex string.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrLatestBlockUnavailable is returned when no upper bound was given and the
	// chain head could not be resolved.
	ErrLatestBlockUnavailable = errors.New("latest block number unavailable")

	// ErrRangeTooLarge is returned when the resolved range spans more blocks than
	// the service accepts.
	ErrRangeTooLarge = errors.New("block range too large")
)

// Service runs crawls. It holds no per-crawl state and may be used by many
// callers at once.
type Service interface {
	// Crawl returns the transactions in the requested range whose sender or
	// recipient is the requested address.
	//
	// It fails only when the address is malformed (ErrInvalidAddress), when the
	// chain head is needed and cannot be fetched (ErrLatestBlockUnavailable), when
	// the resolved range is wider than the configured limit (ErrRangeTooLarge), or
	// when ctx is canceled. In every failure case no partial result is returned.
	Crawl(ctx context.Context, req Request) ([]MatchedTransaction, error)
}

type service struct {
	blockchain    Blockchain
	concurrency   int
	maxBlockRange uint64

	tracer      trace.Tracer
	dropped     metric.Int64Counter
	runDuration metric.Float64Histogram
}

var _ Service = (*service)(nil)

// resolveToBlock returns the requested upper bound, or the chain head when none was given.
func (s *service) resolveToBlock(ctx context.Context, toBlock *uint64) (uint64, error) {
	if toBlock != nil {
		return *toBlock, nil
	}

	latest, err := s.blockchain.LatestBlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLatestBlockUnavailable, err)
	}

	return latest, nil
}

// checkSpan rejects ranges covering more than maxBlockRange blocks. An inverted
// range is empty and always accepted.
func (s *service) checkSpan(from, to uint64) error {
	if from > to {
		return nil
	}

	if to-from >= s.maxBlockRange {
		return fmt.Errorf("%w: blocks %d..%d exceed the limit of %d", ErrRangeTooLarge, from, to, s.maxBlockRange)
	}

	return nil
}

// Crawl implements Service.
func (s *service) Crawl(ctx context.Context, req Request) ([]MatchedTransaction, error) {
	target, err := req.target()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	ctx, span := s.tracer.Start(ctx, "crawler.Crawl", trace.WithAttributes(
		attribute.String("crawl.run_id", runID),
		attribute.String("crawl.address", target.Hex()),
		attribute.Int64("crawl.from_block", int64(req.FromBlock)),
	))
	defer span.End()

	matches, err := s.crawl(ctx, runID, target, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx, "crawl failed",
			"crawl.run_id", runID,
			"crawl.address", target.Hex(),
			"error", err,
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("crawl.matches", len(matches)))
	return matches, nil
}

func (s *service) crawl(ctx context.Context, runID string, target common.Address, req Request) ([]MatchedTransaction, error) {
	toBlock, err := s.resolveToBlock(ctx, req.ToBlock)
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("crawl.to_block", int64(toBlock)))

	if err := s.checkSpan(req.FromBlock, toBlock); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "crawl started",
		"crawl.run_id", runID,
		"crawl.from_block", req.FromBlock,
		"crawl.to_block", toBlock,
	)

	start := time.Now()
	numbers := blockRange(req.FromBlock, toBlock)

	hashesPerBlock, err := parallel.Map(ctx, numbers, s.concurrency, s.fetchBlock)
	if err != nil {
		return nil, err
	}

	hashes := slices.Concat(hashesPerBlock...)

	transactions, err := parallel.Map(ctx, hashes, s.concurrency, s.fetchTransaction)
	if err != nil {
		return nil, err
	}

	matches := make([]MatchedTransaction, 0)
	for _, tx := range transactions {
		if tx == nil {
			continue
		}

		if match, ok := Project(target, *tx); ok {
			matches = append(matches, match)
		}
	}

	elapsed := time.Since(start)
	s.runDuration.Record(ctx, elapsed.Seconds())

	logger.Info(ctx, "crawl finished",
		"crawl.run_id", runID,
		"crawl.address", target.Hex(),
		"crawl.from_block", req.FromBlock,
		"crawl.to_block", toBlock,
		"crawl.blocks", len(numbers),
		"crawl.transactions", len(hashes),
		"crawl.matches", len(matches),
		"crawl.elapsed", elapsed.String(),
	)

	return matches, nil
}

// config holds optional settings for the crawler service.
type config struct {
	concurrency    int
	maxBlockRange  uint64
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures the crawler service.
type Option func(*config)

// New creates a crawler backed by the given Blockchain handle.
//
// Defaults: 100 concurrent calls per stage, at most 1,000,000 blocks per crawl,
// and the global OpenTelemetry tracer and meter providers.
func New(blockchain Blockchain, opts ...Option) (*service, error) {
	cfg := config{
		concurrency:    defaultConcurrency,
		maxBlockRange:  defaultMaxBlockRange,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	meter := cfg.meterProvider.Meter(instrumentationName)

	dropped, err := meter.Int64Counter("crawler.fetch.dropped",
		metric.WithDescription("RPC results left out of a crawl because the call failed or found nothing"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram("crawler.run.duration",
		metric.WithDescription("Wall-clock time of a crawl, excluding chain head resolution"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &service{
		blockchain:    blockchain,
		concurrency:   cfg.concurrency,
		maxBlockRange: cfg.maxBlockRange,
		tracer:        cfg.tracerProvider.Tracer(instrumentationName),
		dropped:       dropped,
		runDuration:   runDuration,
	}, nil
}

// WithConcurrency sets the maximum number of RPC calls in flight in each stage.
// Values below 1 are ignored.
//
// Default: 100.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxBlockRange sets the largest number of blocks a single crawl may cover.
// Zero is ignored.
//
// Default: 1,000,000.
func WithMaxBlockRange(n uint64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBlockRange = n
		}
	}
}

// WithTracerProvider sets the provider used to trace crawls.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets the provider used for crawl metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}
