package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gabapcia/ethcrawler/internal/admission"
	"github.com/gabapcia/ethcrawler/internal/config"
	"github.com/gabapcia/ethcrawler/internal/crawler"
	"github.com/gabapcia/ethcrawler/internal/handlers/cli"
	httphandler "github.com/gabapcia/ethcrawler/internal/handlers/http"
	"github.com/gabapcia/ethcrawler/internal/infra/blockchain/ethereum"
	"github.com/gabapcia/ethcrawler/internal/infra/blockchain/ratelimit"
	"github.com/gabapcia/ethcrawler/internal/infra/storage/redis"
	"github.com/gabapcia/ethcrawler/internal/pkg/logger"
	"github.com/gabapcia/ethcrawler/internal/pkg/resilience/retry"
	"github.com/gabapcia/ethcrawler/internal/pkg/telemetry"
	httptransport "github.com/gabapcia/ethcrawler/internal/pkg/transport/http"
	"github.com/gabapcia/ethcrawler/internal/pkg/transport/jsonrpc"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// admissionLockName identifies the crawl lock shared by every replica.
	admissionLockName = "crawl"

	shutdownTimeout = 10 * time.Second
)

// newLimiter returns the Redis admission lock when Redis is configured, and an
// in-process one-slot limiter otherwise. The returned cleanup closes any connection.
func newLimiter(ctx context.Context, cfg config.Config) (admission.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		return admission.NewLocal(1), func() {}, nil
	}

	var (
		limiter admission.Limiter
		closeFn func() error
	)

	connect := retry.New(
		retry.WithAttempts(cfg.RedisConnectAttempts),
		retry.WithDelay(cfg.RedisConnectDelay),
		retry.WithMaxDelay(cfg.RedisConnectMaxDelay),
		retry.WithLastErrorOnly(false),
	)

	err := connect.Execute(ctx, "redis connect", func() error {
		client, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}

		limiter = client.AdmissionLock(admissionLockName, cfg.AdmissionTTL)
		closeFn = client.Close
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "using redis admission lock", "redis.addr", cfg.RedisAddr)

	return limiter, func() {
		if err := closeFn(); err != nil {
			logger.Warn(ctx, "redis close failed", "error", err)
		}
	}, nil
}

// newRPCClient returns the HTTP client used for JSON-RPC calls.
func newRPCClient(cfg config.Config) *retryablehttp.Client {
	return httptransport.NewClient(
		httptransport.WithTimeout(cfg.RPCTimeout),
		httptransport.WithRetryMax(cfg.RPCRetryMax),
		httptransport.WithRetryWaitMin(cfg.RPCRetryWaitMin),
		httptransport.WithRetryWaitMax(cfg.RPCRetryWaitMax),
		httptransport.WithMaxIdleConnsPerHost(cfg.Concurrency),
	)
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			if err := shutdown(shutdownCtx); err != nil {
				logger.Error(ctx, "telemetry shutdown failed", "error", err)
			}
		}()
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		return err
	}
	defer logger.Sync()

	rpc := jsonrpc.NewClient(newRPCClient(cfg).StandardClient(), cfg.HTTPProvider)
	blockchain := ratelimit.Wrap(ethereum.NewClient(rpc), cfg.RPCRateLimit, cfg.RPCRateBurst)

	svc, err := crawler.New(blockchain,
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithMaxBlockRange(cfg.MaxBlockRange),
	)
	if err != nil {
		return err
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	server := httphandler.NewServer(svc, limiter)

	return cli.Run(ctx, svc, server, cfg.HTTPAddr)
}

func main() {
	ctx := context.Background()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ethcrawler:", err)
		os.Exit(1)
	}
}
