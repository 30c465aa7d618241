// Package http exposes the crawler over HTTP: an HTML search page, a JSON API
// and a health check, routed with bunrouter.
//
// Every crawl goes through an admission.Limiter, so requests beyond its capacity
// wait for a running crawl to finish instead of multiplying the RPC load.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gabapcia/ethcrawler/internal/admission"
	"github.com/gabapcia/ethcrawler/internal/crawler"
	"github.com/gabapcia/ethcrawler/internal/pkg/logger"
	"github.com/gabapcia/ethcrawler/internal/pkg/x/chflow"

	"github.com/uptrace/bunrouter"
)

const (
	// indexPath serves the HTML search page.
	indexPath = "/"

	// transactionsPath serves crawl results as JSON.
	transactionsPath = "/api/transactions"

	// healthPath is the liveness check.
	healthPath = "/healthz"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves crawl requests.
type Server struct {
	crawler crawler.Service
	limiter admission.Limiter
}

// NewServer returns a Server running crawls on svc, admitted through limiter.
func NewServer(svc crawler.Service, limiter admission.Limiter) *Server {
	return &Server{
		crawler: svc,
		limiter: limiter,
	}
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	router := bunrouter.New(
		bunrouter.Use(errorHandler),
	)

	router.GET(indexPath, s.indexHandler)
	router.GET(transactionsPath, s.transactionsHandler)
	router.GET(healthPath, healthHandler)

	return router
}

// crawl runs req once a slot is admitted.
func (s *Server) crawl(ctx context.Context, req crawler.Request) ([]crawler.MatchedTransaction, error) {
	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.crawler.Crawl(ctx, req)
}

// ListenAndServe serves on addr until ctx is done, then shuts the server down
// gracefully, letting in-flight requests finish for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info(ctx, "http server started", "http.addr", addr)

	if err, ok := chflow.Receive(ctx, errCh); ok {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	logger.Info(ctx, "http server shutting down", "http.addr", addr)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// errorHandler logs errors returned by handlers. Handlers write their own
// responses, so a returned error means the response could not be delivered.
func errorHandler(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		if err := next(w, req); err != nil {
			logger.Error(req.Context(), "http handler failed",
				"http.method", req.Method,
				"http.route", req.Route(),
				"error", err,
			)
		}

		return nil
	}
}
