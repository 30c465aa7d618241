package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gabapcia/ethcrawler/internal/crawler"
)

var (
	// ErrMissingAddress is returned when a crawl is requested without an address.
	ErrMissingAddress = errors.New("address is required")

	// ErrInvalidBlock is returned when a block bound is not a non-negative integer.
	ErrInvalidBlock = errors.New("invalid block number")
)

// parseRequest reads address, block (first block) and the optional to (last block)
// from the query string.
func parseRequest(query url.Values) (crawler.Request, error) {
	address := query.Get("address")
	if address == "" {
		return crawler.Request{}, ErrMissingAddress
	}

	from, err := strconv.ParseUint(query.Get("block"), 10, 64)
	if err != nil {
		return crawler.Request{}, fmt.Errorf("%w: block %q", ErrInvalidBlock, query.Get("block"))
	}

	req := crawler.Request{
		Address:   address,
		FromBlock: from,
	}

	if raw := query.Get("to"); raw != "" {
		to, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return crawler.Request{}, fmt.Errorf("%w: to %q", ErrInvalidBlock, raw)
		}
		req.ToBlock = &to
	}

	return req, nil
}

// statusFor maps a crawl error to the response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrMissingAddress),
		errors.Is(err, ErrInvalidBlock),
		errors.Is(err, crawler.ErrInvalidAddress),
		errors.Is(err, crawler.ErrRangeTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
