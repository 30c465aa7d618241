package http

import (
	"encoding/json"
	"net/http"

	"github.com/gabapcia/ethcrawler/internal/crawler"

	"github.com/uptrace/bunrouter"
)

type (
	transactionsResponse struct {
		Transactions []crawler.MatchedTransaction `json:"transactions"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// transactionsHandler runs a crawl and returns the matches as JSON.
func (s *Server) transactionsHandler(w http.ResponseWriter, req bunrouter.Request) error {
	crawlReq, err := parseRequest(req.URL.Query())
	if err != nil {
		return writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	transactions, err := s.crawl(req.Context(), crawlReq)
	if err != nil {
		return writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
	}

	return writeJSON(w, http.StatusOK, transactionsResponse{Transactions: transactions})
}

func healthHandler(w http.ResponseWriter, _ bunrouter.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
