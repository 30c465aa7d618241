package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabapcia/ethcrawler/internal/crawler"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bunrouter"
)

const (
	pageTitle = "Ethereum transaction crawler"

	// Values prefilled in the search form before the first search.
	defaultAddress = "0x62c7c75b46E86FAdd27928D0F6de1df22276860e"
	defaultBlock   = "17571440"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>table, th, td { border: 1px solid black; }</style>
</head>
<body>
<h1>Insert wallet address and block number to search</h1>
<form action="/">
<input type="text" name="address" placeholder="Wallet address" value="{{.Address}}">
<input type="text" name="block" placeholder="Block number" value="{{.Block}}">
<input type="text" name="to" placeholder="Last block (optional)" value="{{.To}}">
<input type="submit" value="Submit">
</form>
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- end}}
{{- if .Searched}}
<div>Transactions: <table>
<tr><th>From</th><th>To</th><th>Value</th></tr>
{{- range .Rows}}
<tr><td>{{.From}}</td><td>{{.To}}</td><td>{{.Value}}</td></tr>
{{- end}}
</table></div>
{{- else}}
<div>Select a wallet and block number to search</div>
{{- end}}
</body>
</html>
`))

type (
	// pageRow is one rendered transaction.
	pageRow struct {
		From  string
		To    string
		Value string
	}

	pageData struct {
		Title    string
		Address  string
		Block    string
		To       string
		Error    string
		Searched bool
		Rows     []pageRow
	}
)

// shortAddress renders an address as its first and last four hex digits,
// e.g. 0xaa7a…0a6f.
func shortAddress(address common.Address) string {
	s := strings.ToLower(address.Hex())
	return s[:6] + "…" + s[len(s)-4:]
}

func newPageRows(transactions []crawler.MatchedTransaction) []pageRow {
	rows := make([]pageRow, len(transactions))
	for i, tx := range transactions {
		to := "-"
		if tx.To != nil {
			to = shortAddress(*tx.To)
		}

		rows[i] = pageRow{
			From:  shortAddress(tx.From),
			To:    to,
			Value: tx.Value,
		}
	}

	return rows
}

func renderPage(w http.ResponseWriter, status int, data pageData) error {
	data.Title = pageTitle

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)

	_, err := buf.WriteTo(w)
	return err
}

// indexHandler renders the search form and, when an address is given, the
// table of matching transactions.
func (s *Server) indexHandler(w http.ResponseWriter, req bunrouter.Request) error {
	query := req.URL.Query()
	if !query.Has("address") {
		return renderPage(w, http.StatusOK, pageData{
			Address: defaultAddress,
			Block:   defaultBlock,
		})
	}

	data := pageData{
		Address: query.Get("address"),
		Block:   query.Get("block"),
		To:      query.Get("to"),
	}

	crawlReq, err := parseRequest(query)
	if err != nil {
		data.Error = err.Error()
		return renderPage(w, http.StatusBadRequest, data)
	}

	transactions, err := s.crawl(req.Context(), crawlReq)
	if err != nil {
		data.Error = err.Error()
		return renderPage(w, statusFor(err), data)
	}

	data.Searched = true
	data.Rows = newPageRows(transactions)

	return renderPage(w, http.StatusOK, data)
}
