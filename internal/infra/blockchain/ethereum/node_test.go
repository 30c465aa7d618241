package ethereum

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gabapcia/ethcrawler/internal/pkg/transport/jsonrpc"

	"github.com/stretchr/testify/require"
)

// rpcError is a JSON-RPC error object served by mockNode.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// mockNode is an httptest JSON-RPC server that answers from canned replies keyed
// by method and encoded params. Unknown requests get a null result.
type mockNode struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	results map[string]json.RawMessage
	errors  map[string]rpcError
	calls   map[string]int
}

func newMockNode(t *testing.T) *mockNode {
	t.Helper()

	n := &mockNode{
		t:       t,
		results: make(map[string]json.RawMessage),
		errors:  make(map[string]rpcError),
		calls:   make(map[string]int),
	}

	n.server = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.server.Close)

	return n
}

func (n *mockNode) key(method string, params json.RawMessage) string {
	var decoded []any
	require.NoError(n.t, json.Unmarshal(params, &decoded))

	normalized, err := json.Marshal(decoded)
	require.NoError(n.t, err)

	return method + string(normalized)
}

func (n *mockNode) encodeParams(params ...any) json.RawMessage {
	if params == nil {
		params = []any{}
	}

	data, err := json.Marshal(params)
	require.NoError(n.t, err)

	return data
}

// reply registers the raw JSON result for method called with params.
func (n *mockNode) reply(result string, method string, params ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.results[n.key(method, n.encodeParams(params...))] = json.RawMessage(result)
}

// fail registers a JSON-RPC error for method called with params.
func (n *mockNode) fail(code int, message string, method string, params ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.errors[n.key(method, n.encodeParams(params...))] = rpcError{Code: code, Message: message}
}

// callCount returns how many times method was called with params.
func (n *mockNode) callCount(method string, params ...any) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.calls[n.key(method, n.encodeParams(params...))]
}

func (n *mockNode) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string          `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	key := n.key(req.Method, req.Params)
	n.calls[key]++
	result, hasResult := n.results[key]
	rpcErr, hasErr := n.errors[key]
	n.mu.Unlock()

	res := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	switch {
	case hasErr:
		res["error"] = rpcErr
	case hasResult:
		res["result"] = result
	default:
		res["result"] = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// client returns an Ethereum client talking to the mock node.
func (n *mockNode) client() *client {
	return NewClient(jsonrpc.NewClient(n.server.Client(), n.server.URL))
}
