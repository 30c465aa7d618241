package jsonrpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Err(t *testing.T) {
	t.Run("returns nil when Error field is nil", func(t *testing.T) {
		resp := response{JsonRPC: "2.0"}

		assert.NoError(t, resp.Err(), "Err() should return nil when Error field is nil")
	})

	t.Run("returns formatted error when Error field is present", func(t *testing.T) {
		expectedCode := -32601
		expectedMsg := "method not found"

		resp := response{
			JsonRPC: "2.0",
			Error: &struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}{
				Code:    expectedCode,
				Message: expectedMsg,
			},
		}

		err := resp.Err()

		assert.ErrorIs(t, err, ErrProviderReturnedError, "Err() should wrap ErrProviderReturnedError")
		assert.Contains(t, err.Error(), fmt.Sprintf("[%d]", expectedCode), "error message should include code")
		assert.Contains(t, err.Error(), expectedMsg, "error message should include message")
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Run("sends a well-formed request", func(t *testing.T) {
		var received map[string]any
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": received["id"], "result": "0x1"})
		}))
		defer mockServer.Close()

		c := NewClient(mockServer.Client(), mockServer.URL)

		result, err := c.Fetch(t.Context(), "eth_getBlockByNumber", "0x1", false)
		require.NoError(t, err)
		assert.JSONEq(t, `"0x1"`, string(result))

		assert.Equal(t, "2.0", received["jsonrpc"])
		assert.Equal(t, "eth_getBlockByNumber", received["method"])
		assert.Equal(t, []any{"0x1", false}, received["params"])
		assert.NotEmpty(t, received["id"])
	})

	t.Run("sends an empty params array when none are given", func(t *testing.T) {
		var received map[string]json.RawMessage
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": "1", "result": "0x10"})
		}))
		defer mockServer.Close()

		_, err := NewClient(mockServer.Client(), mockServer.URL).Fetch(t.Context(), "eth_blockNumber")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(received["params"]))
	})

	t.Run("returns null results untouched", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":null}`))
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.Client(), mockServer.URL).Fetch(t.Context(), "eth_getTransactionByHash", "0x00")
		require.NoError(t, err)
		assert.Equal(t, "null", string(result))
	})

	t.Run("response with JSON-RPC error", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"error": map[string]any{
					"code":    -32601,
					"message": "method not found",
				},
				"id": "1",
			})
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.Client(), mockServer.URL).Fetch(t.Context(), "nonexistent_method")
		assert.ErrorIs(t, err, ErrProviderReturnedError)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "method not found")
	})

	t.Run("non-2xx status", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.Client(), mockServer.URL).Fetch(t.Context(), "eth_blockNumber")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Nil(t, result)
	})

	t.Run("malformed JSON response", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not json"))
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.Client(), mockServer.URL).Fetch(t.Context(), "bad_json")
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("network error when server is down", func(t *testing.T) {
		mockServer := httptest.NewServer(nil)
		mockServer.Close()

		c := NewClient(&http.Client{Timeout: time.Second}, mockServer.URL)

		result, err := c.Fetch(t.Context(), "network_failure")
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestNewClient(t *testing.T) {
	httpClient := &http.Client{}
	c := NewClient(httpClient, "http://localhost:8545")

	assert.Equal(t, "http://localhost:8545", c.providerEndpoint)
	assert.Same(t, httpClient, c.httpClient)
}
