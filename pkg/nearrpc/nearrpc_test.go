package nearrpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, assertRequest func(req map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if assertRequest != nil {
			var req map[string]any
			require.NoError(t, json.Unmarshal(raw, &req))
			assertRequest(req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientViewAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{
			"jsonrpc": "2.0",
			"id": "1",
			"result": {
				"amount": "1000000000000000000000000000",
				"locked": "200",
				"code_hash": "11111111111111111111111111111111",
				"storage_usage": 182,
				"storage_paid_at": 0,
				"block_height": 9000,
				"block_hash": "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo"
			}
		}`, func(req map[string]any) {
			assert.Equal(t, "2.0", req["jsonrpc"])
			assert.Equal(t, "query", req["method"])
			params, ok := req["params"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "view_account", params["request_type"])
			assert.Equal(t, "alice.near", params["account_id"])
			assert.Equal(t, "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo", params["block_id"])
		})

		client, err := New(Config{URL: srv.URL})
		require.NoError(t, err)

		view, err := client.ViewAccount(context.Background(), "alice.near", "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo")
		require.NoError(t, err)
		assert.Equal(t, "1000000000000000000000000000", view.Amount.String())
		assert.Equal(t, "200", view.Locked.String())
		assert.Equal(t, uint64(182), view.StorageUsage)
		assert.Equal(t, int64(9000), view.BlockHeight)
	})

	t.Run("unknown_account", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{
			"jsonrpc": "2.0",
			"id": "1",
			"error": {
				"name": "HANDLER_ERROR",
				"cause": {"name": "UNKNOWN_ACCOUNT", "info": {"requested_account_id": "bob.near"}},
				"code": -32000,
				"message": "Server error",
				"data": "account bob.near does not exist while viewing"
			}
		}`, nil)

		client, err := New(Config{URL: srv.URL})
		require.NoError(t, err)

		_, err = client.ViewAccount(context.Background(), "bob.near", "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo")
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.NotFound)

		var rpcErr *Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, "UNKNOWN_ACCOUNT", rpcErr.CauseName())
	})

	t.Run("error_inside_result", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{
			"jsonrpc": "2.0",
			"id": "1",
			"result": {"error": "account bob.near does not exist while viewing", "logs": [], "block_height": 1, "block_hash": "x"}
		}`, nil)

		client, err := New(Config{URL: srv.URL})
		require.NoError(t, err)

		_, err = client.ViewAccount(context.Background(), "bob.near", "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo")
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("internal_error", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{
			"jsonrpc": "2.0",
			"id": "1",
			"error": {"name": "INTERNAL_ERROR", "cause": {"name": "INTERNAL_ERROR", "info": {}}, "code": -32000, "message": "Server error"}
		}`, nil)

		client, err := New(Config{URL: srv.URL})
		require.NoError(t, err)

		_, err = client.ViewAccount(context.Background(), "alice.near", "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo")
		require.Error(t, err)
		assert.NotErrorIs(t, err, errs.NotFound)
	})

	t.Run("bad_status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("bad gateway"))
		}))
		t.Cleanup(srv.Close)

		client, err := New(Config{URL: srv.URL})
		require.NoError(t, err)

		_, err = client.ViewAccount(context.Background(), "alice.near", "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("malformed_amount", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"jsonrpc": "2.0", "id": "1", "result": {"amount": "-1", "locked": "0"}}`, nil)

		client, err := New(Config{URL: srv.URL})
		require.NoError(t, err)

		_, err = client.ViewAccount(context.Background(), "alice.near", "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo")
		assert.Error(t, err)
	})
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, errs.InvalidArgument)
}
