package chain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers for explorer API tests
// ---------------------------------------------------------------------------

// explorerServer creates a mock Etherscan-compatible API server.
func explorerServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL, apiKey string) *ExplorerClient {
	return NewExplorerClient(baseURL, apiKey, WithRateLimit(0))
}

// txRecord returns a complete txlist record that can be edited per test.
func txRecord(hash string) map[string]interface{} {
	return map[string]interface{}{
		"hash":             hash,
		"from":             "0xfrom1",
		"to":               "0xto1",
		"timeStamp":        "1700000000",
		"gasPrice":         "20000000000",
		"gasUsed":          "21000",
		"txreceipt_status": "1",
		"isError":          "0",
		"value":            "0",
	}
}

func okTxListResponse(records ...map[string]interface{}) []byte {
	if records == nil {
		records = []map[string]interface{}{}
	}
	b, _ := json.Marshal(records)
	env := map[string]interface{}{
		"status":  "1",
		"message": "OK",
		"result":  json.RawMessage(b),
	}
	out, _ := json.Marshal(env)
	return out
}

func errorResponse(message, result string) []byte {
	env := map[string]interface{}{
		"status":  "0",
		"message": message,
		"result":  result,
	}
	out, _ := json.Marshal(env)
	return out
}

func serveBody(t *testing.T, body []byte) *httptest.Server {
	return explorerServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body) //nolint:errcheck
	})
}

// ---------------------------------------------------------------------------
// GetTransactions: success paths
// ---------------------------------------------------------------------------

func TestGetTransactionsSuccess(t *testing.T) {
	second := txRecord("0xhash2")
	second["from"] = "0xFROM2"
	second["to"] = ""
	second["txreceipt_status"] = "0"
	srv := serveBody(t, okTxListResponse(txRecord("0xhash1"), second))

	result, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "0xhash1", result[0].Hash)
	assert.Equal(t, "0xfrom1", result[0].From)
	assert.Equal(t, "0xto1", result[0].To)
	assert.Equal(t, int64(1700000000), result[0].Timestamp)
	assert.Equal(t, "20000000000", result[0].GasPrice.String())
	assert.Equal(t, uint64(21000), result[0].GasUsed)
	assert.True(t, result[0].Succeeded())

	assert.Equal(t, "0xFROM2", result[1].From, "from is kept verbatim")
	assert.Empty(t, result[1].To, "contract creation has no recipient")
	assert.False(t, result[1].Succeeded())
}

func TestGetTransactionsEmptyArray(t *testing.T) {
	srv := serveBody(t, okTxListResponse())

	result, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestGetTransactionsNoTransactionsFound(t *testing.T) {
	// Etherscan answers an address without history with status 0 and an empty array.
	body := []byte(`{"status":"0","message":"No transactions found","result":[]}`)
	srv := serveBody(t, body)

	result, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestGetTransactionsEmptyReceiptStatus(t *testing.T) {
	rec := txRecord("0xold")
	rec["txreceipt_status"] = ""
	srv := serveBody(t, okTxListResponse(rec))

	result, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 0, result[0].ReceiptStatus)
}

// ---------------------------------------------------------------------------
// GetTransactions: request shape
// ---------------------------------------------------------------------------

func TestGetTransactionsQueryParameters(t *testing.T) {
	var query map[string][]string
	srv := explorerServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write(okTxListResponse()) //nolint:errcheck
	})

	_, err := newTestClient(srv.URL, "MYAPIKEY123").GetTransactions(context.Background(), "  0xABCdef  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"account"}, query["module"])
	assert.Equal(t, []string{"txlist"}, query["action"])
	assert.Equal(t, []string{"0xabcdef"}, query["address"], "address must be trimmed and lower-cased")
	assert.Equal(t, []string{"MYAPIKEY123"}, query["apikey"])
	assert.NotContains(t, query, "page", "no pagination")
	assert.NotContains(t, query, "offset", "no pagination")
}

func TestGetTransactionsNoAPIKeyWhenEmpty(t *testing.T) {
	var rawQuery string
	srv := explorerServer(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write(okTxListResponse()) //nolint:errcheck
	})

	_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	require.NoError(t, err)
	assert.NotContains(t, rawQuery, "apikey")
}

func TestTxListURLWithExistingQuery(t *testing.T) {
	c := newTestClient("https://api.etherscan.io/v2/api?chainid=1", "K")
	u := c.txListURL("0xA")
	assert.Equal(t, "https://api.etherscan.io/v2/api?chainid=1&module=account&action=txlist&address=0xa&apikey=K", u)
}

func TestNewExplorerClientDefaultURL(t *testing.T) {
	c := NewExplorerClient("", "K")
	assert.Equal(t, DefaultExplorerURL, c.BaseURL())
}

// ---------------------------------------------------------------------------
// GetTransactions: failure kinds
// ---------------------------------------------------------------------------

func TestGetTransactionsAPIError(t *testing.T) {
	srv := serveBody(t, errorResponse("NOTOK", "Invalid API Key"))

	_, err := newTestClient(srv.URL, "bad").GetTransactions(context.Background(), "0xaddr")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestGetTransactionsAPIErrorRateLimit(t *testing.T) {
	srv := serveBody(t, errorResponse("NOTOK", "Max rate limit reached"))

	_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "Max rate limit reached")
}

func TestGetTransactionsAPIErrorWithoutMessage(t *testing.T) {
	srv := serveBody(t, []byte(`{"status":"0","message":"","result":null}`))

	_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	assert.ErrorIs(t, err, ErrAPI)
}

func TestGetTransactionsInvalidJSON(t *testing.T) {
	srv := serveBody(t, []byte(`{not valid}`))

	_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestGetTransactionsNon2xx(t *testing.T) {
	srv := explorerServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write(okTxListResponse()) //nolint:errcheck
	})

	_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestGetTransactionsConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, "SECRETKEY").GetTransactions(context.Background(), "0xaddr")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "explorer request failed")
	assert.NotContains(t, err.Error(), "SECRETKEY", "api key must not leak into errors")
}

func TestGetTransactionsCancelledContext(t *testing.T) {
	srv := serveBody(t, okTxListResponse())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL, "").GetTransactions(ctx, "0xaddr")
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGetTransactionsResultNotArray(t *testing.T) {
	srv := serveBody(t, []byte(`{"status":"1","message":"OK","result":"surprise"}`))

	_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	assert.ErrorIs(t, err, ErrData)
}

func TestGetTransactionsResultMissing(t *testing.T) {
	srv := serveBody(t, []byte(`{"status":"1","message":"OK"}`))

	_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	assert.ErrorIs(t, err, ErrData)
}

func TestGetTransactionsMissingFieldFailsWhole(t *testing.T) {
	for _, field := range []string{"hash", "from", "to", "timeStamp", "gasPrice", "gasUsed", "txreceipt_status"} {
		t.Run(field, func(t *testing.T) {
			broken := txRecord("0xbroken")
			delete(broken, field)
			srv := serveBody(t, okTxListResponse(txRecord("0xgood"), broken))

			result, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrData)
			assert.Nil(t, result, "no partial result")
			assert.Contains(t, err.Error(), "record 1")
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestGetTransactionsInvalidNumbers(t *testing.T) {
	cases := map[string]string{
		"timeStamp":        "yesterday",
		"gasPrice":         "-5",
		"gasUsed":          "1.5",
		"txreceipt_status": "ok",
	}
	for field, value := range cases {
		t.Run(field, func(t *testing.T) {
			rec := txRecord("0xbad")
			rec[field] = value
			srv := serveBody(t, okTxListResponse(rec))

			_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
			assert.ErrorIs(t, err, ErrData)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestGetTransactionsWrongFieldType(t *testing.T) {
	rec := txRecord("0xbad")
	rec["gasUsed"] = 21000 // number instead of decimal string
	srv := serveBody(t, okTxListResponse(rec))

	_, err := newTestClient(srv.URL, "").GetTransactions(context.Background(), "0xaddr")
	assert.ErrorIs(t, err, ErrData)
}

// ---------------------------------------------------------------------------
// RedactAPIKey
// ---------------------------------------------------------------------------

func TestRedactAPIKey(t *testing.T) {
	in := "https://api.etherscan.io/api?module=account&apikey=ABC123&address=0x1"
	out := RedactAPIKey(in)
	assert.Equal(t, "https://api.etherscan.io/api?module=account&apikey=REDACTED&address=0x1", out)
	assert.False(t, strings.Contains(out, "ABC123"))
}

func TestRedactAPIKeyNoKey(t *testing.T) {
	in := "https://api.etherscan.io/api?module=account"
	assert.Equal(t, in, RedactAPIKey(in))
}
