package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/gasmon/internal/chain"
	"github.com/Mohsinsiddi/gasmon/internal/dashboard"
	"github.com/Mohsinsiddi/gasmon/internal/fees"
	"github.com/Mohsinsiddi/gasmon/internal/providers"
	"github.com/Mohsinsiddi/gasmon/test/fixtures"
)

// mockEtherscan serves body for every txlist request and records the queries.
func mockEtherscan(t *testing.T, body []byte) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func newService(t *testing.T, baseURL string) *fees.Service {
	t.Helper()
	p := providers.NewEtherscan(baseURL, "test-key", providers.Options(5*time.Second, 0)...)
	require.NotNil(t, p)
	return fees.NewService(p, time.UTC, zap.NewNop())
}

func TestReportFromRecordedTxList(t *testing.T) {
	srv, queries := mockEtherscan(t, fixtures.LoadTxList(t, "txlist_ok.json"))
	svc := newService(t, srv.URL)

	rep, err := svc.Report(context.Background(), fixtures.Address, fees.Days)
	require.NoError(t, err)

	// Failed and incoming transactions are dropped.
	require.Len(t, rep.Transactions, 3)
	require.Len(t, rep.Buckets, 2)
	assert.Equal(t, "5-1-2021", rep.Buckets[0].Key)
	assert.InDelta(t, 0.00042+0.0015, rep.Buckets[0].TotalFeeETH, 1e-12)
	assert.Equal(t, 2, rep.Buckets[0].Count)
	assert.Equal(t, "6-1-2021", rep.Buckets[1].Key)
	assert.InDelta(t, 0.00021, rep.Buckets[1].TotalFeeETH, 1e-12)
	assert.InDelta(t, 0.00213, rep.TotalFeeETH, 1e-12)
	assert.Equal(t, "etherscan", rep.Source)

	require.Len(t, *queries, 1)
	assert.Contains(t, (*queries)[0], "address="+strings.ToLower(fixtures.Address))
	assert.Contains(t, (*queries)[0], "apikey=test-key")
}

func TestReportByMonth(t *testing.T) {
	srv, _ := mockEtherscan(t, fixtures.LoadTxList(t, "txlist_ok.json"))
	rep, err := newService(t, srv.URL).Report(context.Background(), fixtures.Address, fees.Months)
	require.NoError(t, err)

	require.Len(t, rep.Buckets, 2)
	assert.Equal(t, "5-2021", rep.Buckets[0].Key)
	assert.Equal(t, "6-2021", rep.Buckets[1].Key)
}

func TestReportNoTransactions(t *testing.T) {
	srv, _ := mockEtherscan(t, fixtures.LoadTxList(t, "txlist_empty.json"))
	rep, err := newService(t, srv.URL).Report(context.Background(), fixtures.Address, fees.Days)
	require.NoError(t, err)
	assert.Empty(t, rep.Transactions)
	assert.Empty(t, rep.Buckets)
}

func TestReportAPIError(t *testing.T) {
	srv, _ := mockEtherscan(t, fixtures.LoadTxList(t, "txlist_notok.json"))
	_, err := newService(t, srv.URL).Report(context.Background(), fixtures.Address, fees.Days)
	require.Error(t, err)
	assert.ErrorIs(t, err, chain.ErrAPI)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestReportMissingField(t *testing.T) {
	srv, _ := mockEtherscan(t, fixtures.LoadTxList(t, "txlist_missing_gasprice.json"))
	_, err := newService(t, srv.URL).Report(context.Background(), fixtures.Address, fees.Days)
	require.Error(t, err)
	assert.ErrorIs(t, err, chain.ErrData)
	assert.Contains(t, err.Error(), "gasPrice")
}

func TestDashboardAPIEndToEnd(t *testing.T) {
	srv, _ := mockEtherscan(t, fixtures.LoadTxList(t, "txlist_ok.json"))
	s, err := dashboard.NewServer(dashboard.Options{DefaultAddress: fixtures.Address}, newService(t, srv.URL), zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report?period=Months", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var rep fees.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, fees.Months, rep.Period)
	assert.Len(t, rep.Rows, 3)
	assert.Equal(t, chain.TxURLPrefix+rep.Rows[0].Hash, rep.Rows[0].TxURL)
}

func TestDashboardPageErrorNotice(t *testing.T) {
	srv, _ := mockEtherscan(t, fixtures.LoadTxList(t, "txlist_notok.json"))
	s, err := dashboard.NewServer(dashboard.Options{DefaultAddress: fixtures.Address}, newService(t, srv.URL), zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-kind="api_error"`)
	assert.NotContains(t, w.Body.String(), "test-key")
}
