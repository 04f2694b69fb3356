package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/ledger"
	"github.com/simonvc/miniledger-balances/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{
  "periodicity": "MONTHLY",
  "groupBalances": [
    {"name": "Assets", "credit": false, "cumulativeBalance": "1000", "cumulativeCredit": "1000", "cumulativeDebit": "0",
     "accountBalances": [
       {"name": "Cash", "credit": false, "cumulativeBalance": "1000",
        "balances": [{"year": 2024, "month": 1, "fuzzyDate": 20240100, "cumulativeBalance": "1000", "periodBalance": "1000"}]}
     ]},
    {"name": "Revenue", "credit": true, "cumulativeBalance": "500",
     "accountBalances": [{"name": "Sales", "credit": true, "cumulativeBalance": "500"}]}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ts := httptest.NewServer(New(st, "", nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// seed creates book "acme" with one snapshot and returns the snapshot id.
func seed(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	status, _ := do(t, http.MethodPut, ts.URL+"/api/v1/books/acme", `{"decimal_separator": "COMMA"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, http.MethodPost, ts.URL+"/api/v1/books/acme/snapshots", payload)
	require.Equal(t, http.StatusCreated, status, string(body))

	var snap ledger.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.NotEmpty(t, snap.ID)
	return snap.ID
}

func TestBooksAPI(t *testing.T) {
	ts := newTestServer(t)

	status, _ := do(t, http.MethodGet, ts.URL+"/api/v1/books/acme", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body := do(t, http.MethodPut, ts.URL+"/api/v1/books/acme", `{"fraction_digits": 3, "periodicity": "DAILY"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/books/acme", "")
	require.Equal(t, http.StatusOK, status)
	var got ledger.BookSettings
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 3, got.FractionDigits)
	assert.Equal(t, ledger.PeriodicityDaily, got.Periodicity)
	assert.Equal(t, ledger.SeparatorDot, got.DecimalSeparator)

	status, _ = do(t, http.MethodPut, ts.URL+"/api/v1/books/acme", `{"decimal_separator": "SPACE"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPut, ts.URL+"/api/v1/books/acme", `{`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/books", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"id":"acme"`)
}

func TestAccountsAndGroupsAPI(t *testing.T) {
	ts := newTestServer(t)
	seed(t, ts)

	status, body := do(t, http.MethodPut, ts.URL+"/api/v1/books/acme/accounts",
		`{"name": "Cash", "type": "ASSET", "properties": {"code": "1000"}}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/books/acme/accounts/cash", "")
	require.Equal(t, http.StatusOK, status)
	var acct ledger.Account
	require.NoError(t, json.Unmarshal(body, &acct))
	assert.Equal(t, "1000", acct.Property("code"))

	status, _ = do(t, http.MethodPut, ts.URL+"/api/v1/books/acme/accounts", `{"name": "Bad", "type": "EQUITY"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPut, ts.URL+"/api/v1/books/nobook/accounts", `{"name": "Cash", "type": "ASSET"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, http.MethodPut, ts.URL+"/api/v1/books/acme/groups", `{"name": "Revenue", "properties": {"code": "4000"}}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/books/acme/groups", "")
	require.Equal(t, http.StatusOK, status)
	var groups []ledger.Group
	require.NoError(t, json.Unmarshal(body, &groups))
	require.Len(t, groups, 1)

	status, _ = do(t, http.MethodDelete, ts.URL+"/api/v1/books/acme/groups/revenue", "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, http.MethodGet, ts.URL+"/api/v1/books/acme/groups/revenue", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSnapshotsAPI(t *testing.T) {
	ts := newTestServer(t)
	id := seed(t, ts)

	status, _ := do(t, http.MethodPost, ts.URL+"/api/v1/books/acme/snapshots", `{"groupBalances": [`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPost, ts.URL+"/api/v1/books/nobook/snapshots", payload)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := do(t, http.MethodGet, ts.URL+"/api/v1/books/acme/snapshots", "")
	require.Equal(t, http.StatusOK, status)
	var list []ledger.Snapshot
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/snapshots/"+id, "")
	require.Equal(t, http.StatusOK, status)
	var snap ledger.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.JSONEq(t, payload, string(snap.Payload))

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/books/acme/snapshots/latest", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), id)

	status, _ = do(t, http.MethodGet, ts.URL+"/api/v1/snapshots/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestContainerAPI(t *testing.T) {
	ts := newTestServer(t)
	id := seed(t, ts)

	status, body := do(t, http.MethodGet, ts.URL+"/api/v1/snapshots/"+id+"/containers/assets", "")
	require.Equal(t, http.StatusOK, status, string(body))
	var s balances.ContainerSummary
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, "Assets", s.Name)
	assert.Equal(t, "-1000", s.CumulativeBalance.String())
	assert.Equal(t, []string{"Cash"}, s.Accounts)

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/snapshots/"+id+"/containers/Nonexistent", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "not found")
}

func TestTableAPI(t *testing.T) {
	ts := newTestServer(t)
	id := seed(t, ts)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"total raw", "?raw=true", `{"rows": [["", "Balance"], ["Assets", 1000], ["Revenue", 500]]}`},
		{"trial", "?trial=true", `{"rows": [["", "Debit", "Credit"], ["Assets", 0, 1000], ["Revenue", 0, 0]]}`},
		{"expanded accounts", "?raw=true&expanded=accounts", `{"rows": [["", "Balance"], ["Cash", 1000], ["Sales", 500]]}`},
		{"formatted", "?formatValues=true", `{"rows": [["", "Balance"], ["Assets", "-1.000,00"], ["Revenue", "500,00"]]}`},
		{"cumulative", "?type=cumulative&container=assets", `{"rows": [["", "Cash"], ["2024-02-01", -1000]]}`},
		{"period missing bucket", "?type=PERIOD&raw=1&expanded=accounts&transposed=true",
			`{"rows": [["", "2024-02-01"], ["Cash", 1000], ["Sales", null]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, http.MethodGet, ts.URL+"/api/v1/snapshots/"+id+"/table"+tt.query, "")
			require.Equal(t, http.StatusOK, status, string(body))
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}

func TestTableAPI_Errors(t *testing.T) {
	ts := newTestServer(t)
	id := seed(t, ts)

	for _, q := range []string{"?type=weekly", "?raw=maybe", "?expanded=deep"} {
		status, _ := do(t, http.MethodGet, ts.URL+"/api/v1/snapshots/"+id+"/table"+q, "")
		assert.Equal(t, http.StatusBadRequest, status, q)
	}

	status, _ := do(t, http.MethodGet, ts.URL+"/api/v1/snapshots/"+id+"/table?container=nope", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, http.MethodGet, ts.URL+"/api/v1/snapshots/missing/table", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestParseTableOptions(t *testing.T) {
	q := map[string][]string{
		"type":        {"period"},
		"transposed":  {"true"},
		"expanded":    {"groups"},
		"hideNames":   {"1"},
		"formatDates": {"false"},
	}
	opts, err := parseTableOptions(q)
	require.NoError(t, err)
	assert.Equal(t, balances.Options{
		Type:       balances.PeriodBalance,
		Transposed: true,
		HideNames:  true,
		Expanded:   balances.ExpandAllGroups,
	}, opts)
}

func TestSeedChartAPI(t *testing.T) {
	ts := newTestServer(t)
	seed(t, ts)

	status, body := do(t, http.MethodPost, ts.URL+"/api/v1/books/acme/chart", "")
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"groups": 4, "accounts": 13}`, string(body))

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/books/acme/accounts/sales", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"code":"4010"`)

	status, _ = do(t, http.MethodPost, ts.URL+"/api/v1/books/nobook/chart", "")
	assert.Equal(t, http.StatusNotFound, status)
}
