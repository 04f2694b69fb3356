package balances

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/miniledger-balances/internal/ledger"
	"github.com/stretchr/testify/require"
)

// sampleReport:
//
//	Petty Cash (account, top level)
//	Assets
//	  Banks
//	    Bank
//	  Cash
//	Revenue
//	  Sales
const sampleReport = `{
  "periodicity": "MONTHLY",
  "accountBalances": [
    {"name": "Petty Cash", "normalizedName": "petty_cash", "credit": false, "permanent": true,
     "cumulativeBalance": "50", "periodBalance": "5",
     "balances": [{"year": 2024, "month": 1, "fuzzyDate": 20240100, "cumulativeBalance": "50", "periodBalance": "5"}]}
  ],
  "groupBalances": [
    {"name": "Assets", "normalizedName": "assets", "credit": false, "permanent": true,
     "cumulativeBalance": "1000", "periodBalance": "300",
     "cumulativeCredit": "1000", "cumulativeDebit": "0", "periodCredit": "300", "periodDebit": "0",
     "accountBalances": [
       {"name": "Cash", "normalizedName": "cash", "credit": false, "permanent": true,
        "cumulativeBalance": "300", "periodBalance": "100",
        "balances": [{"year": 2024, "month": 2, "fuzzyDate": 20240200, "cumulativeBalance": "300", "periodBalance": "100"}]}
     ],
     "groupBalances": [
       {"name": "Banks", "normalizedName": "banks", "credit": false, "permanent": true,
        "cumulativeBalance": "700", "periodBalance": "200",
        "accountBalances": [
          {"name": "Bank", "normalizedName": "bank", "credit": false, "permanent": true,
           "cumulativeBalance": "700", "periodBalance": "200",
           "properties": {"code": "1010", "sync_": "hidden"},
           "balances": [
             {"year": 2024, "month": 2, "fuzzyDate": 20240200, "cumulativeBalance": "700", "periodBalance": "200"},
             {"year": 2024, "month": 1, "fuzzyDate": 20240100, "cumulativeBalance": "500", "periodBalance": "500"}
           ]}
        ]}
     ]},
    {"name": "Revenue", "normalizedName": "revenue", "credit": true, "permanent": false,
     "cumulativeBalance": "500", "periodBalance": "300",
     "accountBalances": [
       {"name": "Sales", "normalizedName": "sales", "credit": true,
        "cumulativeBalance": "500", "periodBalance": "300",
        "balances": [
          {"year": 2024, "month": 1, "fuzzyDate": 20240100, "cumulativeBalance": "200", "periodBalance": "200"},
          {"year": 2024, "month": 2, "fuzzyDate": 20240200, "cumulativeBalance": "500", "periodBalance": "300"}
        ]}
     ]}
  ]
}`

func parse(t *testing.T, payload string, book Book) *Report {
	t.Helper()
	r, err := ParseReport([]byte(payload), book)
	require.NoError(t, err)
	return r
}

func lookup(t *testing.T, r *Report, name string) *Container {
	t.Helper()
	c, err := r.BalancesContainer(name)
	require.NoError(t, err)
	return c
}

func names(cs []*Container) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

// walk visits every container under roots, pre-order.
func walk(roots []*Container, fn func(*Container)) {
	for _, c := range roots {
		fn(c)
		walk(c.BalancesContainers(), fn)
	}
}

func stringify(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case nil:
				out[i][j] = "<nil>"
			case decimal.Decimal:
				out[i][j] = v.String()
			case time.Time:
				out[i][j] = v.Format("2006-01-02")
			case string:
				out[i][j] = v
			default:
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out
}

type stubBook struct {
	plainBook
	offset   int
	accounts map[string]*ledger.Account
	groups   map[string]*ledger.Group
	err      error
}

func (s *stubBook) TimeZoneOffset() int { return s.offset }

func (s *stubBook) Account(_ context.Context, name string) (*ledger.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	if a, ok := s.accounts[name]; ok {
		return a, nil
	}
	return nil, ledger.ErrAccountNotFound
}

func (s *stubBook) Group(_ context.Context, name string) (*ledger.Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	if g, ok := s.groups[name]; ok {
		return g, nil
	}
	return nil, ledger.ErrGroupNotFound
}
