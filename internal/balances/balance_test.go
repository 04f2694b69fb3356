package balances

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalance_Date(t *testing.T) {
	r := parse(t, `{"accountBalances": [{"name": "A", "balances": [
	  {"year": 2024, "fuzzyDate": 20240000},
	  {"year": 2024, "month": 12, "fuzzyDate": 20241200},
	  {"year": 2024, "month": 2, "fuzzyDate": 20240200},
	  {"year": 2024, "month": 3, "day": 15, "fuzzyDate": 20240315}
	]}]}`, nil)

	bals := lookup(t, r, "A").Balances()
	require.Len(t, bals, 4)

	want := []string{"2025-01-01", "2025-01-01", "2024-03-01", "2024-03-15"}
	for i, b := range bals {
		assert.Equal(t, want[i], b.Date().Format("2006-01-02"), "fuzzy %d", b.FuzzyDate())
		assert.Equal(t, time.UTC, b.Date().Location())
	}
	assert.Equal(t, 15, bals[3].Day())
	assert.Equal(t, 3, bals[3].Month())
	assert.Equal(t, 2024, bals[3].Year())
}

func TestBalance_DateUsesBookTimeZone(t *testing.T) {
	r := parse(t, sampleReport, &stubBook{offset: -180})

	petty := lookup(t, r, "Petty Cash")
	require.Len(t, petty.Balances(), 1)
	d := petty.Balances()[0].Date()

	assert.Equal(t, "2024-02-01T00:00:00-03:00", d.Format(time.RFC3339))
}

func TestBalance_Measures(t *testing.T) {
	r := parse(t, sampleReport, nil)

	bank := lookup(t, r, "Bank")
	bals := bank.Balances()
	require.Len(t, bals, 2)

	// Payload order is preserved.
	assert.Equal(t, 20240200, bals[0].FuzzyDate())
	assert.Same(t, bank, bals[0].Container())
	assert.Equal(t, "700", bals[0].CumulativeBalanceRaw().String())
	assert.Equal(t, "-700", bals[0].CumulativeBalance().String())
	assert.Equal(t, "200", bals[0].PeriodBalanceRaw().String())
	assert.Equal(t, "-200", bals[0].PeriodBalance().String())

	sales := lookup(t, r, "Sales")
	assert.Equal(t, "200", sales.Balances()[0].PeriodBalance().String())
}

func TestRepresentative(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		nature Nature
		want   string
	}{
		{"credit positive", "100", NatureCredit, "100"},
		{"credit negative", "-40", NatureCredit, "-40"},
		{"debit positive", "100", NatureDebit, "-100"},
		{"debit negative", "-40", NatureDebit, "40"},
		{"unknown", "-25.5", NatureUnknown, "-25.5"},
		{"debit zero", "0", NatureDebit, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Representative(decimal.RequireFromString(tt.raw), tt.nature)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNumber_LenientDecoding(t *testing.T) {
	r := parse(t, `{"accountBalances": [
	  {"name": "A", "cumulativeBalance": 12.5},
	  {"name": "B", "cumulativeBalance": "7.25"},
	  {"name": "C", "cumulativeBalance": null},
	  {"name": "D", "cumulativeBalance": "not a number"}
	]}`, nil)

	want := map[string]string{"A": "12.5", "B": "7.25", "C": "0", "D": "0"}
	for name, v := range want {
		assert.Equal(t, v, lookup(t, r, name).CumulativeBalanceRaw().String(), name)
	}
}
