package balances

import (
	"context"
	"errors"
	"testing"

	"github.com/simonvc/miniledger-balances/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, b *DataTableBuilder) [][]any {
	t.Helper()
	rows, err := b.Build(context.Background())
	require.NoError(t, err)
	return rows
}

func TestDataTable_Total(t *testing.T) {
	r := parse(t, sampleReport, nil)

	tests := []struct {
		name  string
		build func(*DataTableBuilder) *DataTableBuilder
		want  [][]string
	}{
		{
			name:  "representative",
			build: func(b *DataTableBuilder) *DataTableBuilder { return b },
			want: [][]string{
				{"", "Balance"},
				{"Petty Cash", "-50"},
				{"Assets", "-1000"},
				{"Revenue", "500"},
			},
		},
		{
			name:  "raw",
			build: func(b *DataTableBuilder) *DataTableBuilder { return b.Raw(true) },
			want: [][]string{
				{"", "Balance"},
				{"Petty Cash", "50"},
				{"Assets", "1000"},
				{"Revenue", "500"},
			},
		},
		{
			name:  "period",
			build: func(b *DataTableBuilder) *DataTableBuilder { return b.Raw(true).Period(true) },
			want: [][]string{
				{"", "Balance"},
				{"Petty Cash", "5"},
				{"Assets", "300"},
				{"Revenue", "300"},
			},
		},
		{
			name:  "trial",
			build: func(b *DataTableBuilder) *DataTableBuilder { return b.Trial(true) },
			want: [][]string{
				{"", "Debit", "Credit"},
				{"Petty Cash", "0", "0"},
				{"Assets", "0", "1000"},
				{"Revenue", "0", "0"},
			},
		},
		{
			name:  "trial period",
			build: func(b *DataTableBuilder) *DataTableBuilder { return b.Trial(true).Period(true) },
			want: [][]string{
				{"", "Debit", "Credit"},
				{"Petty Cash", "0", "0"},
				{"Assets", "0", "300"},
				{"Revenue", "0", "0"},
			},
		},
		{
			name:  "transposed",
			build: func(b *DataTableBuilder) *DataTableBuilder { return b.Raw(true).Transposed(true) },
			want: [][]string{
				{"", "Petty Cash", "Assets", "Revenue"},
				{"Balance", "50", "1000", "500"},
			},
		},
		{
			name:  "formatted",
			build: func(b *DataTableBuilder) *DataTableBuilder { return b.FormatValues(true) },
			want: [][]string{
				{"", "Balance"},
				{"Petty Cash", "-50.00"},
				{"Assets", "-1000.00"},
				{"Revenue", "500.00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringify(mustBuild(t, tt.build(r.CreateDataTable())))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataTable_Expansion(t *testing.T) {
	r := parse(t, sampleReport, nil)

	tests := []struct {
		name  string
		build func(*DataTableBuilder) *DataTableBuilder
		want  []string
	}{
		{"collapsed", func(b *DataTableBuilder) *DataTableBuilder { return b }, []string{"Petty Cash", "Assets", "Revenue"}},
		{"expanded", func(b *DataTableBuilder) *DataTableBuilder { return b.Expanded(true) }, []string{"Petty Cash", "Banks", "Cash", "Sales"}},
		{"expanded off", func(b *DataTableBuilder) *DataTableBuilder { return b.Expanded(true).Expanded(false) }, []string{"Petty Cash", "Assets", "Revenue"}},
		{"depth 2", func(b *DataTableBuilder) *DataTableBuilder { return b.ExpandDepth(2) }, []string{"Petty Cash", "Bank", "Cash", "Sales"}},
		{"all groups", func(b *DataTableBuilder) *DataTableBuilder { return b.ExpandDepth(ExpandAllGroups) }, []string{"Petty Cash", "Banks", "Cash", "Revenue"}},
		{"all accounts", func(b *DataTableBuilder) *DataTableBuilder { return b.ExpandDepth(ExpandAllAccounts) }, []string{"Petty Cash", "Bank", "Cash", "Sales"}},
		{"unknown negative", func(b *DataTableBuilder) *DataTableBuilder { return b.ExpandDepth(-7) }, []string{"Petty Cash", "Assets", "Revenue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := mustBuild(t, tt.build(r.CreateDataTable()))
			var got []string
			for _, row := range rows[1:] {
				got = append(got, row[0].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataTable_ExpandAllAccountsDropsEmptyGroups(t *testing.T) {
	r := parse(t, `{"groupBalances": [
	  {"name": "Empty"},
	  {"name": "Full", "accountBalances": [{"name": "Leaf", "cumulativeBalance": "4"}]}
	]}`, nil)

	got := stringify(mustBuild(t, r.CreateDataTable().ExpandDepth(ExpandAllAccounts).Raw(true)))
	assert.Equal(t, [][]string{{"", "Balance"}, {"Leaf", "4"}}, got)

	// Depth expansion keeps groups without children.
	got = stringify(mustBuild(t, r.CreateDataTable().Expanded(true).Raw(true)))
	assert.Equal(t, [][]string{{"", "Balance"}, {"Empty", "0"}, {"Leaf", "4"}}, got)
}

func TestDataTable_Dedupe(t *testing.T) {
	r := parse(t, `{
	  "accountBalances": [
	    {"name": "Cash", "cumulativeBalance": "1"},
	    {"cumulativeBalance": "2"},
	    {"cumulativeBalance": "3"}
	  ],
	  "groupBalances": [{"name": "G", "accountBalances": [{"name": "CASH", "cumulativeBalance": "9"}]}]
	}`, nil)

	got := stringify(mustBuild(t, r.CreateDataTable().ExpandDepth(ExpandAllAccounts)))
	assert.Equal(t, [][]string{
		{"", "Balance"},
		{"Cash", "1"},
		{"", "2"},
		{"", "3"},
	}, got)
}

func TestDataTable_Period(t *testing.T) {
	r := parse(t, sampleReport, nil)
	build := func() *DataTableBuilder {
		return r.CreateDataTable().Type(PeriodBalance).Raw(true).ExpandDepth(ExpandAllAccounts)
	}

	// Dates down the rows by default.
	assert.Equal(t, [][]string{
		{"", "Petty Cash", "Bank", "Cash", "Sales"},
		{"2024-02-01", "5", "500", "<nil>", "200"},
		{"2024-03-01", "<nil>", "200", "100", "300"},
	}, stringify(mustBuild(t, build())))

	assert.Equal(t, [][]string{
		{"", "2024-02-01", "2024-03-01"},
		{"Petty Cash", "5", "<nil>"},
		{"Bank", "500", "200"},
		{"Cash", "<nil>", "100"},
		{"Sales", "200", "300"},
	}, stringify(mustBuild(t, build().Transposed(true))))
}

func TestDataTable_MissingBucketIsNil(t *testing.T) {
	r := parse(t, sampleReport, nil)
	rows := mustBuild(t, r.CreateDataTable().Type(PeriodBalance).ExpandDepth(ExpandAllAccounts).Transposed(true))

	// Cash has no bucket for January.
	require.Equal(t, "Cash", rows[3][0])
	assert.Nil(t, rows[3][1])
	assert.NotNil(t, rows[3][2])
}

func TestDataTable_CumulativeFormatted(t *testing.T) {
	r := parse(t, sampleReport, nil)
	revenue := lookup(t, r, "Revenue")

	got := stringify(mustBuild(t, revenue.CreateDataTable().
		Type(CumulativeBalance).
		FormatDates(true).
		FormatValues(true)))

	assert.Equal(t, [][]string{
		{"", "Sales"},
		{"2024-02-01", "200.00"},
		{"2024-03-01", "500.00"},
	}, got)
}

func TestDataTable_HideDatesAndNames(t *testing.T) {
	r := parse(t, sampleReport, nil)
	revenue := lookup(t, r, "Revenue")
	build := func() *DataTableBuilder { return revenue.CreateDataTable().Type(PeriodBalance).Raw(true) }

	assert.Equal(t, [][]string{{"Sales"}, {"200"}, {"300"}},
		stringify(mustBuild(t, build().HideDates(true))))
	assert.Equal(t, [][]string{{"2024-02-01"}, {"200"}, {"300"}},
		stringify(mustBuild(t, build().HideNames(true))))
	assert.Equal(t, [][]string{{"200"}, {"300"}},
		stringify(mustBuild(t, build().HideDates(true).HideNames(true))))

	// Ignored for TOTAL tables.
	assert.Equal(t, [][]string{{"", "Balance"}, {"Sales", "500"}},
		stringify(mustBuild(t, revenue.CreateDataTable().HideDates(true).HideNames(true))))
}

func TestDataTable_AccountContainer(t *testing.T) {
	r := parse(t, sampleReport, nil)
	cash := lookup(t, r, "Cash")

	got := stringify(mustBuild(t, cash.CreateDataTable()))
	assert.Equal(t, [][]string{{"", "Balance"}, {"Cash", "-300"}}, got)
}

func TestDataTable_EmptyContainers(t *testing.T) {
	b := NewDataTableBuilder(nil, ledger.PeriodicityMonthly, nil)
	assert.Equal(t, [][]string{{"", "Balance"}}, stringify(mustBuild(t, b)))

	rows := mustBuild(t, NewDataTableBuilder(nil, ledger.PeriodicityMonthly, nil).Type(PeriodBalance))
	assert.Equal(t, [][]string{{""}}, stringify(rows))
}

func TestDataTable_PropertiesFromPayload(t *testing.T) {
	r := parse(t, sampleReport, nil)

	got := stringify(mustBuild(t, r.CreateDataTable().ExpandDepth(ExpandAllAccounts).Raw(true).Properties(true)))
	assert.Equal(t, [][]string{
		{"", "Balance", "code"},
		{"Petty Cash", "50", "<nil>"},
		{"Bank", "700", "1010"},
		{"Cash", "300", "<nil>"},
		{"Sales", "500", "<nil>"},
	}, got)
}

func TestDataTable_PropertiesResolvedThroughBook(t *testing.T) {
	book := &stubBook{
		accounts: map[string]*ledger.Account{
			"Cash": {Name: "Cash", Properties: map[string]string{"kind": "cash", "secret_": "x"}},
		},
		groups: map[string]*ledger.Group{
			"Revenue": {Name: "Revenue", Properties: map[string]string{"kind": "income"}},
		},
	}
	r := parse(t, sampleReport, book)

	got := stringify(mustBuild(t, r.CreateDataTable().Expanded(true).Raw(true).Properties(true)))
	assert.Equal(t, [][]string{
		{"", "Balance", "kind"},
		{"Petty Cash", "50", "<nil>"},
		{"Banks", "700", "<nil>"},
		{"Cash", "300", "cash"},
		{"Sales", "500", "<nil>"},
	}, got)

	got = stringify(mustBuild(t, r.CreateDataTable().Raw(true).Properties(true)))
	assert.Equal(t, []string{"Revenue", "500", "income"}, got[3])
}

func TestDataTable_PropertiesResolutionError(t *testing.T) {
	boom := errors.New("metadata service unavailable")
	r := parse(t, sampleReport, &stubBook{err: boom})

	rows, err := r.CreateDataTable().Properties(true).Build(context.Background())
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, boom)

	// Without properties nothing is resolved.
	_, err = r.CreateDataTable().Build(context.Background())
	assert.NoError(t, err)
}

func TestDataTableBuilder_Apply(t *testing.T) {
	r := parse(t, sampleReport, nil)

	b := r.CreateDataTable().Apply(Options{Type: "BOGUS", Raw: true, Expanded: 1})
	assert.Equal(t, TotalBalance, b.Options().Type)
	assert.Equal(t, ledger.PeriodicityMonthly, b.Periodicity())

	got := stringify(mustBuild(t, b))
	assert.Equal(t, []string{"Banks", "700"}, got[2])
}
