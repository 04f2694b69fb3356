package balances

import (
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_TopLevelOrdering(t *testing.T) {
	r := parse(t, sampleReport, nil)

	assert.Equal(t, []string{"Petty Cash", "Assets", "Revenue"}, names(r.BalancesContainers()))
	assert.Equal(t, []string{"Petty Cash"}, names(r.AccountBalancesContainers()))
	assert.Equal(t, []string{"Assets", "Revenue"}, names(r.GroupBalancesContainers()))
}

func TestGroup_ChildrenGroupsBeforeAccounts(t *testing.T) {
	r := parse(t, sampleReport, nil)
	assets := lookup(t, r, "Assets")

	// The payload lists Cash before Banks; groups still come first.
	assert.Equal(t, []string{"Banks", "Cash"}, names(assets.BalancesContainers()))
	assert.Equal(t, []string{"Banks"}, names(assets.GroupBalancesContainers()))
	assert.Equal(t, []string{"Cash"}, names(assets.AccountBalancesContainers()))
	assert.True(t, assets.HasGroupBalances())

	banks := lookup(t, r, "Banks")
	assert.False(t, banks.HasGroupBalances())
}

func TestAccount_HasNoChildren(t *testing.T) {
	r := parse(t, sampleReport, nil)
	cash := lookup(t, r, "Cash")

	assert.Equal(t, KindAccount, cash.Kind())
	assert.Empty(t, cash.BalancesContainers())
	assert.Empty(t, cash.GroupBalancesContainers())
	assert.False(t, cash.HasGroupBalances())
}

func TestReport_IdentityRoundTrip(t *testing.T) {
	r := parse(t, sampleReport, nil)

	count := 0
	walk(r.BalancesContainers(), func(c *Container) {
		count++
		found, err := r.BalancesContainer(c.NormalizedName())
		require.NoError(t, err)
		assert.Same(t, c, found, c.Name())
	})
	assert.Equal(t, 7, count)
}

func TestGroup_IdentityRoundTripWithinSubtree(t *testing.T) {
	r := parse(t, sampleReport, nil)

	walk(r.GroupBalancesContainers(), func(g *Container) {
		if !g.IsGroup() {
			return
		}
		walk([]*Container{g}, func(c *Container) {
			found, err := g.BalancesContainer(c.NormalizedName())
			require.NoError(t, err)
			assert.Same(t, c, found, "%s in %s", c.Name(), g.Name())
		})
	})
}

func TestLookup_NotFound(t *testing.T) {
	r := parse(t, sampleReport, nil)
	assets := lookup(t, r, "Assets")
	cash := lookup(t, r, "Cash")

	tests := []struct {
		name   string
		lookup func() (*Container, error)
	}{
		{"report", func() (*Container, error) { return r.BalancesContainer("Nonexistent") }},
		{"report empty name", func() (*Container, error) { return r.BalancesContainer("") }},
		{"group outside subtree", func() (*Container, error) { return assets.BalancesContainer("Sales") }},
		{"account other name", func() (*Container, error) { return cash.BalancesContainer("Bank") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.lookup()
			assert.Nil(t, c)
			assert.ErrorIs(t, err, ErrContainerNotFound)
		})
	}
}

func TestLookup_NormalizesName(t *testing.T) {
	r := parse(t, sampleReport, nil)
	petty := lookup(t, r, "Petty Cash")

	for _, name := range []string{"petty_cash", "  PETTY   cash ", "Petty Cash"} {
		found, err := r.BalancesContainer(name)
		require.NoError(t, err, name)
		assert.Same(t, petty, found)
	}

	self, err := petty.BalancesContainer("PETTY CASH")
	require.NoError(t, err)
	assert.Same(t, petty, self)
}

func TestLookup_FirstWriterWins(t *testing.T) {
	r := parse(t, `{
	  "accountBalances": [{"name": "Dup", "cumulativeBalance": "1"}],
	  "groupBalances": [{"name": "Parent", "accountBalances": [{"name": "Dup", "cumulativeBalance": "2"}]}]
	}`, nil)

	dup := lookup(t, r, "dup")
	assert.Equal(t, 0, dup.Depth())
	assert.True(t, dup.CumulativeBalanceRaw().Equal(decimal.NewFromInt(1)))

	parent := lookup(t, r, "Parent")
	nested, err := parent.BalancesContainer("dup")
	require.NoError(t, err)
	assert.Equal(t, 1, nested.Depth())
}

func TestContainer_DepthAndParent(t *testing.T) {
	r := parse(t, sampleReport, nil)

	for _, c := range r.BalancesContainers() {
		assert.Equal(t, 0, c.Depth())
		assert.Nil(t, c.Parent())
	}
	walk(r.BalancesContainers(), func(p *Container) {
		for _, c := range p.BalancesContainers() {
			assert.Equal(t, p.Depth()+1, c.Depth())
			assert.Same(t, p, c.Parent())
		}
	})

	assert.Equal(t, 2, lookup(t, r, "Bank").Depth())
}

func TestGroup_AggregationConsistency(t *testing.T) {
	r := parse(t, sampleReport, nil)

	walk(r.BalancesContainers(), func(g *Container) {
		if !g.IsGroup() {
			return
		}
		cumulative := decimal.Zero
		period := decimal.Zero
		for _, c := range g.BalancesContainers() {
			cumulative = cumulative.Add(c.CumulativeBalanceRaw())
			period = period.Add(c.PeriodBalanceRaw())
		}
		assert.True(t, g.CumulativeBalanceRaw().Equal(cumulative), "%s cumulative", g.Name())
		assert.True(t, g.PeriodBalanceRaw().Equal(period), "%s period", g.Name())
	})
}

func TestContainer_NatureAndRepresentativeBalances(t *testing.T) {
	r := parse(t, sampleReport, nil)

	assets := lookup(t, r, "Assets")
	assert.Equal(t, NatureDebit, assets.Nature())
	assert.False(t, assets.IsCredit())
	assert.True(t, assets.IsPermanent())
	assert.Equal(t, "-1000", assets.CumulativeBalance().String())
	assert.Equal(t, "1000", assets.CumulativeBalanceRaw().String())
	assert.Equal(t, "-300", assets.PeriodBalance().String())

	revenue := lookup(t, r, "Revenue")
	assert.Equal(t, NatureCredit, revenue.Nature())
	assert.True(t, revenue.IsCredit())
	assert.False(t, revenue.IsPermanent())
	assert.Equal(t, "500", revenue.CumulativeBalance().String())

	mixed := parse(t, `{"groupBalances": [{"name": "Mixed", "cumulativeBalance": "-20"}]}`, nil)
	m := lookup(t, mixed, "Mixed")
	assert.Equal(t, NatureUnknown, m.Nature())
	assert.Equal(t, "-20", m.CumulativeBalance().String())
}

func TestContainer_TrialMeasures(t *testing.T) {
	r := parse(t, sampleReport, nil)
	assets := lookup(t, r, "Assets")

	assert.Equal(t, "1000", assets.CumulativeCredit().String())
	assert.Equal(t, "0", assets.CumulativeDebit().String())
	assert.Equal(t, "300", assets.PeriodCredit().String())
	assert.Equal(t, "0", assets.PeriodDebit().String())
}

func TestContainer_Properties(t *testing.T) {
	r := parse(t, sampleReport, nil)
	bank := lookup(t, r, "Bank")

	props := bank.Properties()
	assert.Equal(t, map[string]string{"code": "1010", "sync_": "hidden"}, props)
	props["code"] = "changed"
	assert.Equal(t, "1010", bank.Property("code"))

	assert.Equal(t, "1010", bank.Property("missing", "code"))
	assert.Equal(t, []string{"code"}, bank.VisiblePropertyKeys())
}

func TestReport_LazyMaterialization(t *testing.T) {
	r := parse(t, sampleReport, nil)
	assert.Equal(t, 0, r.materialized())

	top := r.BalancesContainers()
	assert.Equal(t, 3, r.materialized())

	assets := top[1]
	first := assets.BalancesContainers()
	assert.Equal(t, 5, r.materialized())

	second := assets.BalancesContainers()
	assert.Equal(t, 5, r.materialized())
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestReport_ConcurrentFirstLookup(t *testing.T) {
	r := parse(t, sampleReport, nil)

	const workers = 16
	results := make([]*Container, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := r.BalancesContainer("bank")
			if err == nil {
				results[i] = c
			}
		}()
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
	assert.Equal(t, 7, r.materialized())
}

func TestReport_PartialPayload(t *testing.T) {
	r := parse(t, `{"groupBalances": [{"accountBalances": [{"cumulativeBalance": "", "periodBalance": "abc", "balances": [null, {}]}]}, null]}`, nil)

	top := r.BalancesContainers()
	require.Len(t, top, 1)
	assert.Equal(t, "", top[0].Name())

	children := top[0].BalancesContainers()
	require.Len(t, children, 1)
	acct := children[0]
	assert.True(t, acct.CumulativeBalanceRaw().IsZero())
	assert.True(t, acct.PeriodBalanceRaw().IsZero())
	assert.Len(t, acct.Balances(), 1)

	_, err := r.BalancesContainer("")
	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestDecodeReport_InvalidJSON(t *testing.T) {
	_, err := DecodeReport(strings.NewReader(`{"groupBalances": [`), nil)
	assert.Error(t, err)
}

func TestReport_NilPayload(t *testing.T) {
	r := NewReport(nil, nil)
	assert.Empty(t, r.BalancesContainers())
	assert.Equal(t, [][]string{{"", "Balance"}}, stringify(mustBuild(t, r.CreateDataTable())))
}

func TestContainer_Summary(t *testing.T) {
	r := parse(t, sampleReport, nil)

	s := lookup(t, r, "Assets").Summary()
	assert.Equal(t, "group", s.Kind)
	assert.Equal(t, "debit", s.Nature)
	assert.Equal(t, "-1000", s.CumulativeBalance.String())
	assert.Equal(t, []string{"Banks"}, s.Groups)
	assert.Equal(t, []string{"Cash"}, s.Accounts)
	assert.Empty(t, s.Parent)

	bank := lookup(t, r, "Bank").Summary()
	assert.Equal(t, "Banks", bank.Parent)
	assert.Equal(t, 2, bank.Depth)
	require.Len(t, bank.Balances, 2)
	assert.Equal(t, "2024-03-01", bank.Balances[0].Date.Format("2006-01-02"))
	assert.Equal(t, "-700", bank.Balances[0].CumulativeBalance.String())
}
