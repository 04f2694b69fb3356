package balances

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContainerSummary is a flat, serializable view of one container and the
// names of its direct children.
type ContainerSummary struct {
	Name              string            `json:"name"`
	NormalizedName    string            `json:"normalized_name"`
	Kind              string            `json:"kind"`
	Nature            string            `json:"nature"`
	Permanent         bool              `json:"permanent"`
	Depth             int               `json:"depth"`
	Parent            string            `json:"parent,omitempty"`
	CumulativeBalance decimal.Decimal   `json:"cumulative_balance"`
	PeriodBalance     decimal.Decimal   `json:"period_balance"`
	CumulativeCredit  decimal.Decimal   `json:"cumulative_credit"`
	CumulativeDebit   decimal.Decimal   `json:"cumulative_debit"`
	PeriodCredit      decimal.Decimal   `json:"period_credit"`
	PeriodDebit       decimal.Decimal   `json:"period_debit"`
	Properties        map[string]string `json:"properties,omitempty"`
	Groups            []string          `json:"groups,omitempty"`
	Accounts          []string          `json:"accounts,omitempty"`
	Balances          []BalanceSummary  `json:"balances,omitempty"`
}

type BalanceSummary struct {
	FuzzyDate         int             `json:"fuzzy_date"`
	Date              time.Time       `json:"date"`
	CumulativeBalance decimal.Decimal `json:"cumulative_balance"`
	PeriodBalance     decimal.Decimal `json:"period_balance"`
}

// Summary returns the container with representative balances.
func (c *Container) Summary() ContainerSummary {
	s := ContainerSummary{
		Name:              c.Name(),
		NormalizedName:    c.NormalizedName(),
		Kind:              c.Kind().String(),
		Nature:            c.Nature().String(),
		Permanent:         c.IsPermanent(),
		Depth:             c.Depth(),
		CumulativeBalance: c.CumulativeBalance(),
		PeriodBalance:     c.PeriodBalance(),
		CumulativeCredit:  c.CumulativeCredit(),
		CumulativeDebit:   c.CumulativeDebit(),
		PeriodCredit:      c.PeriodCredit(),
		PeriodDebit:       c.PeriodDebit(),
	}
	if p := c.Parent(); p != nil {
		s.Parent = p.Name()
	}
	if len(c.fields.Properties) > 0 {
		s.Properties = c.Properties()
	}
	for _, g := range c.GroupBalancesContainers() {
		s.Groups = append(s.Groups, g.Name())
	}
	for _, a := range c.AccountBalancesContainers() {
		s.Accounts = append(s.Accounts, a.Name())
	}
	for _, b := range c.Balances() {
		s.Balances = append(s.Balances, BalanceSummary{
			FuzzyDate:         b.FuzzyDate(),
			Date:              b.Date(),
			CumulativeBalance: b.CumulativeBalance(),
			PeriodBalance:     b.PeriodBalance(),
		})
	}
	return s
}
