package balances

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

// Payload is the balances report envelope as delivered by the service.
type Payload struct {
	Periodicity     ledger.Periodicity `json:"periodicity"`
	AccountBalances []*AccountBalances `json:"accountBalances,omitempty"`
	GroupBalances   []*GroupBalances   `json:"groupBalances,omitempty"`
}

// ContainerFields are the fields shared by account and group balances.
type ContainerFields struct {
	Name              string            `json:"name,omitempty"`
	NormalizedName    string            `json:"normalizedName,omitempty"`
	Credit            *bool             `json:"credit,omitempty"`
	Permanent         bool              `json:"permanent,omitempty"`
	CumulativeBalance Number            `json:"cumulativeBalance"`
	CumulativeCredit  Number            `json:"cumulativeCredit"`
	CumulativeDebit   Number            `json:"cumulativeDebit"`
	PeriodBalance     Number            `json:"periodBalance"`
	PeriodCredit      Number            `json:"periodCredit"`
	PeriodDebit       Number            `json:"periodDebit"`
	Properties        map[string]string `json:"properties,omitempty"`
	Balances          []*BalancePayload `json:"balances,omitempty"`
}

type AccountBalances struct {
	ContainerFields
}

type GroupBalances struct {
	ContainerFields
	GroupBalances   []*GroupBalances   `json:"groupBalances,omitempty"`
	AccountBalances []*AccountBalances `json:"accountBalances,omitempty"`
}

// BalancePayload is one time bucket of a container.
type BalancePayload struct {
	Day               int    `json:"day,omitempty"`
	Month             int    `json:"month,omitempty"`
	Year              int    `json:"year"`
	FuzzyDate         int    `json:"fuzzyDate"`
	CumulativeBalance Number `json:"cumulativeBalance"`
	CumulativeCredit  Number `json:"cumulativeCredit"`
	CumulativeDebit   Number `json:"cumulativeDebit"`
	PeriodBalance     Number `json:"periodBalance"`
	PeriodCredit      Number `json:"periodCredit"`
	PeriodDebit       Number `json:"periodDebit"`
}

// Number is a decimal that decodes from JSON numbers or strings.
// Empty, null or unparsable values decode as zero.
type Number struct {
	decimal.Decimal
}

// NewNumber parses s, returning zero when s is not a decimal.
func NewNumber(s string) Number {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Number{}
	}
	return Number{d}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		n.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		n.Decimal = decimal.Zero
		return nil
	}
	n.Decimal = d
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(`"` + n.Decimal.String() + `"`), nil
}
