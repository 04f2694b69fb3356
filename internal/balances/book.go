package balances

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

// Book supplies formatting settings and metadata resolution to a report.
// Account and Group may block on the network.
type Book interface {
	FormatValue(v decimal.Decimal) string
	FormatDate(t time.Time) string
	DecimalSeparator() ledger.DecimalSeparator
	FractionDigits() int
	TimeZoneOffset() int
	Account(ctx context.Context, name string) (*ledger.Account, error)
	Group(ctx context.Context, name string) (*ledger.Group, error)
}

// plainBook is used when a report is built without a book: UTC, ISO dates,
// dot separator, two fraction digits, no metadata.
type plainBook struct{}

func (plainBook) FormatValue(v decimal.Decimal) string      { return v.StringFixed(2) }
func (plainBook) FormatDate(t time.Time) string             { return t.Format("2006-01-02") }
func (plainBook) DecimalSeparator() ledger.DecimalSeparator { return ledger.SeparatorDot }
func (plainBook) FractionDigits() int                       { return 2 }
func (plainBook) TimeZoneOffset() int                       { return 0 }

func (plainBook) Account(context.Context, string) (*ledger.Account, error) {
	return nil, ErrNoBook
}

func (plainBook) Group(context.Context, string) (*ledger.Group, error) {
	return nil, ErrNoBook
}
