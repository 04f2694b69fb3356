package balances

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is one time-bucket measurement of a container.
type Balance struct {
	container *Container

	day       int
	month     int
	year      int
	fuzzyDate int

	cumulativeBalance decimal.Decimal
	cumulativeCredit  decimal.Decimal
	cumulativeDebit   decimal.Decimal
	periodBalance     decimal.Decimal
	periodCredit      decimal.Decimal
	periodDebit       decimal.Decimal
}

func newBalance(c *Container, p *BalancePayload) *Balance {
	return &Balance{
		container:         c,
		day:               p.Day,
		month:             p.Month,
		year:              p.Year,
		fuzzyDate:         p.FuzzyDate,
		cumulativeBalance: p.CumulativeBalance.Decimal,
		cumulativeCredit:  p.CumulativeCredit.Decimal,
		cumulativeDebit:   p.CumulativeDebit.Decimal,
		periodBalance:     p.PeriodBalance.Decimal,
		periodCredit:      p.PeriodCredit.Decimal,
		periodDebit:       p.PeriodDebit.Decimal,
	}
}

// Container returns the container this balance belongs to.
func (b *Balance) Container() *Container { return b.container }

func (b *Balance) Day() int   { return b.day }
func (b *Balance) Month() int { return b.month }
func (b *Balance) Year() int  { return b.year }

// FuzzyDate returns the YYYYMMDD encoding of the bucket; month and day are
// zero when the periodicity is coarser.
func (b *Balance) FuzzyDate() int { return b.fuzzyDate }

// Date returns the bucket date in the book's time zone. A zero month means
// the bucket spans a year and the date is January 1 of the next year; a zero
// day means the bucket spans a month and the date is the first day of the
// next month.
func (b *Balance) Date() time.Time {
	loc := b.container.report.location()
	switch {
	case b.month == 0:
		return time.Date(b.year+1, time.January, 1, 0, 0, 0, 0, loc)
	case b.day == 0:
		// time.Date normalizes month 13 into January of the next year.
		return time.Date(b.year, time.Month(b.month)+1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(b.year, time.Month(b.month), b.day, 0, 0, 0, 0, loc)
	}
}

// CumulativeBalance returns the running total up to and including this
// bucket, signed by the container's nature.
func (b *Balance) CumulativeBalance() decimal.Decimal {
	return Representative(b.cumulativeBalance, b.container.Nature())
}

func (b *Balance) CumulativeBalanceRaw() decimal.Decimal { return b.cumulativeBalance }
func (b *Balance) CumulativeCredit() decimal.Decimal     { return b.cumulativeCredit }
func (b *Balance) CumulativeDebit() decimal.Decimal      { return b.cumulativeDebit }

// PeriodBalance returns the net flow within this bucket, signed by the
// container's nature.
func (b *Balance) PeriodBalance() decimal.Decimal {
	return Representative(b.periodBalance, b.container.Nature())
}

func (b *Balance) PeriodBalanceRaw() decimal.Decimal { return b.periodBalance }
func (b *Balance) PeriodCredit() decimal.Decimal     { return b.periodCredit }
func (b *Balance) PeriodDebit() decimal.Decimal      { return b.periodDebit }

// Representative converts a raw ledger value (credits positive) into the
// value shown for a container: debit-natured containers are negated, credit
// and unknown natures pass through.
func Representative(raw decimal.Decimal, n Nature) decimal.Decimal {
	if n == NatureDebit {
		return raw.Neg()
	}
	return raw
}
