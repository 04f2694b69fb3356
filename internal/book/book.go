// Package book provides the formatting and metadata collaborator of a
// balances report, built from a book's stored settings.
package book

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/ledger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Resolver looks up account and group metadata of a book. The store and the
// HTTP client both implement it.
type Resolver interface {
	GetAccount(ctx context.Context, bookID, name string) (*ledger.Account, error)
	GetGroup(ctx context.Context, bookID, name string) (*ledger.Group, error)
}

var _ balances.Book = (*Book)(nil)

// Book formats values and dates with a book's settings and resolves
// accounts and groups by name, caching what it found.
type Book struct {
	settings ledger.BookSettings
	resolver Resolver
	printer  *message.Printer
	loc      *time.Location

	mu       sync.Mutex
	accounts map[string]*ledger.Account
	groups   map[string]*ledger.Group
}

// New returns a Book for settings. resolver may be nil, in which case every
// lookup fails with a not-found error.
func New(settings ledger.BookSettings, resolver Resolver) *Book {
	tag := language.English
	if settings.DecimalSeparator == ledger.SeparatorComma {
		tag = language.German
	}
	if settings.DatePattern == "" {
		settings.DatePattern = "2006-01-02"
	}

	loc := time.UTC
	if settings.TimeZoneOffset != 0 {
		loc = time.FixedZone("", settings.TimeZoneOffset*60)
	}

	return &Book{
		settings: settings,
		resolver: resolver,
		printer:  message.NewPrinter(tag),
		loc:      loc,
		accounts: make(map[string]*ledger.Account),
		groups:   make(map[string]*ledger.Group),
	}
}

func (b *Book) Settings() ledger.BookSettings { return b.settings }

func (b *Book) Location() *time.Location { return b.loc }

// FormatValue renders v rounded to the book's fraction digits, with thousands
// grouping and the book's decimal separator: 1234.5 is "1,234.50" for DOT and
// "1.234,50" for COMMA books.
func (b *Book) FormatValue(v decimal.Decimal) string {
	digits := b.settings.FractionDigits
	// x/text formats through float64; rounding first keeps the printed
	// digits exact for amounts below 2^53 units.
	f := v.Round(int32(digits)).InexactFloat64()
	return b.printer.Sprintf("%v", number.Decimal(f, number.Scale(digits)))
}

func (b *Book) FormatDate(t time.Time) string {
	return t.In(b.loc).Format(b.settings.DatePattern)
}

func (b *Book) DecimalSeparator() ledger.DecimalSeparator { return b.settings.DecimalSeparator }
func (b *Book) FractionDigits() int                       { return b.settings.FractionDigits }
func (b *Book) TimeZoneOffset() int                       { return b.settings.TimeZoneOffset }

// Account resolves an account by name. Successful lookups are cached for the
// lifetime of the Book.
func (b *Book) Account(ctx context.Context, name string) (*ledger.Account, error) {
	key := ledger.NormalizeName(name)

	b.mu.Lock()
	acct, ok := b.accounts[key]
	b.mu.Unlock()
	if ok {
		return acct, nil
	}

	if b.resolver == nil {
		return nil, ledger.ErrAccountNotFound
	}
	acct, err := b.resolver.GetAccount(ctx, b.settings.ID, name)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.accounts[key] = acct
	b.mu.Unlock()
	return acct, nil
}

// Group resolves a group by name, cached like Account.
func (b *Book) Group(ctx context.Context, name string) (*ledger.Group, error) {
	key := ledger.NormalizeName(name)

	b.mu.Lock()
	grp, ok := b.groups[key]
	b.mu.Unlock()
	if ok {
		return grp, nil
	}

	if b.resolver == nil {
		return nil, ledger.ErrGroupNotFound
	}
	grp, err := b.resolver.GetGroup(ctx, b.settings.ID, name)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.groups[key] = grp
	b.mu.Unlock()
	return grp, nil
}
