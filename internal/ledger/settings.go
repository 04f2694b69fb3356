package ledger

import "fmt"

// Periodicity is the time-bucket granularity of a balances report.
type Periodicity string

const (
	PeriodicityDaily   Periodicity = "DAILY"
	PeriodicityMonthly Periodicity = "MONTHLY"
	PeriodicityYearly  Periodicity = "YEARLY"
)

// ValidPeriodicity checks if a periodicity string is valid.
func ValidPeriodicity(p Periodicity) bool {
	switch p {
	case PeriodicityDaily, PeriodicityMonthly, PeriodicityYearly:
		return true
	}
	return false
}

// DecimalSeparator controls how amounts are rendered for a book.
type DecimalSeparator string

const (
	SeparatorDot   DecimalSeparator = "DOT"
	SeparatorComma DecimalSeparator = "COMMA"
)

// BookSettings holds the presentation settings of a book.
type BookSettings struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	DecimalSeparator DecimalSeparator `json:"decimal_separator"`
	FractionDigits   int              `json:"fraction_digits"`
	TimeZoneOffset   int              `json:"time_zone_offset"` // minutes east of UTC
	DatePattern      string           `json:"date_pattern"`     // Go reference layout
	Periodicity      Periodicity      `json:"periodicity"`
}

// DefaultBookSettings returns settings with default values for a given book id.
func DefaultBookSettings(id string) BookSettings {
	return BookSettings{
		ID:               id,
		Name:             id,
		DecimalSeparator: SeparatorDot,
		FractionDigits:   2,
		TimeZoneOffset:   0,
		DatePattern:      "2006-01-02",
		Periodicity:      PeriodicityMonthly,
	}
}

// Validate checks book settings invariants.
func (s *BookSettings) Validate() error {
	if s.ID == "" {
		return ErrInvalidName
	}
	if s.DecimalSeparator != SeparatorDot && s.DecimalSeparator != SeparatorComma {
		return fmt.Errorf("%w: %q", ErrInvalidSeparator, s.DecimalSeparator)
	}
	if s.FractionDigits < 0 || s.FractionDigits > 8 {
		return fmt.Errorf("%w: %d", ErrInvalidFractionDigit, s.FractionDigits)
	}
	if !ValidPeriodicity(s.Periodicity) {
		return fmt.Errorf("%w: %q", ErrInvalidPeriodicity, s.Periodicity)
	}
	if s.DatePattern == "" {
		s.DatePattern = "2006-01-02"
	}
	return nil
}
