package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

type bookLoadedMsg struct {
	settings *ledger.BookSettings
	err      error
}

type bookSavedMsg struct {
	settings *ledger.BookSettings
	err      error
}

type configFlashClearMsg struct{}

type configField int

const (
	fieldSeparator configField = iota
	fieldFractionDigits
	fieldPeriodicity
	fieldDatePattern
	fieldTimeZone
)

var configFields = []configField{fieldSeparator, fieldFractionDigits, fieldPeriodicity, fieldDatePattern, fieldTimeZone}

var (
	datePatterns    = []string{"2006-01-02", "02/01/2006", "01/02/2006", "01/2006", "Jan 2006", "2006"}
	timeZoneOffsets = []int{0, -180, -300, 60, 330, 540}
	periodicities   = []ledger.Periodicity{ledger.PeriodicityDaily, ledger.PeriodicityMonthly, ledger.PeriodicityYearly}
)

type configModel struct {
	bookID   string
	settings *ledger.BookSettings
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
	flashRow int // row index to flash, -1 for none
}

func (m *configModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	m.flashRow = -1
	bookID := m.bookID
	return func() tea.Msg {
		s, err := c.GetBook(context.Background(), bookID)
		return bookLoadedMsg{settings: s, err: err}
	}
}

func (m configModel) update(msg tea.Msg, c *client.Client) (configModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bookLoadedMsg:
		m.loading = false
		m.settings = msg.settings
		m.err = msg.err

	case bookSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.settings = msg.settings
		m.flashRow = m.cursor
		return m, tea.Tick(800*time.Millisecond, func(time.Time) tea.Msg {
			return configFlashClearMsg{}
		})

	case configFlashClearMsg:
		m.flashRow = -1

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(configFields)-1 {
				m.cursor++
			}
		case msg.String() == " " || key.Matches(msg, keys.Enter):
			if m.settings != nil {
				return m, m.cycleField(c)
			}
		}
	}
	return m, nil
}

// cycleField advances the selected setting to its next value and saves the book.
func (m *configModel) cycleField(c *client.Client) tea.Cmd {
	next := *m.settings
	cycleSetting(&next, configFields[m.cursor])
	m.err = nil
	return func() tea.Msg {
		saved, err := c.UpsertBook(context.Background(), &next)
		return bookSavedMsg{settings: saved, err: err}
	}
}

func (m *configModel) view() string {
	if m.loading {
		return "Loading book settings..."
	}
	if m.err != nil && m.settings == nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.settings == nil {
		return dimStyle.Render("No book loaded.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Book Settings: " + m.settings.Name))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-20s %s", "SETTING", "VALUE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	sample := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	for i, f := range configFields {
		label, value := fieldText(m.settings, f)
		if f == fieldDatePattern {
			value += dimStyle.Render("  e.g. " + sample.Format(m.settings.DatePattern))
		}
		line := fmt.Sprintf("  %-20s %s", label, value)
		switch {
		case i == m.flashRow:
			b.WriteString(successStyle.Render("> " + line[2:]))
		case i == m.cursor:
			b.WriteString(selectedStyle.Render("> ") + line[2:])
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("  "+m.err.Error()))
	}
	b.WriteString(dimStyle.Render("\n  arrows: navigate  space/enter: next value"))
	return b.String()
}

func fieldText(s *ledger.BookSettings, f configField) (string, string) {
	switch f {
	case fieldSeparator:
		return "Decimal separator", string(s.DecimalSeparator)
	case fieldFractionDigits:
		return "Fraction digits", strconv.Itoa(s.FractionDigits)
	case fieldPeriodicity:
		return "Periodicity", string(s.Periodicity)
	case fieldDatePattern:
		return "Date pattern", s.DatePattern
	case fieldTimeZone:
		return "Time zone offset", fmt.Sprintf("%+d min", s.TimeZoneOffset)
	}
	return "", ""
}

func cycleSetting(s *ledger.BookSettings, f configField) {
	switch f {
	case fieldSeparator:
		if s.DecimalSeparator == ledger.SeparatorDot {
			s.DecimalSeparator = ledger.SeparatorComma
		} else {
			s.DecimalSeparator = ledger.SeparatorDot
		}
	case fieldFractionDigits:
		s.FractionDigits = (s.FractionDigits + 1) % 5
	case fieldPeriodicity:
		s.Periodicity = periodicities[(indexOf(periodicities, s.Periodicity)+1)%len(periodicities)]
	case fieldDatePattern:
		s.DatePattern = datePatterns[(indexOf(datePatterns, s.DatePattern)+1)%len(datePatterns)]
	case fieldTimeZone:
		s.TimeZoneOffset = timeZoneOffsets[(indexOf(timeZoneOffsets, s.TimeZoneOffset)+1)%len(timeZoneOffsets)]
	}
}
