// Package render turns data tables into text, CSV and JSON friendly rows.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

// DateLayout is used for dates that were not formatted by a book.
const DateLayout = "2006-01-02"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Cell returns the display text of a table cell. Missing data is empty.
func Cell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case decimal.Decimal:
		return c.String()
	case json.Number:
		return c.String()
	case time.Time:
		return c.Format(DateLayout)
	default:
		return fmt.Sprint(c)
	}
}

// Strings converts every cell with Cell.
func Strings(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = Cell(v)
		}
	}
	return out
}

// JSON prepares rows for encoding: amounts become JSON numbers without
// losing precision, dates become strings and missing cells stay null.
func JSON(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = make([]any, len(row))
		for j, v := range row {
			switch c := v.(type) {
			case decimal.Decimal:
				out[i][j] = json.Number(c.String())
			case time.Time:
				out[i][j] = c.Format(DateLayout)
			default:
				out[i][j] = c
			}
		}
	}
	return out
}

// Text draws rows as a bordered table; the first row is the header.
func Text(rows [][]any) string {
	if len(rows) == 0 {
		return ""
	}
	cells := Strings(rows)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(cells[0]...).
		Rows(cells[1:]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col > 0:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

// CSV writes rows as comma separated values.
func CSV(w io.Writer, rows [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Strings(rows)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
