package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/simonvc/miniledger-balances/internal/render"
)

type reportLoadedMsg struct {
	snapshotID string
	report     *balances.Report
	err        error
}

// tableBuiltMsg carries the rows of build number seq. Stale builds are dropped.
type tableBuiltMsg struct {
	seq  int
	rows [][]any
	err  error
}

var (
	balanceTypeCycle = []balances.BalanceType{balances.TotalBalance, balances.PeriodBalance, balances.CumulativeBalance}
	expansionCycle   = []int{0, 1, 2, balances.ExpandAllGroups, balances.ExpandAllAccounts}
)

type pivotModel struct {
	snapshotID string
	report     *balances.Report
	path       []string // drilled-into groups, innermost last
	opts       balances.Options
	rows       [][]any
	seq        int
	cursor     int
	loading    bool
	err        error
	width      int
	height     int
}

func newPivotModel() pivotModel {
	return pivotModel{opts: balances.Options{Type: balances.TotalBalance}}
}

func (m *pivotModel) load(c *client.Client, snapshotID string) tea.Cmd {
	m.loading = true
	m.err = nil
	return func() tea.Msg {
		r, err := c.OpenReport(context.Background(), snapshotID)
		return reportLoadedMsg{snapshotID: snapshotID, report: r, err: err}
	}
}

func (m *pivotModel) setReport(snapshotID string, r *balances.Report) tea.Cmd {
	m.snapshotID = snapshotID
	m.report = r
	m.path = nil
	m.cursor = 0
	m.rows = nil
	return m.build()
}

func (m *pivotModel) builder() (*balances.DataTableBuilder, error) {
	if len(m.path) == 0 {
		return m.report.CreateDataTable(), nil
	}
	c, err := m.report.BalancesContainer(m.path[len(m.path)-1])
	if err != nil {
		return nil, err
	}
	return c.CreateDataTable(), nil
}

// build starts an asynchronous table build. Property lookups may go over
// the network, so it never runs inside update.
func (m *pivotModel) build() tea.Cmd {
	if m.report == nil {
		return nil
	}
	b, err := m.builder()
	if err != nil {
		m.err = err
		return nil
	}
	b.Apply(m.opts)

	m.seq++
	seq := m.seq
	m.loading = true
	m.err = nil
	return func() tea.Msg {
		rows, err := b.Build(context.Background())
		return tableBuiltMsg{seq: seq, rows: rows, err: err}
	}
}

func (m pivotModel) update(msg tea.Msg) (pivotModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		return m, m.setReport(msg.snapshotID, msg.report)

	case tableBuiltMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.rows = msg.rows
		m.err = msg.err
		if n := m.dataRows(); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}

	case tea.KeyMsg:
		if m.report == nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < m.dataRows()-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			c := m.selectedContainer()
			if c == nil || !c.IsGroup() {
				return m, nil
			}
			m.path = append(m.path, c.Name())
			m.cursor = 0
			return m, m.build()
		case key.Matches(msg, keys.Escape):
			if len(m.path) > 0 {
				m.path = m.path[:len(m.path)-1]
				m.cursor = 0
				return m, m.build()
			}
		default:
			if m.toggle(msg) {
				return m, m.build()
			}
		}
	}
	return m, nil
}

// toggle applies a table option key and reports whether it matched.
func (m *pivotModel) toggle(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.Type):
		m.opts.Type = balanceTypeCycle[(indexOf(balanceTypeCycle, m.opts.Type)+1)%len(balanceTypeCycle)]
		m.cursor = 0
	case key.Matches(msg, keys.Transpose):
		m.opts.Transposed = !m.opts.Transposed
		m.cursor = 0
	case key.Matches(msg, keys.Raw):
		m.opts.Raw = !m.opts.Raw
	case key.Matches(msg, keys.Trial):
		m.opts.Trial = !m.opts.Trial
	case key.Matches(msg, keys.Period):
		m.opts.Period = !m.opts.Period
	case key.Matches(msg, keys.Expand):
		m.opts.Expanded = expansionCycle[(indexOf(expansionCycle, m.opts.Expanded)+1)%len(expansionCycle)]
		m.cursor = 0
	case key.Matches(msg, keys.Format):
		on := !m.opts.FormatValues
		m.opts.FormatValues = on
		m.opts.FormatDates = on
	case key.Matches(msg, keys.Properties):
		m.opts.Properties = !m.opts.Properties
	default:
		return false
	}
	return true
}

func indexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return 0
}

func (m *pivotModel) dataRows() int {
	if len(m.rows) == 0 {
		return 0
	}
	return len(m.rows) - 1
}

// containersOnRows reports whether each data row is one container.
func (m *pivotModel) containersOnRows() bool {
	if m.opts.Type == balances.PeriodBalance || m.opts.Type == balances.CumulativeBalance {
		return m.opts.Transposed && !m.opts.HideNames
	}
	return !m.opts.Transposed
}

// selectedContainer returns the container under the cursor, or nil when
// rows are not containers.
func (m *pivotModel) selectedContainer() *balances.Container {
	if m.report == nil || !m.containersOnRows() || m.cursor+1 >= len(m.rows) {
		return nil
	}
	row := m.rows[m.cursor+1]
	if len(row) == 0 {
		return nil
	}
	name, ok := row[0].(string)
	if !ok || name == "" {
		return nil
	}
	c, err := m.report.BalancesContainer(name)
	if err != nil {
		return nil
	}
	return c
}

func (m *pivotModel) optionsLine() string {
	flag := func(name string, on bool) string {
		if on {
			return selectedStyle.Render(name)
		}
		return dimStyle.Render(name)
	}
	return strings.Join([]string{
		"type " + selectedStyle.Render(string(m.opts.Type)),
		"expand " + selectedStyle.Render(balances.FormatExpansion(m.opts.Expanded)),
		flag("transposed", m.opts.Transposed),
		flag("raw", m.opts.Raw),
		flag("trial", m.opts.Trial),
		flag("period", m.opts.Period),
		flag("formatted", m.opts.FormatValues),
		flag("properties", m.opts.Properties),
	}, "  ")
}

func (m *pivotModel) view() string {
	if m.report == nil {
		if m.loading {
			return "Loading report..."
		}
		if m.err != nil {
			return errorStyle.Render("Error: " + m.err.Error())
		}
		return dimStyle.Render("No report loaded. Select a snapshot and press enter.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Snapshot " + m.snapshotID))
	if len(m.path) > 0 {
		b.WriteString("\n")
		b.WriteString(pathStyle.Render(strings.Join(m.path, " / ")))
	}
	b.WriteString("\n")
	b.WriteString(m.optionsLine())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.loading && m.rows == nil:
		b.WriteString("Building table...")
	case m.dataRows() == 0:
		b.WriteString(dimStyle.Render("Nothing to show."))
	default:
		b.WriteString(m.tableView())
		b.WriteString(fmt.Sprintf("\n  %d rows", m.dataRows()))
		if c := m.selectedContainer(); c != nil && c.IsGroup() {
			b.WriteString(dimStyle.Render("  |  enter: open " + c.Name()))
		}
	}

	return b.String()
}

func (m *pivotModel) tableView() string {
	cells := render.Strings(m.rows)
	body := cells[1:]

	maxRows := m.height - 14
	if maxRows < 5 {
		maxRows = 5
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	end := min(len(body), start+maxRows)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(cells[0]...).
		Rows(body[start:end]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cellStyle.Bold(true).Foreground(lipgloss.Color("252"))
			case start+row == m.cursor:
				return cellStyle.Inherit(selectedStyle)
			case col > 0:
				return cellStyle.Align(lipgloss.Right)
			default:
				return cellStyle
			}
		})
	return t.String()
}
