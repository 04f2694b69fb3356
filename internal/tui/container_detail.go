package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

type containerMetaLoadedMsg struct {
	name  string
	props map[string]string
	kind  string
	err   error
}

type containerDetailModel struct {
	container *balances.Container
	summary   balances.ContainerSummary
	props     map[string]string
	metaKind  string // account type or group parent, when metadata exists
	loading   bool
	err       error
	width     int
}

// init shows the container at once and resolves its metadata in the background.
func (m *containerDetailModel) init(c *balances.Container) tea.Cmd {
	m.container = c
	m.summary = c.Summary()
	m.props = nil
	m.metaKind = ""
	m.err = nil
	m.loading = true
	return func() tea.Msg {
		ctx := context.Background()
		msg := containerMetaLoadedMsg{name: c.Name()}
		if c.IsGroup() {
			g, err := c.Group(ctx)
			switch {
			case errors.Is(err, ledger.ErrGroupNotFound), errors.Is(err, balances.ErrNoBook):
			case err != nil:
				msg.err = err
			default:
				msg.props = g.Properties
				if g.Parent != "" {
					msg.kind = "child of " + g.Parent
				}
			}
			return msg
		}
		a, err := c.Account(ctx)
		switch {
		case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, balances.ErrNoBook):
		case err != nil:
			msg.err = err
		default:
			msg.props = a.Properties
			msg.kind = ledger.TypeLabel(a.Type)
		}
		return msg
	}
}

func (m containerDetailModel) update(msg tea.Msg) (containerDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case containerMetaLoadedMsg:
		if m.container == nil || msg.name != m.container.Name() {
			return m, nil
		}
		m.loading = false
		m.props = msg.props
		m.metaKind = msg.kind
		m.err = msg.err
	}
	return m, nil
}

func (m *containerDetailModel) view() string {
	if m.container == nil {
		return ""
	}
	s := m.summary
	bk := m.container.Report().Book()

	var b strings.Builder

	kind := "Account"
	if m.container.IsGroup() {
		kind = "Group"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s", kind, s.Name)))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label), value))
	}
	row("Nature:", natureStyle[s.Nature].Render(s.Nature))
	if m.metaKind != "" {
		row("Metadata:", m.metaKind)
	}
	row("Permanent:", fmt.Sprint(s.Permanent))
	if s.Parent != "" {
		row("Parent:", s.Parent)
	}
	row("Cumulative balance:", bk.FormatValue(s.CumulativeBalance))
	row("Period balance:", bk.FormatValue(s.PeriodBalance))
	row("Debit / credit:", debitStyle.Render(bk.FormatValue(s.CumulativeDebit))+" / "+creditStyle.Render(bk.FormatValue(s.CumulativeCredit)))
	if len(s.Groups) > 0 {
		row("Groups:", strings.Join(s.Groups, ", "))
	}
	if len(s.Accounts) > 0 {
		row("Accounts:", strings.Join(s.Accounts, ", "))
	}

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("\n  Resolving properties..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("  Properties: "+m.err.Error()) + "\n")
	case len(m.props) > 0:
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("  Properties"))
		b.WriteString("\n")
		keys := make([]string, 0, len(m.props))
		for k := range m.props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line := fmt.Sprintf("  %-20s %s", k, m.props[k])
			if strings.HasSuffix(k, "_") {
				line = dimStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(s.Balances) > 0 {
		b.WriteString("\n")
		header := fmt.Sprintf("  %-12s %18s %18s", "DATE", "PERIOD", "CUMULATIVE")
		b.WriteString(headerStyle.Render(header))
		b.WriteString("\n")
		for _, bal := range s.Balances {
			b.WriteString(fmt.Sprintf("  %-12s %18s %18s\n",
				bk.FormatDate(bal.Date), bk.FormatValue(bal.PeriodBalance), bk.FormatValue(bal.CumulativeBalance)))
		}
	}

	b.WriteString("\n" + dimStyle.Render("  Press ESC to go back"))
	return b.String()
}
