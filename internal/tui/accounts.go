package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

type accountsLoadedMsg struct {
	accounts []ledger.Account
	groups   []ledger.Group
	err      error
}

// accountListModel shows the account and group metadata that feeds
// property columns.
type accountListModel struct {
	bookID   string
	accounts []ledger.Account
	groups   []ledger.Group
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
}

func (m *accountListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	bookID := m.bookID
	return func() tea.Msg {
		ctx := context.Background()
		accounts, err := c.ListAccounts(ctx, bookID)
		if err != nil {
			return accountsLoadedMsg{err: err}
		}
		groups, err := c.ListGroups(ctx, bookID)
		return accountsLoadedMsg{accounts: accounts, groups: groups, err: err}
	}
}

func (m accountListModel) update(msg tea.Msg) (accountListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsLoadedMsg:
		m.loading = false
		m.accounts = msg.accounts
		m.groups = msg.groups
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < m.total()-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *accountListModel) total() int {
	return len(m.groups) + len(m.accounts)
}

func (m *accountListModel) view() string {
	if m.loading {
		return "Loading accounts..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.total() == 0 {
		return dimStyle.Render("No account metadata. Try 'balances book init --chart'.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Accounts and Groups"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-6s %-28s %-10s %-16s %s", "KIND", "NAME", "TYPE", "PARENT", "PROPERTIES")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	lines := make([]string, 0, m.total())
	for _, g := range m.groups {
		lines = append(lines, fmt.Sprintf("  %-6s %-28s %-10s %-16s %s",
			"group", truncate(g.Name, 28), ledger.TypeLabel(g.Type), truncate(g.Parent, 16), formatProps(g.Properties)))
	}
	for _, a := range m.accounts {
		lines = append(lines, fmt.Sprintf("  %-6s %-28s %-10s %-16s %s",
			"acct", truncate(a.Name, 28), ledger.TypeLabel(a.Type), truncate(strings.Join(a.Groups, ","), 16), formatProps(a.Properties)))
	}

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(lines) && i < start+maxRows; i++ {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + lines[i][2:]))
		} else {
			b.WriteString(lines[i])
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d groups, %d accounts", len(m.groups), len(m.accounts)))
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-2] + ".."
	}
	return s
}

// formatProps lists visible properties as key=value in key order.
func formatProps(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		if !strings.HasSuffix(k, "_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + props[k]
	}
	return strings.Join(parts, " ")
}
