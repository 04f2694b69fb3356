package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

type snapshotsLoadedMsg struct {
	snapshots []ledger.Snapshot
	err       error
}

// snapshotDeleteConfirmedMsg is sent when the user confirms deletion.
type snapshotDeleteConfirmedMsg struct {
	id string
}

// snapshotDeletedMsg is sent after the server processes the delete.
type snapshotDeletedMsg struct {
	id  string
	err error
}

type snapshotListModel struct {
	bookID         string
	snapshots      []ledger.Snapshot
	cursor         int
	loading        bool
	err            error
	width          int
	height         int
	confirmDelete  bool
	deleteTargetID string
}

func (m *snapshotListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	bookID := m.bookID
	return func() tea.Msg {
		snaps, err := c.ListSnapshots(context.Background(), bookID)
		return snapshotsLoadedMsg{snapshots: snaps, err: err}
	}
}

func (m snapshotListModel) update(msg tea.Msg) (snapshotListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotsLoadedMsg:
		m.loading = false
		m.snapshots = msg.snapshots
		m.err = msg.err
		if m.cursor >= len(m.snapshots) {
			m.cursor = max(len(m.snapshots)-1, 0)
		}

	case snapshotDeletedMsg:
		m.confirmDelete = false
		m.deleteTargetID = ""
		if msg.err != nil {
			m.err = msg.err
		}

	case tea.KeyMsg:
		if m.confirmDelete {
			switch msg.String() {
			case "y", "Y":
				id := m.deleteTargetID
				m.confirmDelete = false
				return m, func() tea.Msg {
					return snapshotDeleteConfirmedMsg{id: id}
				}
			default:
				m.confirmDelete = false
				m.deleteTargetID = ""
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.snapshots)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Delete):
			if id := m.selectedID(); id != "" {
				m.confirmDelete = true
				m.deleteTargetID = id
				m.err = nil
			}
		}
	}
	return m, nil
}

func (m *snapshotListModel) selectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.snapshots) {
		return m.snapshots[m.cursor].ID
	}
	return ""
}

func (m *snapshotListModel) view() string {
	if m.loading {
		return "Loading snapshots..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.snapshots) == 0 {
		return dimStyle.Render(fmt.Sprintf("No snapshots for book %q. Push one with 'balances snapshot push'.", m.bookID))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Snapshots of " + m.bookID))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-38s %-12s %s", "ID", "PERIODICITY", "CREATED")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.snapshots) && i < start+maxRows; i++ {
		s := m.snapshots[i]
		line := fmt.Sprintf("  %-38s %-12s %s", s.ID, s.Periodicity, s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if m.confirmDelete {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Delete snapshot %s? (y/n)", m.deleteTargetID)))
	} else {
		b.WriteString(fmt.Sprintf("\n  %d snapshots", len(m.snapshots)))
	}

	return b.String()
}
