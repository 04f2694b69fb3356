package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

type mode int

const (
	modeSnapshotList mode = iota
	modePivot
	modeContainerDetail
	modeAccountList
	modeConfig
)

var tabModes = []mode{modeSnapshotList, modePivot, modeAccountList, modeConfig}

func tabLabel(m mode) string {
	switch m {
	case modeSnapshotList:
		return "Snapshots"
	case modePivot:
		return "Pivot"
	case modeAccountList:
		return "Accounts"
	case modeConfig:
		return "Settings"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	bookID        string
	snapshotID    string
	mode          mode
	tabIndex      int
	width, height int
	err           error
	statusMsg     string

	snapshotList    snapshotListModel
	pivot           pivotModel
	containerDetail containerDetailModel
	accountList     accountListModel
	config          configModel
}

// NewApp opens a viewer on a book. With an empty snapshotID the latest
// snapshot of the book is shown.
func NewApp(c *client.Client, bookID, snapshotID string) *App {
	return &App{
		client:       c,
		bookID:       bookID,
		snapshotID:   snapshotID,
		mode:         modePivot,
		tabIndex:     1,
		snapshotList: snapshotListModel{bookID: bookID},
		pivot:        newPivotModel(),
		accountList:  accountListModel{bookID: bookID},
		config:       configModel{bookID: bookID, flashRow: -1},
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.snapshotList.init(a.client),
		a.accountList.init(a.client),
		a.config.init(a.client),
		a.openReport(),
	)
}

// openReport loads the chosen snapshot, or the latest one of the book.
func (a *App) openReport() tea.Cmd {
	if a.snapshotID != "" {
		return a.pivot.load(a.client, a.snapshotID)
	}
	a.pivot.loading = true
	c, bookID := a.client, a.bookID
	return func() tea.Msg {
		ctx := context.Background()
		snap, err := c.LatestSnapshot(ctx, bookID)
		if errors.Is(err, ledger.ErrSnapshotNotFound) {
			return reportLoadedMsg{}
		}
		if err != nil {
			return reportLoadedMsg{err: err}
		}
		r, err := c.OpenReport(ctx, snap.ID)
		return reportLoadedMsg{snapshotID: snap.ID, report: r, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.snapshotList.width = msg.Width
		a.snapshotList.height = msg.Height - 6
		a.pivot.width = msg.Width
		a.pivot.height = msg.Height - 6
		a.containerDetail.width = msg.Width
		a.accountList.width = msg.Width
		a.accountList.height = msg.Height - 6
		a.config.width = msg.Width
		a.config.height = msg.Height - 6
		return a, nil
	}

	// Route data-loaded messages to their sub-model regardless of active mode.
	switch typedMsg := msg.(type) {
	case snapshotsLoadedMsg:
		var cmd tea.Cmd
		a.snapshotList, cmd = a.snapshotList.update(msg)
		return a, cmd
	case reportLoadedMsg:
		if typedMsg.err == nil && typedMsg.report == nil {
			a.pivot.loading = false
			return a, nil
		}
		if typedMsg.snapshotID != "" {
			a.snapshotID = typedMsg.snapshotID
		}
		var cmd tea.Cmd
		a.pivot, cmd = a.pivot.update(msg)
		return a, cmd
	case tableBuiltMsg:
		var cmd tea.Cmd
		a.pivot, cmd = a.pivot.update(msg)
		return a, cmd
	case containerMetaLoadedMsg:
		var cmd tea.Cmd
		a.containerDetail, cmd = a.containerDetail.update(msg)
		return a, cmd
	case accountsLoadedMsg:
		var cmd tea.Cmd
		a.accountList, cmd = a.accountList.update(msg)
		return a, cmd
	case bookLoadedMsg, configFlashClearMsg:
		var cmd tea.Cmd
		a.config, cmd = a.config.update(msg, a.client)
		return a, cmd
	case bookSavedMsg:
		var cmd tea.Cmd
		a.config, cmd = a.config.update(msg, a.client)
		if typedMsg.err != nil || a.pivot.report == nil {
			return a, cmd
		}
		// Formatting depends on the book, so the open report is reloaded.
		a.statusMsg = "Book settings saved"
		return a, tea.Batch(cmd, a.pivot.load(a.client, a.pivot.snapshotID))
	case snapshotDeleteConfirmedMsg:
		id := typedMsg.id
		return a, func() tea.Msg {
			err := a.client.DeleteSnapshot(context.Background(), id)
			return snapshotDeletedMsg{id: id, err: err}
		}
	case snapshotDeletedMsg:
		if typedMsg.err != nil {
			a.snapshotList, _ = a.snapshotList.update(msg)
			return a, nil
		}
		a.statusMsg = "Snapshot " + typedMsg.id + " deleted"
		a.snapshotList, _ = a.snapshotList.update(msg)
		return a, a.snapshotList.init(a.client)
	}

	// Confirmation prompts take every key.
	if a.mode == modeSnapshotList && a.snapshotList.confirmDelete {
		var cmd tea.Cmd
		a.snapshotList, cmd = a.snapshotList.update(msg)
		return a, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Reload):
			a.statusMsg = ""
			if a.mode == modePivot && a.pivot.snapshotID != "" {
				return a, a.pivot.load(a.client, a.pivot.snapshotID)
			}
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape) && a.mode == modeContainerDetail:
			a.mode = modePivot
			return a, nil

		case key.Matches(msg, keys.Enter) && a.mode == modeSnapshotList:
			if id := a.snapshotList.selectedID(); id != "" {
				a.mode = modePivot
				a.tabIndex = 1
				a.statusMsg = ""
				return a, a.pivot.load(a.client, id)
			}
			return a, nil

		case key.Matches(msg, keys.Info) && a.mode == modePivot:
			if c := a.pivot.selectedContainer(); c != nil {
				a.mode = modeContainerDetail
				return a, a.containerDetail.init(c)
			}
			a.statusMsg = "Select a container row first"
			return a, nil
		}
	}

	// Delegate update to active sub-model
	var cmd tea.Cmd
	switch a.mode {
	case modeSnapshotList:
		a.snapshotList, cmd = a.snapshotList.update(msg)
	case modePivot:
		a.pivot, cmd = a.pivot.update(msg)
	case modeContainerDetail:
		a.containerDetail, cmd = a.containerDetail.update(msg)
	case modeAccountList:
		a.accountList, cmd = a.accountList.update(msg)
	case modeConfig:
		a.config, cmd = a.config.update(msg, a.client)
	}
	return a, cmd
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeSnapshotList:
		return a.snapshotList.init(a.client)
	case modeAccountList:
		return a.accountList.init(a.client)
	case modeConfig:
		return a.config.init(a.client)
	}
	return nil
}

func (a *App) View() string {
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex && a.mode != modeContainerDetail {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}
	tabs += subtitleStyle.Render("  book " + a.bookID)

	var content string
	switch a.mode {
	case modeSnapshotList:
		content = a.snapshotList.view()
	case modePivot:
		content = a.pivot.view()
	case modeContainerDetail:
		content = a.containerDetail.view()
	case modeAccountList:
		content = a.accountList.view()
	case modeConfig:
		content = a.config.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}
	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		dimStyle.Render(a.helpText()),
	)
}

func (a *App) helpText() string {
	switch a.mode {
	case modeSnapshotList:
		return "tab:switch  enter:open  d:delete  ctrl+r:reload  q:quit"
	case modePivot:
		return "t:type  e:expand  x:transpose  r:raw  b:trial  p:period  f:format  o:properties  enter:open group  esc:up  i:info  q:quit"
	case modeContainerDetail:
		return "esc:back  q:quit"
	default:
		return "tab:switch  ctrl+r:reload  q:quit"
	}
}
