package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koyoi/falls/internal/storage"
)

// maxJournalRows is the number of captures loaded into the table.
const maxJournalRows = 200

// CaptureLister is the read side of the capture journal.
type CaptureLister interface {
	RecentCaptures(limit int) ([]storage.CaptureEntry, error)
}

// JournalModel is the Bubble Tea model for browsing past captures.
type JournalModel struct {
	store    CaptureLister
	entries  []storage.CaptureEntry
	loadErr  error
	table    table.Model
	help     help.Model
	keys     JournalKeyMap
	width    int
	height   int
	quitting bool
}

// NewJournalModel creates a journal browser.
func NewJournalModel(store CaptureLister, width, height int) JournalModel {
	m := JournalModel{
		store:  store,
		keys:   DefaultJournalKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *JournalModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 14},
		{Title: "Kind", Width: 8},
		{Title: "Size", Width: 11},
		{Title: "Files", Width: 5},
		{Title: "Output", Width: 24},
		{Title: "Status", Width: 8},
	}

	// Give the output column whatever width is left.
	if spare := m.width - 4 - 14 - 8 - 11 - 5 - 8 - 12; spare > 24 {
		columns[4].Width = min(spare, 60)
	}

	height := m.height - 6
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads recent captures from the store.
func (m *JournalModel) load() {
	m.entries, m.loadErr = nil, nil
	if m.store != nil {
		m.entries, m.loadErr = m.store.RecentCaptures(maxJournalRows)
	}
	m.table.SetRows(journalRows(m.entries))
	m.table.GotoTop()
}

// journalRows converts entries to table rows.
func journalRows(entries []storage.CaptureEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		status := "ok"
		if !e.OK() {
			status = "failed"
		}
		output := e.Output
		if len(e.Paths) > 0 {
			output = filepath.Base(e.Paths[0])
		}
		rows[i] = table.Row{
			e.CreatedAt.Format("Jan 02 15:04"),
			e.Kind,
			fmt.Sprintf("%dx%d", e.Width, e.Height),
			fmt.Sprintf("%d", len(e.Paths)),
			output,
			status,
		}
	}
	return rows
}

// Init initializes the journal model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Refresh):
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(journalRows(m.entries))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal.
func (m JournalModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("CAPTURES", m.width)))
	b.WriteString("\n\n")

	switch {
	case m.loadErr != nil:
		b.WriteString(alertStyle.Render(m.loadErr.Error()))
	case len(m.entries) == 0:
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(empty.Render("No captures recorded yet.\nWrite a capture.json to the watched directory."))
	default:
		b.WriteString(panelStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunJournal runs the journal browser until the user quits.
func RunJournal(store CaptureLister, width, height int) error {
	p := tea.NewProgram(
		NewJournalModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
