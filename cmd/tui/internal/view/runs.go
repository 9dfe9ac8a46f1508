package view

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bankbridge/internal/history"
)

type RunsModel struct {
	CommonModel
	svc   *history.Service
	table table.Model
	runs  []*history.Run
	err   error
}

type runsLoadedMsg struct {
	runs []*history.Run
	err  error
}

// NewRunsModel lists recorded runs. svc may be nil when no database is
// configured.
func NewRunsModel(svc *history.Service) RunsModel {
	columns := []table.Column{
		{Title: "Started", Width: 17},
		{Title: "Mode", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Export", Width: 7},
		{Title: "Pending", Width: 8},
		{Title: "Skipped", Width: 8},
		{Title: "Created", Width: 8},
		{Title: "Dupes", Width: 6},
		{Title: "Error", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return RunsModel{svc: svc, table: t}
}

func (m RunsModel) Title() string { return "Run History" }

func (m RunsModel) ShortHelp() string { return "↑/↓: navigate | r: refresh | Esc: back" }

func (m RunsModel) Init() tea.Cmd {
	return m.loadRuns
}

func (m RunsModel) loadRuns() tea.Msg {
	if m.svc == nil {
		return runsLoadedMsg{err: errors.New("run history is unavailable without a database")}
	}

	ctx, cancel := DbCtx()
	defer cancel()

	runs, err := m.svc.List(ctx, history.DefaultListLimit)

	return runsLoadedMsg{runs: runs, err: err}
}

func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runsLoadedMsg:
		m.runs, m.err = msg.runs, msg.err
		m.table.SetRows(runRows(msg.runs))

		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-8, 5))

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadRuns
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RunsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	if len(m.runs) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(mutedStyle.Render("No runs recorded yet.") + "\n\n(Esc to go back)")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())
}

func runRows(runs []*history.Run) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, table.Row{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Mode,
			string(r.Status),
			strconv.Itoa(r.Exported),
			strconv.Itoa(r.Pending),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Created),
			strconv.Itoa(r.Duplicates),
			r.Error,
		})
	}

	return rows
}
