package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bankbridge/internal/importer"
	"github.com/MrJamesThe3rd/bankbridge/internal/pending"
	"github.com/MrJamesThe3rd/bankbridge/internal/session"
	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
)

const syncTimeout = 2 * time.Minute

type syncState int

const (
	syncStateForm syncState = iota
	syncStatePreparing
	syncStatePreview
	syncStateSubmitting
	syncStateResult
)

// syncFields is bound to the form. It lives behind a pointer so the form
// writes survive the model being copied by value.
type syncFields struct {
	exportPath  string
	mode        string
	pendingPath string
	dryRun      bool
}

type SyncModel struct {
	CommonModel
	svc  *importer.Service
	sess session.Session

	state   syncState
	fields  *syncFields
	form    *huh.Form
	spinner spinner.Model
	table   table.Model

	prepared importer.Prepared
	status   string
	err      error
}

func NewSyncModel(svc *importer.Service, sess session.Session, defaultMode statement.Mode) SyncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fields := &syncFields{mode: defaultMode.String()}

	return SyncModel{
		svc:     svc,
		sess:    sess,
		fields:  fields,
		form:    buildSyncForm(fields),
		spinner: s,
		table:   newPreviewTable(),
	}
}

func (m SyncModel) Title() string { return "Sync Export" }

func (m SyncModel) ShortHelp() string {
	switch m.state {
	case syncStatePreview:
		if m.fields.dryRun {
			return "Esc: back"
		}

		return "Enter: submit | Esc: back"
	case syncStateResult:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m SyncModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case prepareResultMsg:
		if msg.err != nil {
			m.state = syncStateResult
			m.err = msg.err

			return m, nil
		}

		m.prepared = msg.prepared
		m.state = syncStatePreview
		m.table.SetRows(previewRows(msg.prepared))
		m.table.Focus()

		return m, nil

	case syncResultMsg:
		m.state = syncStateResult
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.status = summarize(msg.report)

		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-12, 5))
	}

	switch m.state {
	case syncStateForm:
		return m.updateForm(msg)
	case syncStatePreparing, syncStateSubmitting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case syncStatePreview:
		return m.updatePreview(msg)
	case syncStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m SyncModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = syncStatePreparing
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.prepareCmd(*m.fields))
}

func (m SyncModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.fields.dryRun = false
			m.form = buildSyncForm(m.fields)
			m.state = syncStateForm

			return m, m.form.Init()
		case tea.KeyEnter:
			if m.fields.dryRun || len(m.prepared.Batch) == 0 {
				return m, nil
			}

			m.state = syncStateSubmitting

			return m, tea.Batch(m.spinner.Tick, m.syncCmd(*m.fields))
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SyncModel) View() string {
	switch m.state {
	case syncStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case syncStatePreparing:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Reading export...", m.spinner.View()))
	case syncStateSubmitting:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Submitting to ledger...", m.spinner.View()))
	case syncStatePreview:
		return m.viewPreview()
	case syncStateResult:
		return m.viewResult()
	}

	return ""
}

func (m SyncModel) viewPreview() string {
	p := m.prepared

	header := fmt.Sprintf("%d from export, %d pending, %d skipped",
		p.Exported(), p.Pending(), len(p.Skipped))

	var skipped strings.Builder
	for _, s := range p.Skipped {
		fmt.Fprintf(&skipped, "line %d (%s): %s\n", s.Line, s.Source, s.Reason)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	footer := "Enter submits the batch."
	switch {
	case m.fields.dryRun:
		footer = "Dry run: nothing will be submitted."
	case len(p.Batch) == 0:
		footer = "Nothing to submit."
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			tableView,
			mutedStyle.Render(skipped.String()),
			footer,
		),
	)
}

func (m SyncModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

func buildSyncForm(f *syncFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("export").
				Title("Export file").
				Description("CSV downloaded from the bank portal").
				Placeholder("umsaetze.csv").
				Validate(fileExists).
				Value(&f.exportPath),
			huh.NewSelect[string]().
				Key("mode").
				Title("Layout").
				Options(
					huh.NewOption("Checking account", statement.ModeChecking.String()),
					huh.NewOption("Credit card", statement.ModeCreditCard.String()),
				).
				Value(&f.mode),
			huh.NewInput().
				Key("pending").
				Title("Pending list").
				Description("Optional JSON or YAML file with not yet booked rows").
				Validate(optionalFileExists).
				Value(&f.pendingPath),
			huh.NewConfirm().
				Key("dry").
				Title("Dry run?").
				Affirmative("Preview only").
				Negative("Preview and submit").
				Value(&f.dryRun),
		),
	).WithWidth(60).WithShowHelp(false)
}

func fileExists(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path is required")
	}

	return optionalFileExists(path)
}

func optionalFileExists(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s", path)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	return nil
}

func newPreviewTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Payee", Width: 24},
		{Title: "Memo", Width: 32},
		{Title: "Amount", Width: 12},
		{Title: "Cleared", Width: 10},
		{Title: "Import ID", Width: 34},
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

	return t
}

func previewRows(p importer.Prepared) []table.Row {
	rows := make([]table.Row, 0, len(p.Batch))
	for _, t := range p.Batch {
		rows = append(rows, table.Row{
			FormatDate(t.Date),
			t.PayeeName,
			t.Memo,
			FormatAmount(t.Amount),
			string(t.Cleared),
			t.ImportID,
		})
	}

	return rows
}

func summarize(r importer.Report) string {
	if len(r.Prepared.Batch) == 0 {
		return "Nothing to submit."
	}

	s := fmt.Sprintf("Created %d transactions, %d already known to the ledger.",
		len(r.Result.Created), len(r.Result.Duplicates))

	if len(r.Collisions) > 0 {
		s += fmt.Sprintf("\n%d import ids were shared by several transactions.", len(r.Collisions))
	}

	return s
}

// Messages

type prepareResultMsg struct {
	prepared importer.Prepared
	err      error
}

type syncResultMsg struct {
	report importer.Report
	err    error
}

func openInput(f syncFields) (importer.Input, *os.File, error) {
	mode, err := statement.ParseMode(f.mode)
	if err != nil {
		return importer.Input{}, nil, err
	}

	var rows []pending.Row

	if strings.TrimSpace(f.pendingPath) != "" {
		rows, err = pending.LoadFile(f.pendingPath)
		if err != nil {
			return importer.Input{}, nil, err
		}
	}

	file, err := os.Open(f.exportPath)
	if err != nil {
		return importer.Input{}, nil, fmt.Errorf("opening export: %w", err)
	}

	return importer.Input{Export: file, Mode: mode, Pending: rows}, file, nil
}

func (m SyncModel) prepareCmd(f syncFields) tea.Cmd {
	return func() tea.Msg {
		in, file, err := openInput(f)
		if err != nil {
			return prepareResultMsg{err: err}
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		p, err := m.svc.Preview(ctx, in)

		return prepareResultMsg{prepared: p, err: err}
	}
}

func (m SyncModel) syncCmd(f syncFields) tea.Cmd {
	return func() tea.Msg {
		in, file, err := openInput(f)
		if err != nil {
			return syncResultMsg{err: err}
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		report, err := m.svc.Sync(ctx, m.sess, in)

		return syncResultMsg{report: report, err: err}
	}
}
