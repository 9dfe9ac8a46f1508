package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/bankbridge/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/bankbridge/internal/config"
	"github.com/MrJamesThe3rd/bankbridge/internal/database"
	"github.com/MrJamesThe3rd/bankbridge/internal/history"
	historyStore "github.com/MrJamesThe3rd/bankbridge/internal/history/store"
	"github.com/MrJamesThe3rd/bankbridge/internal/importer"
	"github.com/MrJamesThe3rd/bankbridge/internal/ledger"
	"github.com/MrJamesThe3rd/bankbridge/internal/metrics"
	"github.com/MrJamesThe3rd/bankbridge/internal/session"
	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
)

const logFile = "bankbridge-tui.log"

type model struct {
	importService  *importer.Service
	historyService *history.Service
	sess           session.Session
	mode           statement.Mode
	notice         string

	currentView View

	syncView view.SyncModel
	runsView view.RunsModel
}

type View int

const (
	ViewMenu View = 0
	ViewSync View = 1
	ViewRuns View = 2
)

func initialModel() (model, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return model{}, nil, fmt.Errorf("loading config: %w", err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return model{}, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	mode, _ := cfg.StatementMode()

	var (
		db      *sql.DB
		histSvc *history.Service
		runs    importer.RunRecorder
		notice  string
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err = database.Open(ctx, cfg.ConnectionString())
	if err != nil {
		logger.Warn("database unavailable, runs will not be recorded", "error", err)
		notice = "Database unavailable: runs are not recorded."
	} else {
		histSvc = history.NewService(historyStore.New(db))
		runs = histSvc
	}

	client := ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.Timeout, ledger.WithLogger(logger))

	impSvc := importer.NewService(importer.Config{
		Budget:         cfg.Ledger.Budget,
		Account:        cfg.Ledger.Account,
		ImportIDPrefix: cfg.Ledger.ImportIDPrefix,
	}, client, runs, metrics.New(nil), logger)

	sess, err := session.New().Authorize(cfg.Ledger.APIKey)
	if err != nil {
		logger.Warn("no usable ledger token, submissions will fail", "error", err)
		notice += "\nLedger token missing: preview only."
	}

	cleanup := func() {
		if db != nil {
			db.Close()
		}

		f.Close()
	}

	return model{
		importService:  impSvc,
		historyService: histSvc,
		sess:           sess,
		mode:           mode,
		notice:         notice,
		currentView:    ViewMenu,
		syncView:       view.NewSyncModel(impSvc, sess, mode),
		runsView:       view.NewRunsModel(histSvc),
	}, cleanup, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSync
				m.syncView = view.NewSyncModel(m.importService, m.sess, m.mode)

				return m, m.syncView.Init()
			case "2":
				m.currentView = ViewRuns
				m.runsView = view.NewRunsModel(m.historyService)

				return m, m.runsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSync:
		var newModel tea.Model
		newModel, cmd = m.syncView.Update(msg)
		m.syncView = newModel.(view.SyncModel)
	case ViewRuns:
		var newModel tea.Model
		newModel, cmd = m.runsView.Update(msg)
		m.runsView = newModel.(view.RunsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		menu := "Bankbridge\n\n" +
			"1. Sync Export\n" +
			"2. Run History\n\n" +
			"q. Quit"

		if m.notice != "" {
			menu += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(m.notice)
		}

		return lipgloss.NewStyle().Padding(2).Render(menu)
	case ViewSync:
		return m.syncView.View()
	case ViewRuns:
		return m.runsView.View()
	}

	return "Unknown View"
}

func main() {
	m, cleanup, err := initialModel()
	if err != nil {
		slog.Error("failed to start TUI", "error", err)
		os.Exit(1)
	}

	_, err = tea.NewProgram(m).Run()
	cleanup()

	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
