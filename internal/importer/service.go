package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bankbridge/internal/history"
	"github.com/MrJamesThe3rd/bankbridge/internal/importid"
	"github.com/MrJamesThe3rd/bankbridge/internal/ledger"
	"github.com/MrJamesThe3rd/bankbridge/internal/metrics"
	"github.com/MrJamesThe3rd/bankbridge/internal/normalize"
	"github.com/MrJamesThe3rd/bankbridge/internal/session"
	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Ledger interface {
	Resolve(ctx context.Context, sess session.Session, budgetName, accountName string) (ledger.Target, error)
	Submit(ctx context.Context, sess session.Session, target ledger.Target, batch transaction.Batch) (ledger.Result, error)
}

type RunRecorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Config names the ledger destination and the import id prefix.
type Config struct {
	Budget         string
	Account        string
	ImportIDPrefix string
}

type Service struct {
	cfg        Config
	reader     *statement.Reader
	normalizer *normalize.Normalizer
	ledger     Ledger
	runs       RunRecorder
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the pipeline. runs and m may be nil.
func NewService(cfg Config, l Ledger, runs RunRecorder, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:        cfg,
		reader:     statement.NewReader(logger),
		normalizer: normalize.New(cfg.ImportIDPrefix, logger),
		ledger:     l,
		runs:       runs,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// Prepare reads and normalizes the export and merges the pending rows. Import
// ids are still provisional.
func (s *Service) Prepare(in Input) (Prepared, error) {
	rows, err := s.reader.Read(in.Export)
	if err != nil {
		return Prepared{}, fmt.Errorf("reading export: %w", err)
	}

	out := s.normalizer.Statement(in.Mode, rows)
	batch, pendingSkips := s.normalizer.MergePending(out.Batch, in.Pending)

	p := Prepared{
		Batch:    batch,
		Skipped:  append(out.Skipped, pendingSkips...),
		Balances: out.Balances,
	}

	s.metrics.ObserveRows(string(transaction.SourceExport), p.Exported(), len(out.Skipped))
	s.metrics.ObserveRows(string(transaction.SourcePending), p.Pending(), len(pendingSkips))

	s.logger.Info("export normalized",
		"mode", in.Mode.String(),
		"rows", len(rows),
		"exported", p.Exported(),
		"pending", p.Pending(),
		"skipped", len(p.Skipped),
		"balances", p.Balances,
	)

	return p, nil
}

// Preview prepares the batch and finalizes its import ids without contacting
// the ledger. Transactions carry no account id.
func (s *Service) Preview(ctx context.Context, in Input) (Prepared, error) {
	started := s.now().UTC()
	run := &history.Run{Mode: in.Mode.String(), Status: history.StatusPreview, StartedAt: started}

	p, err := s.Prepare(in)
	if err != nil {
		s.finish(ctx, run, err)
		return Prepared{}, err
	}

	p.Batch = importid.Assign(p.Batch, "")
	fillRun(run, p)
	run.Collisions = len(importid.Collisions(p.Batch))

	s.finish(ctx, run, nil)

	return p, nil
}

// Sync runs the whole pipeline and submits the batch. The ledger is only
// contacted when there is something to submit.
func (s *Service) Sync(ctx context.Context, sess session.Session, in Input) (Report, error) {
	started := s.now().UTC()
	run := &history.Run{ID: uuid.New(), Mode: in.Mode.String(), StartedAt: started}
	report := Report{RunID: run.ID}

	p, err := s.Prepare(in)
	if err != nil {
		s.finish(ctx, run, err)
		return report, err
	}

	report.Prepared = p
	fillRun(run, p)

	if len(p.Batch) == 0 {
		s.logger.Info("nothing to submit")

		run.Status = history.StatusEmpty
		s.finish(ctx, run, nil)

		return report, nil
	}

	target, err := s.ledger.Resolve(ctx, sess, s.cfg.Budget, s.cfg.Account)
	if err != nil {
		err = fmt.Errorf("resolving ledger target: %w", err)
		s.finish(ctx, run, err)

		return report, err
	}

	report.Target = target
	run.BudgetID = target.BudgetID
	run.AccountID = target.AccountID

	batch := importid.Assign(p.Batch, target.AccountID)
	report.Prepared.Batch = batch

	report.Collisions = importid.Collisions(batch)
	run.Collisions = len(report.Collisions)

	for _, id := range report.Collisions {
		s.logger.Warn("import id shared by several transactions, the ledger will keep only one", "import_id", id)
	}

	result, err := s.ledger.Submit(ctx, sess, target, batch)
	if err != nil {
		err = fmt.Errorf("submitting batch: %w", err)
		s.finish(ctx, run, err)

		return report, err
	}

	report.Result = result
	run.Status = history.StatusSubmitted
	run.Created = len(result.Created)
	run.Duplicates = len(result.Duplicates)

	s.metrics.ObserveSubmission(run.Created, run.Duplicates, run.Collisions)
	s.finish(ctx, run, nil)

	return report, nil
}

func fillRun(run *history.Run, p Prepared) {
	run.Exported = p.Exported()
	run.Pending = p.Pending()
	run.Skipped = len(p.Skipped)
}

// finish records the run. A failing history store is logged and does not
// change the outcome of the run.
func (s *Service) finish(ctx context.Context, run *history.Run, runErr error) {
	run.FinishedAt = s.now().UTC()

	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()

		s.logger.Error("import run failed", "run_id", run.ID, "error", runErr)
	}

	s.metrics.ObserveRun(run.Mode, string(run.Status), run.Duration())

	if s.runs == nil {
		return
	}

	if err := s.runs.Record(ctx, run); err != nil {
		s.logger.Error("recording import run", "run_id", run.ID, "error", err)
	}
}
