package ledgersync

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bankbridge/internal/importer"
	"github.com/MrJamesThe3rd/bankbridge/internal/ledger"
	"github.com/MrJamesThe3rd/bankbridge/internal/pending"
	"github.com/MrJamesThe3rd/bankbridge/internal/session"
	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
	"github.com/MrJamesThe3rd/bankbridge/internal/upload"
)

const defaultMaxUpload = 10 << 20

type Handler struct {
	svc         *importer.Service
	apiKey      string
	defaultMode statement.Mode
	maxUpload   int64
}

// NewHandler serves the sync endpoints. apiKey is used when a request does
// not bring its own bearer token.
func NewHandler(svc *importer.Service, apiKey string, defaultMode statement.Mode, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}

	return &Handler{
		svc:         svc,
		apiKey:      apiKey,
		defaultMode: defaultMode,
		maxUpload:   maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.sync)
	r.Post("/preview", h.preview)
	r.Post("/upload-csv", h.uploadCSV)
}

// badRequest marks errors caused by the request itself.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

// input reads the multipart form: the export in "file", an optional "mode"
// and an optional "pending" list as JSON or YAML.
func (h *Handler) input(r *http.Request) (importer.Input, io.Closer, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return importer.Input{}, nil, badRequest{fmt.Errorf("failed to parse form: %w", err)}
	}

	mode := h.defaultMode

	if v := r.FormValue("mode"); v != "" {
		m, err := statement.ParseMode(v)
		if err != nil {
			return importer.Input{}, nil, badRequest{err}
		}

		mode = m
	}

	var rows []pending.Row

	if v := r.FormValue("pending"); strings.TrimSpace(v) != "" {
		parsed, err := pending.Parse([]byte(v))
		if err != nil {
			return importer.Input{}, nil, badRequest{err}
		}

		rows = parsed
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return importer.Input{}, nil, badRequest{errors.New("file field is required")}
	}

	return importer.Input{Export: file, Mode: mode, Pending: rows}, file, nil
}

func (h *Handler) session(r *http.Request) (session.Session, error) {
	token := h.apiKey
	if v, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		token = v
	}

	return session.New().Authorize(token)
}

type syncResponse struct {
	RunID      string   `json:"run_id"`
	Created    int      `json:"created"`
	Duplicates int      `json:"duplicates"`
	Skipped    int      `json:"skipped"`
	Collisions []string `json:"collisions,omitempty"`
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	in, file, err := h.input(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	report, err := h.svc.Sync(r.Context(), sess, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		RunID:      report.RunID.String(),
		Created:    len(report.Result.Created),
		Duplicates: len(report.Result.Duplicates),
		Skipped:    len(report.Prepared.Skipped),
		Collisions: report.Collisions,
	})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	in, file, err := h.input(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	p, err := h.svc.Preview(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPreviewResponse(p))
}

func (h *Handler) uploadCSV(w http.ResponseWriter, r *http.Request) {
	in, file, err := h.input(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	p, err := h.svc.Preview(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger-upload.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := upload.Render(w, p.Batch); err != nil {
		slog.Error("failed to render upload csv", "error", err)
	}
}

func statusFor(err error) int {
	var (
		badReq    badRequest
		formatErr *statement.FormatError
		resErr    *ledger.ResolutionError
		subErr    *ledger.SubmissionError
	)

	switch {
	case errors.As(err, &badReq), errors.As(err, &formatErr):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrUnauthenticated),
		errors.Is(err, session.ErrExpired),
		errors.Is(err, session.ErrRevoked):
		return http.StatusUnauthorized
	case errors.As(err, &resErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &subErr):
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
