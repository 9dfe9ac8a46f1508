package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bankbridge/internal/ledger"
	"github.com/MrJamesThe3rd/bankbridge/internal/session"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

func authorized(t *testing.T) session.Session {
	t.Helper()

	s, err := session.New().Authorize("secret-token")
	require.NoError(t, err)

	return s
}

func fakeLedger(t *testing.T, calls *atomic.Int32, handler http.HandlerFunc) *ledger.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return ledger.NewClient(srv.URL, 5*time.Second)
}

func budgetsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/budgets":
		_, _ = w.Write([]byte(`{"data":{"budgets":[{"id":"b-2","name":"Household Old"},{"id":"b-1","name":"Household"}]}}`))
	case "/budgets/b-1/accounts":
		_, _ = w.Write([]byte(`{"data":{"accounts":[{"id":"a-9","name":"Giro Savings"},{"id":"a-1","name":"Giro"}]}}`))
	default:
		http.NotFound(w, r)
	}
}

func TestClient_Resolve(t *testing.T) {
	type testCase struct {
		name         string
		budget       string
		account      string
		want         ledger.Target
		wantResource string
	}

	tests := []testCase{
		{
			name:    "Exact Names",
			budget:  "Household",
			account: "Giro",
			want:    ledger.Target{BudgetID: "b-1", AccountID: "a-1"},
		},
		{
			name:         "Unknown Budget",
			budget:       "House",
			account:      "Giro",
			wantResource: "budget",
		},
		{
			name:         "Unknown Account",
			budget:       "Household",
			account:      "giro",
			wantResource: "account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32

			c := fakeLedger(t, &calls, budgetsHandler)

			got, err := c.Resolve(context.Background(), authorized(t), tt.budget, tt.account)
			if tt.wantResource != "" {
				var resErr *ledger.ResolutionError
				require.True(t, errors.As(err, &resErr))
				assert.Equal(t, tt.wantResource, resErr.Resource)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int32(2), calls.Load())
		})
	}
}

func TestClient_Resolve_Unauthenticated(t *testing.T) {
	var calls atomic.Int32

	c := fakeLedger(t, &calls, budgetsHandler)

	_, err := c.Resolve(context.Background(), session.New(), "Household", "Giro")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	assert.Zero(t, calls.Load())

	_, err = c.Resolve(context.Background(), authorized(t).Revoke(), "Household", "Giro")
	assert.ErrorIs(t, err, session.ErrRevoked)
}

func TestClient_Submit(t *testing.T) {
	var calls atomic.Int32

	var got struct {
		Transactions []map[string]any `json:"transactions"`
	}

	c := fakeLedger(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/budgets/b-1/transactions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"transaction_ids":["t-1"],"duplicate_import_ids":["YNAB:10000:2020-03-02:0"]}}`))
	})

	batch := transaction.Batch{
		{
			PayeeName: "Jane Doe",
			Date:      time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
			Memo:      "Invoice #4",
			Amount:    -50000,
			Cleared:   transaction.Cleared,
			ImportID:  "YNAB:-50000:2020-03-01:0",
			AccountID: "a-1",
		},
		{
			Date:      time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC),
			Memo:      "Coffee",
			Amount:    10000,
			Cleared:   transaction.Uncleared,
			ImportID:  "YNAB:10000:2020-03-02:0",
			AccountID: "a-1",
		},
	}

	res, err := c.Submit(context.Background(), authorized(t), ledger.Target{BudgetID: "b-1", AccountID: "a-1"}, batch)
	require.NoError(t, err)

	assert.Equal(t, ledger.Result{Created: []string{"t-1"}, Duplicates: []string{"YNAB:10000:2020-03-02:0"}}, res)
	assert.Equal(t, int32(1), calls.Load())

	require.Len(t, got.Transactions, 2)
	assert.Equal(t, map[string]any{
		"account_id": "a-1",
		"date":       "2020-03-01",
		"amount":     float64(-50000),
		"payee_name": "Jane Doe",
		"memo":       "Invoice #4",
		"cleared":    "cleared",
		"import_id":  "YNAB:-50000:2020-03-01:0",
	}, got.Transactions[0])
	assert.Equal(t, "uncleared", got.Transactions[1]["cleared"])
	assert.Equal(t, "", got.Transactions[1]["payee_name"])
}

func TestClient_Submit_EmptyBatch(t *testing.T) {
	var calls atomic.Int32

	c := fakeLedger(t, &calls, func(w http.ResponseWriter, r *http.Request) {})

	res, err := c.Submit(context.Background(), session.New(), ledger.Target{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ledger.Result{}, res)
	assert.Zero(t, calls.Load())
}

func TestClient_Submit_Failures(t *testing.T) {
	type testCase struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"id":"400","name":"bad_request","detail":"invalid date"}}`))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Server Error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "Undecodable Body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			wantStatus: 0,
		},
	}

	batch := transaction.Batch{{Date: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), Amount: 1, ImportID: "YNAB:1:2020-03-01:0"}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32

			c := fakeLedger(t, &calls, tt.handler)

			_, err := c.Submit(context.Background(), authorized(t), ledger.Target{BudgetID: "b-1"}, batch)

			var subErr *ledger.SubmissionError
			require.True(t, errors.As(err, &subErr))
			assert.Equal(t, tt.wantStatus, subErr.StatusCode)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestClient_Submit_ExpiredSession(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls.Add(1) }))
	t.Cleanup(srv.Close)

	s, err := session.New().Authorize("token")
	require.NoError(t, err)

	expiry := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := ledger.NewClient(srv.URL, time.Second, ledger.WithClock(func() time.Time { return expiry.Add(time.Minute) }))

	_, err = c.Submit(context.Background(), s.WithExpiry(expiry), ledger.Target{BudgetID: "b"}, transaction.Batch{{}})
	assert.ErrorIs(t, err, session.ErrExpired)
	assert.Zero(t, calls.Load())
}
