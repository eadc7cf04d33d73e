package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Prayag-01/ai-project/database"
	"github.com/Prayag-01/ai-project/db"
	"github.com/Prayag-01/ai-project/model"
)

// setupTestStore builds the sample database in a temp dir and opens a store on it.
func setupTestStore(t *testing.T) *db.SQLStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), database.DBFile)
	_, err := db.Build(context.Background(), db.BuildOptions{
		DBPath:    dbPath,
		SchemaSQL: database.Schema,
		DataSQL:   database.SampleData,
		Seed:      true,
	})
	require.NoError(t, err)

	store, err := db.OpenStore(dbPath, nil, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestReportServer(t *testing.T) {
	store := setupTestStore(t)
	h := New(store, zaptest.NewLogger(t).Sugar(), 0).Handler()
	ctx := context.Background()

	t.Run("healthz", func(t *testing.T) {
		rec := get(t, h, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("tables match the store", func(t *testing.T) {
		rec := get(t, h, "/api/v1/tables")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []model.TableCount
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		want, err := store.TableCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("provider costs", func(t *testing.T) {
		rec := get(t, h, "/api/v1/costs/providers")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var got []model.ProviderCost
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.NotEmpty(t, got)
		assert.Equal(t, "OpenAI", got[0].Provider)
		assert.InDelta(t, 3050.0, got[0].TotalCost, 1e-9)
	})

	t.Run("product costs match the store", func(t *testing.T) {
		rec := get(t, h, "/api/v1/costs/products")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []model.ProductCost
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		want, err := store.ProductCosts(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("top uses the default limit", func(t *testing.T) {
		rec := get(t, h, "/api/v1/metrics/top")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []model.ProductModelCost
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, db.DefaultTopLimit)
	})

	t.Run("top honours the limit parameter", func(t *testing.T) {
		rec := get(t, h, "/api/v1/metrics/top?limit=3")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []model.ProductModelCost
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 3)
		assert.Equal(t, "Asureify", got[0].ProductName)
	})

	t.Run("top rejects bad limits", func(t *testing.T) {
		for _, q := range []string{"0", "-1", "101", "five"} {
			rec := get(t, h, "/api/v1/metrics/top?limit="+q)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", q)
		}
	})

	t.Run("products and models", func(t *testing.T) {
		rec := get(t, h, "/api/v1/products")
		require.Equal(t, http.StatusOK, rec.Code)
		var products []model.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		assert.Len(t, products, 6)

		rec = get(t, h, "/api/v1/models")
		require.Equal(t, http.StatusOK, rec.Code)
		var models []model.AIModel
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &models))
		assert.Len(t, models, 4)
	})

	t.Run("call logs by status", func(t *testing.T) {
		rec := get(t, h, "/api/v1/calls?status=timeout")
		require.Equal(t, http.StatusOK, rec.Code)
		var logs []model.CallLog
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
		require.Len(t, logs, 1)
		assert.Equal(t, model.CallTimedOut, logs[0].Status)
		assert.Equal(t, "kinetic", logs[0].ProductID)

		rec = get(t, h, "/api/v1/calls")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
		assert.Len(t, logs, 18)

		rec = get(t, h, "/api/v1/calls?status=pending")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("daily metrics by product", func(t *testing.T) {
		rec := get(t, h, "/api/v1/metrics/daily?product=wrapportal")
		require.Equal(t, http.StatusOK, rec.Code)
		var metrics []model.DailyMetric
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
		require.Len(t, metrics, 5)
		for _, m := range metrics {
			assert.Equal(t, "wrapportal", m.ProductID)
		}
	})

	t.Run("billing", func(t *testing.T) {
		rec := get(t, h, "/api/v1/billing")
		require.Equal(t, http.StatusOK, rec.Code)
		var entries []model.BillingEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		assert.Len(t, entries, 7)
	})

	t.Run("only GET is allowed", func(t *testing.T) {
		for _, path := range []string{"/healthz", "/api/v1/tables", "/api/v1/billing"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
			assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"), path)
		}
	})
}

// failingStore returns errOffline from every query.
type failingStore struct{ db.Store }

var errOffline = errors.New("database offline")

func (failingStore) Ping(context.Context) error { return errOffline }
func (failingStore) ProviderCosts(context.Context) ([]model.ProviderCost, error) {
	return nil, errOffline
}

func TestReportServerErrors(t *testing.T) {
	h := New(failingStore{}, zaptest.NewLogger(t).Sugar(), 5).Handler()

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, h, "/api/v1/costs/providers")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), errOffline.Error())
}

func TestRunStopsOnCancel(t *testing.T) {
	store := setupTestStore(t)
	srv := New(store, zaptest.NewLogger(t).Sugar(), 5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
