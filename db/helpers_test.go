package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Prayag-01/ai-project/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	gormlogger "gorm.io/gorm/logger"
)

// buildTestDB builds the shipped schema and sample data into a temp dir and returns the db path.
func buildTestDB(t *testing.T) (string, *BuildResult) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), database.DBFile)
	result, err := Build(context.Background(), BuildOptions{
		DBPath:    dbPath,
		SchemaSQL: database.Schema,
		DataSQL:   database.SampleData,
		Seed:      true,
		Logger:    zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)
	return dbPath, result
}

// openTestStore opens a gorm store on an existing database file.
func openTestStore(t *testing.T, dbPath string) *SQLStore {
	t.Helper()
	store, err := OpenStore(dbPath, zaptest.NewLogger(t).Sugar(), gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// openRawDB opens the file with database/sql directly, bypassing the store,
// so assertions do not reuse the queries under test.
func openRawDB(t *testing.T, dbPath string) *sql.DB {
	t.Helper()
	raw, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return raw
}

func tableNames(t *testing.T, raw *sql.DB) []string {
	t.Helper()
	rows, err := raw.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

// minimalSchema carries only the columns the reports need.
const minimalSchema = `
CREATE TABLE products (product_id TEXT PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE models (model_id TEXT PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE ai_call_logs (
    call_id INTEGER PRIMARY KEY AUTOINCREMENT,
    product_id TEXT NOT NULL REFERENCES products(product_id),
    api_cost_usd REAL NOT NULL
);
CREATE TABLE metrics_daily (
    metric_date DATE NOT NULL,
    product_id TEXT NOT NULL REFERENCES products(product_id),
    model_id TEXT NOT NULL REFERENCES models(model_id),
    total_ai_calls INTEGER NOT NULL,
    api_cost_usd REAL NOT NULL,
    avg_accuracy REAL
);
CREATE TABLE billing (billing_id INTEGER PRIMARY KEY AUTOINCREMENT, provider TEXT NOT NULL, cost_usd REAL NOT NULL);
`
