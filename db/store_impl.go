package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/Prayag-01/ai-project/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	providerCostsQuery = `
		SELECT provider, COALESCE(SUM(cost_usd), 0) AS total_cost
		FROM billing
		GROUP BY provider
		ORDER BY total_cost DESC`

	productCostsQuery = `
		SELECT product_id, COUNT(*) AS calls, COALESCE(SUM(api_cost_usd), 0) AS total_cost
		FROM ai_call_logs
		GROUP BY product_id
		ORDER BY total_cost DESC`

	topProductModelsQuery = `
		SELECT
			p.name AS product_name,
			m.name AS model_name,
			COALESCE(SUM(md.total_ai_calls), 0) AS total_calls,
			COALESCE(SUM(md.api_cost_usd), 0) AS total_cost,
			COALESCE(AVG(md.avg_accuracy), 0) AS avg_accuracy
		FROM metrics_daily md
		JOIN products p ON md.product_id = p.product_id
		JOIN models m ON md.model_id = m.model_id
		GROUP BY p.product_id, m.model_id
		ORDER BY total_cost DESC
		LIMIT ?`
)

type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenStore opens an existing database file for reporting. Unlike Build it
// never creates the file.
func OpenStore(path string, log *zap.SugaredLogger, mode gormlogger.LogLevel) (*SQLStore, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, ErrDatabaseNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	gdb, err := openSQLite(path, loggerOrNop(log), mode)
	if err != nil {
		return nil, err
	}
	return NewSQLStore(gdb), nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the underlying database connection is healthy.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sql store is not initialized")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// CountRows returns the number of rows in table, which must be one of Tables.
func (s *SQLStore) CountRows(ctx context.Context, table string) (int64, error) {
	if !slices.Contains(Tables, table) {
		return 0, fmt.Errorf("count rows: %w: %q", ErrUnknownTable, table)
	}
	var count int64
	if err := s.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
		return 0, queryError("count "+table, err)
	}
	return count, nil
}

// TableCounts returns a row count for every entry of Tables, in the same order.
func (s *SQLStore) TableCounts(ctx context.Context) ([]model.TableCount, error) {
	counts := make([]model.TableCount, 0, len(Tables))
	for _, table := range Tables {
		n, err := s.CountRows(ctx, table)
		if err != nil {
			return counts, err
		}
		counts = append(counts, model.TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// ProviderCosts sums billing.cost_usd per provider, highest total first.
func (s *SQLStore) ProviderCosts(ctx context.Context) ([]model.ProviderCost, error) {
	var rows []model.ProviderCost
	if err := s.db.WithContext(ctx).Raw(providerCostsQuery).Scan(&rows).Error; err != nil {
		return nil, queryError("provider costs", err)
	}
	return rows, nil
}

// ProductCosts counts calls and sums api_cost_usd per product, highest total first.
func (s *SQLStore) ProductCosts(ctx context.Context) ([]model.ProductCost, error) {
	var rows []model.ProductCost
	if err := s.db.WithContext(ctx).Raw(productCostsQuery).Scan(&rows).Error; err != nil {
		return nil, queryError("product costs", err)
	}
	return rows, nil
}

// TopProductModels joins the daily rollups to products and models and returns
// at most limit product/model pairs ordered by total cost. Ties come back in
// whatever order SQLite produces.
func (s *SQLStore) TopProductModels(ctx context.Context, limit int) ([]model.ProductModelCost, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("top product models: limit must be positive, got %d", limit)
	}
	var rows []model.ProductModelCost
	if err := s.db.WithContext(ctx).Raw(topProductModelsQuery, limit).Scan(&rows).Error; err != nil {
		return nil, queryError("top product models", err)
	}
	return rows, nil
}

// ListProducts returns all products ordered by product_id.
func (s *SQLStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.db.WithContext(ctx).Order("product_id").Find(&products).Error; err != nil {
		return nil, queryError("list products", err)
	}
	return products, nil
}

// ListModels returns all models ordered by provider, then model_id.
func (s *SQLStore) ListModels(ctx context.Context) ([]model.AIModel, error) {
	var models []model.AIModel
	if err := s.db.WithContext(ctx).Order("provider").Order("model_id").Find(&models).Error; err != nil {
		return nil, queryError("list models", err)
	}
	return models, nil
}

// ListCallLogs returns call logs in call order. An empty status returns every
// call; any other value must be a valid CallStatus.
func (s *SQLStore) ListCallLogs(ctx context.Context, status model.CallStatus) ([]model.CallLog, error) {
	q := s.db.WithContext(ctx).Order("called_at").Order("call_id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var logs []model.CallLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, queryError("list call logs", err)
	}
	return logs, nil
}

// ListDailyMetrics returns the daily rollups ordered by date, product and
// model, optionally restricted to one product.
func (s *SQLStore) ListDailyMetrics(ctx context.Context, productID string) ([]model.DailyMetric, error) {
	q := s.db.WithContext(ctx).Order("metric_date").Order("product_id").Order("model_id")
	if productID != "" {
		q = q.Where("product_id = ?", productID)
	}
	var metrics []model.DailyMetric
	if err := q.Find(&metrics).Error; err != nil {
		return nil, queryError("list daily metrics", err)
	}
	return metrics, nil
}

// ListBilling returns billing lines ordered by period, provider and id.
func (s *SQLStore) ListBilling(ctx context.Context) ([]model.BillingEntry, error) {
	var entries []model.BillingEntry
	if err := s.db.WithContext(ctx).Order("billing_period").Order("provider").Order("billing_id").Find(&entries).Error; err != nil {
		return nil, queryError("list billing", err)
	}
	return entries, nil
}
