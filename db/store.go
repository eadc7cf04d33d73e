package db

import (
	"context"

	"github.com/Prayag-01/ai-project/model"
)

// Tables lists the tables whose row counts are reported after a build, in report order.
var Tables = []string{"products", "models", "ai_call_logs", "metrics_daily", "billing"}

type Store interface {
	Ping(ctx context.Context) error
	CountRows(ctx context.Context, table string) (int64, error)
	TableCounts(ctx context.Context) ([]model.TableCount, error)
	ProviderCosts(ctx context.Context) ([]model.ProviderCost, error)
	ProductCosts(ctx context.Context) ([]model.ProductCost, error)
	TopProductModels(ctx context.Context, limit int) ([]model.ProductModelCost, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListModels(ctx context.Context) ([]model.AIModel, error)
	ListCallLogs(ctx context.Context, status model.CallStatus) ([]model.CallLog, error)
	ListDailyMetrics(ctx context.Context, productID string) ([]model.DailyMetric, error)
	ListBilling(ctx context.Context) ([]model.BillingEntry, error)
}
