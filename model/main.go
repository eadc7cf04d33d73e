package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type CallStatus string

const (
	CallSucceeded CallStatus = "success"
	CallFailed    CallStatus = "error"
	CallTimedOut  CallStatus = "timeout"
)

// IsValid returns true if CallStatus is known
func (s CallStatus) IsValid() bool {
	switch s {
	case CallSucceeded, CallFailed, CallTimedOut:
		return true
	}
	return false
}

func (s *CallStatus) Scan(value any) error {
	switch v := value.(type) {
	case string:
		*s = CallStatus(v)
	case []byte:
		*s = CallStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into CallStatus", value)
	}
	return nil
}

func (s CallStatus) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid CallStatus %q", s)
	}
	return string(s), nil
}

// A Product is one of the dashboard's AI-backed products (wrapportal, kinetic, ...).
// product_id is a short slug, not a surrogate key.
type Product struct {
	ProductID   string     `gorm:"column:product_id;primaryKey" json:"product_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func (Product) TableName() string { return "products" }

// An AIModel is an LLM offered by a provider, with per-1k token list prices.
type AIModel struct {
	ModelID               string  `gorm:"column:model_id;primaryKey" json:"model_id"`
	Name                  string  `json:"name"`
	Provider              string  `json:"provider"`
	CostPer1kInputTokens  float64 `gorm:"column:cost_per_1k_input_tokens" json:"cost_per_1k_input_tokens"`
	CostPer1kOutputTokens float64 `gorm:"column:cost_per_1k_output_tokens" json:"cost_per_1k_output_tokens"`
}

func (AIModel) TableName() string { return "models" }

// A CallLog is a single AI call made on behalf of a product.
type CallLog struct {
	CallID       uint       `gorm:"column:call_id;primaryKey" json:"call_id"`
	ProductID    string     `gorm:"column:product_id" json:"product_id"`
	ModelID      string     `gorm:"column:model_id" json:"model_id"`
	CalledAt     time.Time  `json:"called_at"`
	DocumentType *string    `json:"document_type,omitempty"`
	InputTokens  int64      `json:"input_tokens"`
	OutputTokens int64      `json:"output_tokens"`
	LatencyMS    *int64     `gorm:"column:latency_ms" json:"latency_ms,omitempty"`
	APICostUSD   float64    `gorm:"column:api_cost_usd" json:"api_cost_usd"`
	Accuracy     *float64   `json:"accuracy,omitempty"`
	Status       CallStatus `gorm:"type:text" json:"status"`
}

func (CallLog) TableName() string { return "ai_call_logs" }

// DailyMetric is the per day, per product, per model rollup of CallLog rows.
type DailyMetric struct {
	MetricDate      time.Time `gorm:"column:metric_date;primaryKey" json:"metric_date"`
	ProductID       string    `gorm:"column:product_id;primaryKey" json:"product_id"`
	ModelID         string    `gorm:"column:model_id;primaryKey" json:"model_id"`
	TotalAICalls    int64     `gorm:"column:total_ai_calls" json:"total_ai_calls"`
	SuccessfulCalls int64     `json:"successful_calls"`
	APICostUSD      float64   `gorm:"column:api_cost_usd" json:"api_cost_usd"`
	AvgAccuracy     *float64  `gorm:"column:avg_accuracy" json:"avg_accuracy,omitempty"`
	AvgLatencyMS    *float64  `gorm:"column:avg_latency_ms" json:"avg_latency_ms,omitempty"`
}

func (DailyMetric) TableName() string { return "metrics_daily" }

// A BillingEntry is one provider invoice line for a billing period (YYYY-MM).
type BillingEntry struct {
	BillingID     uint    `gorm:"column:billing_id;primaryKey" json:"billing_id"`
	Provider      string  `json:"provider"`
	Category      string  `json:"category"`
	BillingPeriod string  `json:"billing_period"`
	CostUSD       float64 `gorm:"column:cost_usd" json:"cost_usd"`
}

func (BillingEntry) TableName() string { return "billing" }

// TableCount is the number of rows found in one table after a build.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// ProviderCost is one line of the cost-by-provider report.
type ProviderCost struct {
	Provider  string  `json:"provider"`
	TotalCost float64 `json:"total_cost_usd"`
}

// ProductCost is one line of the AI calls summary, keyed by product_id.
type ProductCost struct {
	ProductID string  `json:"product_id"`
	Calls     int64   `json:"calls"`
	TotalCost float64 `json:"total_cost_usd"`
}

// ProductModelCost aggregates metrics_daily rollups for one product and model pair.
type ProductModelCost struct {
	ProductName string  `json:"product_name"`
	ModelName   string  `json:"model_name"`
	TotalCalls  int64   `json:"total_calls"`
	TotalCost   float64 `json:"total_cost_usd"`
	AvgAccuracy float64 `json:"avg_accuracy"`
}
