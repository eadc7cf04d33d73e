package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Prayag-01/ai-project/db"
	"github.com/Prayag-01/ai-project/model"
	"github.com/stretchr/testify/assert"
)

func TestWriteBuild(t *testing.T) {
	var buf bytes.Buffer
	WriteBuild(&buf, &db.BuildResult{
		TableCounts: []model.TableCount{{Table: "billing", Rows: 3}},
		ProviderCosts: []model.ProviderCost{
			{Provider: "OpenAI", TotalCost: 15},
			{Provider: "Anthropic", TotalCost: 8},
		},
		ProductCosts: []model.ProductCost{{ProductID: "asureify", Calls: 4, TotalCost: 0.509}},
	})
	out := buf.String()

	assert.Contains(t, out, "=== Database Statistics ===\nbilling: 3 records\n")
	assert.Contains(t, out, "OpenAI: $15.00\nAnthropic: $8.00\n")
	assert.Less(t, strings.Index(out, "OpenAI"), strings.Index(out, "Anthropic"))
	assert.Contains(t, out, "asureify: 4 calls, $0.51\n")
	assert.NotContains(t, out, "backed up")
}

func TestWriteBuildPartial(t *testing.T) {
	var buf bytes.Buffer
	WriteBuild(&buf, &db.BuildResult{
		BackupPath:    "a.db.20240103-000000.bak",
		PrunedBackups: []string{"a.db.20240101-000000.bak"},
	})
	assert.Equal(t,
		"Previous database backed up to a.db.20240103-000000.bak\nRemoved old backup a.db.20240101-000000.bak\n",
		buf.String())

	buf.Reset()
	WriteBuild(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestWriteBuildEmptyReports(t *testing.T) {
	var buf bytes.Buffer
	WriteBuild(&buf, &db.BuildResult{
		TableCounts: []model.TableCount{{Table: "products", Rows: 0}, {Table: "billing", Rows: 0}},
	})
	assert.Equal(t,
		"\n=== Database Statistics ===\nproducts: 0 records\nbilling: 0 records\n"+
			"\n=== Cost Summary ===\n"+
			"\n=== AI Calls Summary ===\n",
		buf.String())
}

func TestWriteVerify(t *testing.T) {
	var buf bytes.Buffer
	WriteVerify(&buf, &db.VerifyResult{
		OK:    true,
		Limit: 5,
		TopCombinations: []model.ProductModelCost{
			{ProductName: "Asureify", ModelName: "GPT-4", TotalCalls: 5350, TotalCost: 1284.9, AvgAccuracy: 95.4},
		},
	})
	assert.Equal(t,
		"\n=== Top 5 Product-Model Combinations by Cost ===\nAsureify + GPT-4: 5350 calls, $1284.90, 95.4% accuracy\n",
		buf.String())

	buf.Reset()
	WriteVerify(&buf, &db.VerifyResult{OK: false})
	assert.Empty(t, buf.String())
}
