// Package report renders build and verify results for the console.
package report

import (
	"fmt"
	"io"

	"github.com/Prayag-01/ai-project/db"
)

// WriteBuild prints the statistics collected by db.Build. Nothing past the
// backup line is printed unless the build got as far as counting tables.
func WriteBuild(w io.Writer, r *db.BuildResult) {
	if r == nil {
		return
	}
	if r.BackupPath != "" {
		fmt.Fprintf(w, "Previous database backed up to %s\n", r.BackupPath)
	}
	for _, p := range r.PrunedBackups {
		fmt.Fprintf(w, "Removed old backup %s\n", p)
	}
	if r.TableCounts == nil {
		return
	}
	fmt.Fprintln(w, "\n=== Database Statistics ===")
	for _, tc := range r.TableCounts {
		fmt.Fprintf(w, "%s: %d records\n", tc.Table, tc.Rows)
	}
	fmt.Fprintln(w, "\n=== Cost Summary ===")
	for _, pc := range r.ProviderCosts {
		fmt.Fprintf(w, "%s: $%.2f\n", pc.Provider, pc.TotalCost)
	}
	fmt.Fprintln(w, "\n=== AI Calls Summary ===")
	for _, pc := range r.ProductCosts {
		fmt.Fprintf(w, "%s: %d calls, $%.2f\n", pc.ProductID, pc.Calls, pc.TotalCost)
	}
}

// WriteVerify prints the top product/model combinations found by db.Verify.
func WriteVerify(w io.Writer, r *db.VerifyResult) {
	if r == nil || !r.OK {
		return
	}
	fmt.Fprintf(w, "\n=== Top %d Product-Model Combinations by Cost ===\n", r.Limit)
	for _, c := range r.TopCombinations {
		fmt.Fprintf(w, "%s + %s: %d calls, $%.2f, %.1f%% accuracy\n",
			c.ProductName, c.ModelName, c.TotalCalls, c.TotalCost, c.AvgAccuracy)
	}
}
