// Package database ships the default schema and sample data scripts for the
// AI analytics database.
package database

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

const (
	SchemaFile     = "schema.sql"
	SampleDataFile = "sample_data.sql"
	DBFile         = "ai_analytics.db"
)

// Schema contains the table and index DDL.
//
//go:embed schema.sql
var Schema string

// SampleData contains the INSERT statements for the sample rows. It expects
// Schema to have been applied.
//
//go:embed sample_data.sql
var SampleData string

// Export writes the embedded scripts into dir and returns the schema and data
// paths. Existing files are overwritten.
func Export(dir string) (schemaPath, dataPath string, err error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", fmt.Errorf("create script directory: %w", err)
	}
	schemaPath = filepath.Join(dir, SchemaFile)
	if err := os.WriteFile(schemaPath, []byte(Schema), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", schemaPath, err)
	}
	dataPath = filepath.Join(dir, SampleDataFile)
	if err := os.WriteFile(dataPath, []byte(SampleData), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", dataPath, err)
	}
	return schemaPath, dataPath, nil
}
