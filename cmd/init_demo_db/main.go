package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"github.com/Prayag-01/ai-project/database"
	"github.com/Prayag-01/ai-project/db"
	"github.com/Prayag-01/ai-project/logging"
)

func main() {
	dbPath := flag.String("db", filepath.Join("database", database.DBFile), "Path to SQLite database file")
	flag.Parse()

	logger, err := logging.New("info", "console")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize an empty database: schema only, no sample rows.
	_, err = db.Build(context.Background(), db.BuildOptions{
		DBPath:    *dbPath,
		SchemaSQL: database.Schema,
		Seed:      false,
		Logger:    logger.Sugar(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	log.Printf("Demo database initialized successfully at %s", *dbPath)
	log.Println("Schema created. No sample data loaded.")
}
