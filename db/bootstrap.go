package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Prayag-01/ai-project/model"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const DefaultMaxBackups = 5

// BuildOptions configures Build. SchemaSQL and DataSQL, when set, are used
// instead of reading SchemaPath and DataPath.
type BuildOptions struct {
	DBPath     string
	SchemaPath string
	DataPath   string
	SchemaSQL  string
	DataSQL    string
	// Seed applies the data script after the schema. With Seed false only the
	// schema is created and the data script is never read.
	Seed       bool
	Backup     bool
	MaxBackups int
	Logger     *zap.SugaredLogger
	SQLLogMode gormlogger.LogLevel
}

// BuildResult is what a build produced. Fields after the failing step are left empty.
type BuildResult struct {
	DBPath        string
	BackupPath    string
	PrunedBackups []string
	TableCounts   []model.TableCount
	ProviderCosts []model.ProviderCost
	ProductCosts  []model.ProductCost
}

type script struct {
	kind string
	sql  string
}

// Build recreates the database at opts.DBPath: any existing file is removed,
// the schema and data scripts run in a single transaction, and summary
// statistics are collected from the committed database. A failing script
// rolls the whole transaction back. The connection is always closed before
// Build returns.
func Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	log := loggerOrNop(opts.Logger)
	result := &BuildResult{DBPath: opts.DBPath}
	if opts.DBPath == "" {
		return result, fmt.Errorf("build: database path is empty")
	}

	// Scripts are read before the old database is touched so a bad path never
	// costs the previous build.
	scripts := make([]script, 0, 2)
	schemaSQL, err := loadScript("schema", opts.SchemaSQL, opts.SchemaPath)
	if err != nil {
		return result, err
	}
	scripts = append(scripts, script{kind: "schema", sql: schemaSQL})
	if opts.Seed {
		dataSQL, err := loadScript("data", opts.DataSQL, opts.DataPath)
		if err != nil {
			return result, err
		}
		scripts = append(scripts, script{kind: "data", sql: dataSQL})
	}

	if opts.Backup {
		maxBackups := opts.MaxBackups
		if maxBackups <= 0 {
			maxBackups = DefaultMaxBackups
		}
		backupPath, pruned, err := BackupDatabase(opts.DBPath, maxBackups, log)
		if err != nil {
			return result, fmt.Errorf("build: backup: %w", err)
		}
		result.BackupPath = backupPath
		result.PrunedBackups = pruned
	}

	if err := removeDatabase(opts.DBPath, log); err != nil {
		return result, err
	}

	gdb, err := openSQLite(opts.DBPath, log, opts.SQLLogMode)
	if err != nil {
		return result, err
	}
	defer closeSQLite(gdb, log)

	err = gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range scripts {
			log.Infof("applying %s script", s.kind)
			if err := tx.Exec(s.sql).Error; err != nil {
				return classifyScriptError("execute "+s.kind+" script", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorw("error creating database, transaction rolled back", "path", opts.DBPath, "error", err)
		return result, fmt.Errorf("build: %w", err)
	}
	log.Infow("database created successfully", "path", opts.DBPath)

	store := NewSQLStore(gdb)
	if result.TableCounts, err = store.TableCounts(ctx); err != nil {
		return result, fmt.Errorf("build: statistics: %w", err)
	}
	if result.ProviderCosts, err = store.ProviderCosts(ctx); err != nil {
		return result, fmt.Errorf("build: statistics: %w", err)
	}
	if result.ProductCosts, err = store.ProductCosts(ctx); err != nil {
		return result, fmt.Errorf("build: statistics: %w", err)
	}
	return result, nil
}

func loadScript(kind, inline, path string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if path == "" {
		return "", fmt.Errorf("read %s script: %w: no path given", kind, ErrScriptNotFound)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s script %s: %w: %w", kind, path, ErrScriptNotFound, err)
	}
	return string(b), nil
}

// removeDatabase deletes dbPath along with any journal files SQLite left next to it.
func removeDatabase(dbPath string, log *zap.SugaredLogger) error {
	for _, p := range []string{dbPath, dbPath + "-journal", dbPath + "-wal", dbPath + "-shm"} {
		err := os.Remove(p)
		if err == nil {
			if p == dbPath {
				log.Infow("removed existing database", "path", dbPath)
			}
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

// openSQLite opens (creating if needed) the SQLite file at path with foreign
// keys enforced.
func openSQLite(path string, log *zap.SugaredLogger, mode gormlogger.LogLevel) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	if mode == 0 {
		mode = gormlogger.Silent
	}
	gdb, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger: NewGormZapLogger(log.Desugar(), mode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open DB %s: %w", path, err)
	}
	return gdb, nil
}

var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// sqliteDSN returns a file: URI for path with foreign keys enforced. The
// driver splits a plain DSN at the first '?', so the path is always escaped.
func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "//") {
		path = "/" + strings.TrimLeft(path, "/")
	}
	return "file:" + uriPathEscaper.Replace(path) + "?_foreign_keys=on"
}

func closeSQLite(gdb *gorm.DB, log *zap.SugaredLogger) {
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Warnw("failed to get sql.DB for close", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warnw("failed to close database", "error", err)
	}
}

func loggerOrNop(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}
