package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/Prayag-01/ai-project/model"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const DefaultTopLimit = 5

type VerifyOptions struct {
	DBPath string
	// Limit caps the number of product/model pairs returned. Defaults to DefaultTopLimit.
	Limit      int
	Logger     *zap.SugaredLogger
	SQLLogMode gormlogger.LogLevel
}

type VerifyResult struct {
	DBPath          string
	OK              bool
	Limit           int
	TopCombinations []model.ProductModelCost
}

// Verify opens an existing database and runs the top product/model cost report
// against it. A missing file yields OK=false and ErrDatabaseNotFound; the file
// is never created.
func Verify(ctx context.Context, opts VerifyOptions) (*VerifyResult, error) {
	log := loggerOrNop(opts.Logger)
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	result := &VerifyResult{DBPath: opts.DBPath, Limit: limit}

	store, err := OpenStore(opts.DBPath, log, opts.SQLLogMode)
	if err != nil {
		if errors.Is(err, ErrDatabaseNotFound) {
			log.Errorw("database file not found", "path", opts.DBPath)
		}
		return result, fmt.Errorf("verify: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	rows, err := store.TopProductModels(ctx, limit)
	if err != nil {
		log.Errorw("database verification failed", "path", opts.DBPath, "error", err)
		return result, fmt.Errorf("verify: %w", err)
	}
	result.TopCombinations = rows
	result.OK = true
	return result, nil
}
