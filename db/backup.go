package db

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	backupFileExt    = ".bak"
	backupTimeLayout = "20060102-150405"
)

// BackupDatabase copies an existing database file to
// <dbPath>.<YYYYMMDD-HHMMSS>.bak and prunes older backups so that at most
// keep remain. It returns the new backup path ("" when there was no database
// to back up) and the backups it removed.
func BackupDatabase(dbPath string, keep int, log *zap.SugaredLogger) (string, []string, error) {
	log = loggerOrNop(log)
	info, err := os.Stat(dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	if !info.Mode().IsRegular() {
		return "", nil, fmt.Errorf("%s is not a regular file", dbPath)
	}

	backupPath := backupName(dbPath, time.Now())
	if err := copyDatabase(dbPath, backupPath, info.Mode().Perm()); err != nil {
		return "", nil, fmt.Errorf("failed to create DB backup: %w", err)
	}
	log.Infow("existing database backed up", "backup", backupPath, "bytes", info.Size())

	pruned, err := pruneOldBackups(dbPath, keep, log)
	if err != nil {
		log.Warnw("failed to prune old backups", "path", dbPath, "error", err)
	}
	return backupPath, pruned, nil
}

func backupName(dbPath string, at time.Time) string {
	return fmt.Sprintf("%s.%s%s", dbPath, at.Format(backupTimeLayout), backupFileExt)
}

// copyDatabase writes src to a temporary file beside dst and renames it into
// place once synced.
func copyDatabase(src, dst string, perm fs.FileMode) (err error) {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	tmp := dst + ".tmp"
	destination, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = destination.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(destination, source); err != nil {
		return err
	}
	if err = destination.Sync(); err != nil {
		return err
	}
	if err = destination.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

// listBackups returns the backups of dbPath oldest first. Files whose suffix
// is not a backup timestamp are ignored.
func listBackups(dbPath string) ([]string, error) {
	dir := filepath.Dir(dbPath)
	prefix := filepath.Base(dbPath) + "."
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var backups []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, backupFileExt) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), backupFileExt)
		if _, err := time.Parse(backupTimeLayout, stamp); err != nil {
			continue
		}
		backups = append(backups, filepath.Join(dir, name))
	}
	slices.Sort(backups)
	return backups, nil
}

// pruneOldBackups removes all but the keep newest backups of dbPath and
// returns the paths it removed.
func pruneOldBackups(dbPath string, keep int, log *zap.SugaredLogger) ([]string, error) {
	log = loggerOrNop(log)
	backups, err := listBackups(dbPath)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}
	if keep < 1 {
		keep = 1
	}
	if len(backups) <= keep {
		return nil, nil
	}

	var removed []string
	var errs []error
	for _, file := range backups[:len(backups)-keep] {
		if err := os.Remove(file); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Infow("removed old backup", "backup", file)
		removed = append(removed, file)
	}
	return removed, errors.Join(errs...)
}
