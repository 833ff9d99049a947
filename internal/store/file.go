package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
	"github.com/kapu/youtube-dashboard-go/internal/util"
	"github.com/kapu/youtube-dashboard-go/pkg/errors"
)

// FileStore keeps one JSON file per calendar day under a data directory,
// the layout the dashboard originally shipped with: data/2024-05-10.json.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStorageError("failed to create data directory", "init", "", err)
	}
	logger.Info("File snapshot store ready", zap.String("dir", dir))
	return &FileStore{dir: dir, logger: logger}, nil
}

func (fs *FileStore) path(date string) string {
	return filepath.Join(fs.dir, date+".json")
}

func (fs *FileStore) Put(_ context.Context, date string, snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to encode snapshot", "put", date, err)
	}
	if err := os.WriteFile(fs.path(date), data, 0644); err != nil {
		return errors.NewStorageError("failed to write snapshot", "put", date, err)
	}
	return nil
}

func (fs *FileStore) Get(_ context.Context, date string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(fs.path(date))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageError("failed to read snapshot", "get", date, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewStorageError("failed to decode snapshot", "get", date, err)
	}
	return &snap, nil
}

func (fs *FileStore) ListDates(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, errors.NewStorageError("failed to list data directory", "list", "", err)
	}

	dates := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		date := strings.TrimSuffix(name, ".json")
		if !util.IsDay(date) {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

func (fs *FileStore) PruneOlderThan(ctx context.Context, cutoff string) error {
	dates, err := fs.ListDates(ctx)
	if err != nil {
		return err
	}

	for _, date := range dates {
		if date >= cutoff {
			continue
		}
		if err := os.Remove(fs.path(date)); err != nil {
			// one bad file must not stop the sweep
			fs.logger.Warn("Failed to remove expired snapshot",
				zap.String("date", date),
				zap.Error(err))
			continue
		}
		fs.logger.Debug("Expired snapshot removed", zap.String("date", date))
	}
	return nil
}
