package store

import (
	"context"
	"sort"
	"sync"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
)

// MemoryStore is a map-backed store for tests and storage-free deployments.
// Snapshots are immutable after creation, so values are shared, not copied.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*domain.Snapshot)}
}

func (ms *MemoryStore) Put(_ context.Context, date string, snap *domain.Snapshot) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.snapshots[date] = snap
	return nil
}

func (ms *MemoryStore) Get(_ context.Context, date string) (*domain.Snapshot, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.snapshots[date], nil
}

func (ms *MemoryStore) ListDates(_ context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	dates := make([]string, 0, len(ms.snapshots))
	for date := range ms.snapshots {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

func (ms *MemoryStore) PruneOlderThan(_ context.Context, cutoff string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for date := range ms.snapshots {
		if date < cutoff {
			delete(ms.snapshots, date)
		}
	}
	return nil
}
