package in_mem

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	"github.com/google/uuid"
)

// InMemStorer keeps runs for the lifetime of the process.
type InMemStorer struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]*storage.RunRecord
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		storage: make(map[uuid.UUID]*storage.RunRecord),
	}
}

func (s *InMemStorer) Save(ctx context.Context, run *storage.RunRecord) error {
	if run.ID == uuid.Nil {
		return fmt.Errorf("run has no id")
	}
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.storage[run.ID] = run
	slog.Info("Saved run to in-memory storage", "id", run.ID, "rows", run.Summary.Len())
	return nil
}

func (s *InMemStorer) Get(ctx context.Context, id uuid.UUID) (*storage.RunRecord, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	run, ok := s.storage[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrRunNotFound, id)
	}
	return run, nil
}

// List returns all runs, newest first.
func (s *InMemStorer) List(ctx context.Context) ([]*storage.RunRecord, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	runs := make([]*storage.RunRecord, 0, len(s.storage))
	for _, r := range s.storage {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID.String() < runs[j].ID.String()
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

func (s *InMemStorer) Close() error { return nil }
