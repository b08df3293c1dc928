package memory

import (
	"context"
	"sync"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type HistoryRepo struct {
	mu      sync.RWMutex
	entries map[int64][]domain.HistoryEntry
}

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{entries: make(map[int64][]domain.HistoryEntry)}
}

func (r *HistoryRepo) AddEntry(ctx context.Context, userID int64, entry domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = append(r.entries[userID], entry)
	return nil
}

func (r *HistoryRepo) ListByUser(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]domain.HistoryEntry, 0, len(r.entries[userID])), r.entries[userID]...), nil
}
