package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type fakeRecorder struct {
	results chan domain.GameResult
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{results: make(chan domain.GameResult, 8)}
}

func (f *fakeRecorder) RecordResult(ctx context.Context, result domain.GameResult) error {
	f.results <- result
	return nil
}

func (f *fakeRecorder) wait(t *testing.T) domain.GameResult {
	t.Helper()
	select {
	case r := <-f.results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatalf("no result recorded")
		return domain.GameResult{}
	}
}

type fakeDirectory struct {
	names map[string]bool
	err   error
}

func (f *fakeDirectory) Exists(ctx context.Context, name string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.names[name], nil
}

var errDirectoryDown = errors.New("directory down")

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
	last   map[string]*domain.GameState
}

func (f *fakeNotifier) Publish(code string, state *domain.GameState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		f.last = make(map[string]*domain.GameState)
	}
	f.events = append(f.events, code)
	f.last[code] = state
}

// slowNotifier records every published version and can stall chosen publishes
// to widen scheduling windows.
type slowNotifier struct {
	mu       sync.Mutex
	versions []int64
	last     *domain.GameState
	stall    func(*domain.GameState) bool
}

func (f *slowNotifier) Publish(code string, state *domain.GameState) {
	if state != nil && f.stall != nil && f.stall(state) {
		time.Sleep(50 * time.Millisecond)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if state != nil {
		f.versions = append(f.versions, state.Version)
	}
	f.last = state
}
