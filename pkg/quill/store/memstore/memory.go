package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun implements store.Store.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" || r.Author == "" {
		return fmt.Errorf("%w: run id and author required", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Results = append([]store.Result(nil), r.Results...)
	s.runs[r.ID] = r
	return nil
}

// Runs implements store.Store.
func (s *Store) Runs(ctx context.Context, author string) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Run
	for _, r := range s.runs {
		if r.Author != author {
			continue
		}
		r.Results = nil
		out = append(out, r)
	}
	sortRuns(out)
	return out, nil
}

// History implements store.Store.
func (s *Store) History(ctx context.Context, author string) ([]store.Record, error) {
	s.mu.RLock()
	var runs []store.Run
	for _, r := range s.runs {
		if r.Author == author {
			runs = append(runs, r)
		}
	}
	s.mu.RUnlock()
	sortRuns(runs)

	latest := make(map[string]store.Record)
	for _, r := range runs {
		for _, res := range r.Results {
			latest[res.DocID] = store.Record{RunID: r.ID, GeneratedAt: r.GeneratedAt, Result: res}
		}
	}
	out := make([]store.Record, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocID < out[j].DocID })
	return out, nil
}

// Authors implements store.Store.
func (s *Store) Authors(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.runs {
		if _, ok := seen[r.Author]; ok {
			continue
		}
		seen[r.Author] = struct{}{}
		out = append(out, r.Author)
	}
	sort.Strings(out)
	return out, nil
}

// runs are ordered by time, then by ID (ULIDs sort chronologically)
func sortRuns(runs []store.Run) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].GeneratedAt.Equal(runs[j].GeneratedAt) {
			return runs[i].GeneratedAt.Before(runs[j].GeneratedAt)
		}
		return runs[i].ID < runs[j].ID
	})
}
