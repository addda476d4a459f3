package store

import (
	"context"
	"time"
)

// Store persists finished analysis runs for longitudinal history.
type Store interface {
	Close() error

	// SaveRun records one author's run. Saving a run ID twice replaces it.
	SaveRun(ctx context.Context, r Run) error
	// Runs lists an author's runs, oldest first, without their results.
	Runs(ctx context.Context, author string) ([]Run, error)
	// History returns, per document identifier, the result of the author's
	// most recent run that analyzed it, ordered by identifier.
	History(ctx context.Context, author string) ([]Record, error)
	// Authors lists every author with at least one run.
	Authors(ctx context.Context) ([]string, error)
}

// Run is one author's analysis run.
type Run struct {
	ID          string
	Author      string
	GeneratedAt time.Time
	Window      int
	Results     []Result
	Failures    int
}

// Result is one stored per-document result.
type Result struct {
	DocID              string
	FileName           string
	TokenCount         int
	UniqueCount        int
	LexicalWords       int
	TTR                float64
	MATTR              float64
	LexicalDensity     float64
	DependentClauses   int
	IndependentClauses int
	TotalClauses       int
	DCR                float64
}

// Record is a stored result with the run it came from.
type Record struct {
	RunID       string
	GeneratedAt time.Time
	Result
}
