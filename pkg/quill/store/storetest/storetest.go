// Package storetest holds conformance tests shared by store implementations.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/store"
)

func result(id string, words int, ttr float64) store.Result {
	return store.Result{
		DocID:              id,
		FileName:           id + ".txt",
		TokenCount:         words,
		UniqueCount:        words / 2,
		LexicalWords:       words / 3,
		TTR:                ttr,
		MATTR:              ttr,
		LexicalDensity:     0.4,
		DependentClauses:   1,
		IndependentClauses: 3,
		TotalClauses:       4,
		DCR:                0.25,
	}
}

// Run exercises a fresh store returned by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("SaveAndHistory", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

		require.NoError(t, s.SaveRun(ctx, store.Run{
			ID: "01A", Author: "ana", GeneratedAt: t0, Window: 30,
			Results: []store.Result{result("2024-01-10", 100, 0.5), result("2024-02-10", 120, 0.55)},
		}))
		require.NoError(t, s.SaveRun(ctx, store.Run{
			ID: "01B", Author: "ana", GeneratedAt: t0.Add(time.Hour), Window: 30, Failures: 1,
			Results: []store.Result{result("2024-02-10", 125, 0.6), result("2024-03-10", 140, 0.62)},
		}))
		require.NoError(t, s.SaveRun(ctx, store.Run{
			ID: "01C", Author: "ben", GeneratedAt: t0,
			Results: []store.Result{result("2024-01-01", 50, 0.9)},
		}))

		hist, err := s.History(ctx, "ana")
		require.NoError(t, err)
		require.Len(t, hist, 3)
		assert.Equal(t, "2024-01-10", hist[0].DocID)
		assert.Equal(t, "01A", hist[0].RunID)
		assert.Equal(t, "2024-02-10", hist[1].DocID)
		assert.Equal(t, "01B", hist[1].RunID)
		assert.Equal(t, 125, hist[1].TokenCount)
		assert.Equal(t, 0.6, hist[1].TTR)
		assert.Equal(t, "2024-03-10.txt", hist[2].FileName)
		assert.True(t, hist[2].GeneratedAt.Equal(t0.Add(time.Hour)))

		runs, err := s.Runs(ctx, "ana")
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "01A", runs[0].ID)
		assert.Equal(t, 1, runs[1].Failures)
		assert.Equal(t, 30, runs[1].Window)
		assert.Empty(t, runs[0].Results)

		authors, err := s.Authors(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"ana", "ben"}, authors)
	})

	t.Run("SaveRunReplaces", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		run := store.Run{ID: "01X", Author: "cy", GeneratedAt: time.Now(),
			Results: []store.Result{result("a", 10, 0.1), result("b", 20, 0.2)}}
		require.NoError(t, s.SaveRun(ctx, run))
		run.Results = []store.Result{result("a", 11, 0.3)}
		require.NoError(t, s.SaveRun(ctx, run))

		hist, err := s.History(ctx, "cy")
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Equal(t, 11, hist[0].TokenCount)
	})

	t.Run("UnknownAuthor", func(t *testing.T) {
		s := open(t)
		hist, err := s.History(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Empty(t, hist)
	})

	t.Run("RejectsIncompleteRun", func(t *testing.T) {
		s := open(t)
		err := s.SaveRun(context.Background(), store.Run{Author: "ana"})
		assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
	})
}
