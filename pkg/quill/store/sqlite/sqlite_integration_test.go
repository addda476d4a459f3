package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/quill/pkg/quill/store"
	"github.com/cognicore/quill/pkg/quill/store/storetest"
)

func openTemp(t *testing.T) store.Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "quill.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteConformance(t *testing.T) {
	storetest.Run(t, openTemp)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quill.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	at := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)
	require.NoError(t, s.SaveRun(ctx, store.Run{
		ID: "01J", Author: "ana", GeneratedAt: at,
		Results: []store.Result{{DocID: "2024-09-01", TokenCount: 80, TTR: 0.7, DCR: 0.2}},
	}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	hist, err := s.History(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 80, hist[0].TokenCount)
	assert.True(t, hist[0].GeneratedAt.Equal(at))
}
