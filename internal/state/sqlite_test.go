package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(nil)
	path := filepath.Join(t.TempDir(), "state.db")
	require.NoError(t, s.Open(path))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun("Jane Doe", "csv")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, EmailSkipped, run.EmailStatus)

	err = s.CompleteRun(run.ID, RunStatusCompleted, 42, "output/charts/jane_doe_2026-01-31", EmailSent, "")
	require.NoError(t, err)

	got, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Person)
	assert.Equal(t, "csv", got.SourceType)
	assert.Equal(t, 42, got.RowsUsed)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, EmailSent, got.EmailStatus)
	assert.Empty(t, got.Error)
	assert.False(t, got.CompletedAt.IsZero())
}

func TestSQLiteStore_FailedRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun("Jane Doe", "sheets")
	require.NoError(t, err)

	err = s.CompleteRun(run.ID, RunStatusFailed, 0, "", EmailSkipped, "fetch failed")
	require.NoError(t, err)

	got, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, "fetch failed", got.Error)
}

func TestSQLiteStore_CompleteUnknownRun(t *testing.T) {
	s := openTestStore(t)

	err := s.CompleteRun("no-such-id", RunStatusCompleted, 0, "", EmailSkipped, "")
	assert.ErrorContains(t, err, "run not found")
}

func TestSQLiteStore_GetUnknownRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun("no-such-id")
	assert.ErrorContains(t, err, "run not found")
}

func TestSQLiteStore_RecentRuns(t *testing.T) {
	s := openTestStore(t)

	for _, person := range []string{"Jane Doe", "John Smith", "Janet Ray"} {
		_, err := s.CreateRun(person, "csv")
		require.NoError(t, err)
	}

	runs, err := s.RecentRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	all, err := s.RecentRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s := NewSQLiteStore(nil)
	require.NoError(t, s.Open(":memory:"))
	defer s.Close()
	require.NoError(t, s.Migrate())

	run, err := s.CreateRun("Jane Doe", "csv")
	require.NoError(t, err)

	got, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	s := NewSQLiteStore(nil)

	_, err := s.CreateRun("Jane Doe", "csv")
	assert.ErrorContains(t, err, "not opened")

	_, err = s.RecentRuns(5)
	assert.ErrorContains(t, err, "not opened")
}
