package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStoreWithDB(db, nil), mock
}

func TestCreateRun_ExecError(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectExec(`INSERT INTO report_runs`).
		WillReturnError(fmt.Errorf("disk I/O error"))

	_, err := s.CreateRun("Jane Doe", "csv")
	assert.ErrorContains(t, err, "failed to create run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRun_UpdateError(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectExec(`UPDATE report_runs SET`).
		WillReturnError(fmt.Errorf("database is locked"))

	err := s.CompleteRun("run-1", RunStatusCompleted, 10, "dir", EmailSent, "")
	assert.ErrorContains(t, err, "failed to complete run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRun_NoRowsAffected(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectExec(`UPDATE report_runs SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.CompleteRun("run-1", RunStatusCompleted, 10, "dir", EmailSent, "")
	assert.ErrorContains(t, err, "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentRuns_ScanError(t *testing.T) {
	s, mock := mockStore(t)

	rows := sqlmock.NewRows([]string{"id", "person"}).AddRow("run-1", "Jane Doe")
	mock.ExpectQuery(`SELECT .+ FROM report_runs ORDER BY started_at DESC`).
		WillReturnRows(rows)

	_, err := s.RecentRuns(5)
	assert.ErrorContains(t, err, "failed to scan run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentRuns_Rows(t *testing.T) {
	s, mock := mockStore(t)

	started := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "person", "source_type", "rows_used", "charts_dir",
		"status", "email_status", "error", "started_at", "completed_at",
	}).
		AddRow("run-2", "John Smith", "sheets", 12, "dir2", "completed", "sent", "", started.Add(time.Hour), started.Add(2*time.Hour)).
		AddRow("run-1", "Jane Doe", "csv", 40, "dir1", "failed", "skipped", "smtp timeout", started, nil)

	mock.ExpectQuery(`SELECT .+ FROM report_runs ORDER BY started_at DESC`).
		WithArgs(2).
		WillReturnRows(rows)

	runs, err := s.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "John Smith", runs[0].Person)
	assert.Equal(t, RunStatusCompleted, runs[0].Status)
	assert.Equal(t, EmailSent, runs[0].EmailStatus)

	assert.Equal(t, "smtp timeout", runs[1].Error)
	assert.True(t, runs[1].CompletedAt.IsZero())
}
