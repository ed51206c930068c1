package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/talent-cli/internal/model"
)

func mockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgres_Migrate(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS ingest_runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err := s.Migrate(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateRun(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectExec("INSERT INTO ingest_runs").
		WithArgs(pgxmock.AnyArg(), "export.csv", "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), "export.csv")

	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateRunStatus(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectExec("UPDATE ingest_runs SET status").
		WithArgs("failed", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateRunStatus(context.Background(), "run-1", model.RunStatusFailed)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveResultCopiesEvents(t *testing.T) {
	s, mock := mockStore(t)
	result := sampleResult()

	mock.ExpectExec("UPDATE ingest_runs SET result").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCopyFrom(
		pgx.Identifier{"stage_events"},
		[]string{"event_id", "run_id", "application_id", "event_type", "event_kind", "stage", "occurred_at", "source_column", "raw_value"},
	).WillReturnResult(int64(len(result.Events)))

	err := s.SaveResult(context.Background(), "run-1", result)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveResultNoEventsSkipsCopy(t *testing.T) {
	s, mock := mockStore(t)
	result := sampleResult()
	result.Events = nil

	mock.ExpectExec("UPDATE ingest_runs SET result").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.SaveResult(context.Background(), "run-1", result)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRun(t *testing.T) {
	s, mock := mockStore(t)
	blob, err := json.Marshal(sampleResult())
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, source_file, status, result, created_at, updated_at FROM ingest_runs").
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "source_file", "status", "result", "created_at", "updated_at"},
		).AddRow("run-1", "export.csv", "complete", blob, now, now))

	run, err := s.GetRun(context.Background(), "run-1")

	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Result)
	assert.Equal(t, "export.csv", run.Result.SourceFile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRunNotFound(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectQuery("SELECT id, source_file, status, result, created_at, updated_at FROM ingest_runs").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "source_file", "status", "result", "created_at", "updated_at"},
		))

	_, err := s.GetRun(context.Background(), "ghost")

	assert.Error(t, err)
}

func TestPostgres_ListRuns(t *testing.T) {
	s, mock := mockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, source_file, status, result, created_at, updated_at FROM ingest_runs").
		WithArgs("complete", 10).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "source_file", "status", "result", "created_at", "updated_at"},
		).
			AddRow("run-2", "b.csv", "complete", []byte(nil), now, now).
			AddRow("run-1", "a.csv", "complete", []byte(nil), now.Add(-time.Hour), now))

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusComplete, Limit: 10})

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Nil(t, runs[0].Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
