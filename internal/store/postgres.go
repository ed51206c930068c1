package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/talent-cli/internal/db"
	"github.com/sells-group/talent-cli/internal/model"
)

// PostgresStore implements Store using pgxpool. Beyond the run/result blob,
// it materializes the event table relationally so downstream SQL can query
// the funnel directly.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ingest_runs (
	id          TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'queued',
	result      JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stage_events (
	event_id       TEXT NOT NULL,
	run_id         TEXT NOT NULL REFERENCES ingest_runs(id),
	application_id TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	event_kind     TEXT NOT NULL,
	stage          TEXT,
	occurred_at    TIMESTAMPTZ NOT NULL,
	source_column  TEXT,
	raw_value      TEXT,
	PRIMARY KEY (run_id, event_id)
);

CREATE INDEX IF NOT EXISTS idx_ingest_runs_status ON ingest_runs(status);
CREATE INDEX IF NOT EXISTS idx_stage_events_app ON stage_events(application_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// CreateRun inserts a new queued ingestion run.
func (s *PostgresStore) CreateRun(ctx context.Context, sourceFile string) (*model.Run, error) {
	run := &model.Run{
		ID:         uuid.NewString(),
		SourceFile: sourceFile,
		Status:     model.RunStatusQueued,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO ingest_runs (id, source_file, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.SourceFile, string(run.Status), run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create run")
	}
	return run, nil
}

// UpdateRunStatus transitions a run's status.
func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE ingest_runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	return eris.Wrap(err, "postgres: update run status")
}

// SaveResult stores the result blob and bulk-copies the event table.
func (s *PostgresStore) SaveResult(ctx context.Context, runID string, result *model.IngestResult) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE ingest_runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		blob, string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: save result")
	}

	rows := make([][]any, 0, len(result.Events))
	for _, e := range result.Events {
		rows = append(rows, []any{
			e.EventID, runID, e.ApplicationID, string(e.Type), string(e.Kind),
			e.Stage, e.OccurredAt, e.Trace.SourceColumn, e.Trace.RawValue,
		})
	}
	_, err = db.CopyFrom(ctx, s.pool, "stage_events",
		[]string{"event_id", "run_id", "application_id", "event_type", "event_kind", "stage", "occurred_at", "source_column", "raw_value"},
		rows,
	)
	return eris.Wrap(err, "postgres: copy events")
}

// GetRun fetches one run with its result, if any.
func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source_file, status, result, created_at, updated_at FROM ingest_runs WHERE id = $1`, runID)

	run, err := scanPgRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(err, "postgres: get run %s", runID)
		}
		return nil, eris.Wrap(err, "postgres: get run")
	}
	return run, nil
}

// ListRuns returns runs matching the filter, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source_file, status, result, created_at, updated_at FROM ingest_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	if filter.SourceFile != "" {
		args = append(args, filter.SourceFile)
		query += ` AND source_file = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func scanPgRun(row pgx.Row) (*model.Run, error) {
	var run model.Run
	var status string
	var blob []byte

	if err := row.Scan(&run.ID, &run.SourceFile, &status, &blob, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)

	if len(blob) > 0 {
		var r model.IngestResult
		if err := json.Unmarshal(blob, &r); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
		run.Result = &r
	}
	return &run, nil
}
