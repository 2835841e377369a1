package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock implements it
// for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
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

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	job        JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'queued',
	report     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
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

func (s *PostgresStore) CreateRun(ctx context.Context, job model.Job) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal job")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, job, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, jobJSON, string(model.RunStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Job:       job,
		Status:    model.RunStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) UpdateRunReport(ctx context.Context, runID string, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET report = $1, updated_at = $2 WHERE id = $3`,
		reportJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run report %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var r model.Run
	var jobJSON []byte
	var reportNull *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, job, status, report, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &jobJSON, &r.Status, &reportNull, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if err := json.Unmarshal(jobJSON, &r.Job); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal job")
	}
	if reportNull != nil {
		r.Report = &model.RunReport{}
		if err := json.Unmarshal(*reportNull, r.Report); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal report")
		}
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, job, status, report, created_at, updated_at FROM runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var jobJSON []byte
		var reportNull *[]byte

		if err := rows.Scan(&r.ID, &jobJSON, &r.Status, &reportNull, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := json.Unmarshal(jobJSON, &r.Job); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal job")
		}
		if reportNull != nil {
			r.Report = &model.RunReport{}
			if err := json.Unmarshal(*reportNull, r.Report); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal report")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

// ErrRunNotFound reports whether err denotes a missing run row.
func ErrRunNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
