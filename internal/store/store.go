// Package store persists pipeline runs. Two backends share one interface:
// SQLite for local CLI use and Postgres for the API server.
package store

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for pipeline runs.
type Store interface {
	CreateRun(ctx context.Context, job model.Job) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunReport(ctx context.Context, runID string, report *model.RunReport) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
