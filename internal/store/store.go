// Package store persists ingestion runs and their canonical results.
package store

import (
	"context"

	"github.com/sells-group/talent-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status     model.RunStatus `json:"status,omitempty"`
	SourceFile string          `json:"source_file,omitempty"`
	Limit      int             `json:"limit,omitempty"`
	Offset     int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for ingestion runs.
type Store interface {
	CreateRun(ctx context.Context, sourceFile string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	SaveResult(ctx context.Context, runID string, result *model.IngestResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
