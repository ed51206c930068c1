package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/talent-cli/internal/fetcher"
	"github.com/sells-group/talent-cli/internal/ingest"
	"github.com/sells-group/talent-cli/internal/model"
)

// loadResult resolves the canonical tables a read-only command operates on:
// either a persisted run by ID or a fresh ingestion of a file.
func loadResult(ctx context.Context, runID, file string) (*model.IngestResult, error) {
	switch {
	case runID != "" && file != "":
		return nil, eris.New("specify either --run or --file, not both")
	case runID != "":
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return nil, err
		}
		run, err := st.GetRun(ctx, runID)
		if err != nil {
			return nil, eris.Wrapf(err, "load run %s", runID)
		}
		if run.Result == nil {
			return nil, eris.Errorf("run %s has no stored result", runID)
		}
		return run.Result, nil
	case file != "":
		doc, err := fetcher.ReadFile(file, fetcher.Options{TrimHeaders: cfg.Ingest.TrimHeaders})
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", file)
		}
		return ingest.Ingest(doc, ingest.Options{MaxRows: cfg.Ingest.MaxRows}), nil
	default:
		return nil, eris.New("one of --run or --file is required")
	}
}
