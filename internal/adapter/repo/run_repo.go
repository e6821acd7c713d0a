package repo

import (
	"context"
	"fmt"
	"time"

	"dreamworld/internal/domain"
	"dreamworld/internal/infra"
	"dreamworld/internal/sqlinline"
)

// RunRepositoryPG implements domain.RunRepository on Postgres.
type RunRepositoryPG struct {
	db infra.SQLExecutor
}

// NewRunRepository creates a run repository over the marker-checked executor.
func NewRunRepository(db infra.SQLExecutor) *RunRepositoryPG {
	return &RunRepositoryPG{db: db}
}

// Record inserts one run.
func (r *RunRepositoryPG) Record(ctx context.Context, run *domain.Run) error {
	if run == nil {
		return fmt.Errorf("repo: record run: nil run")
	}
	paths := run.OutputPaths
	if paths == nil {
		paths = []string{}
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, sqlinline.QInsertRun,
		run.ID,
		run.ThemeName,
		run.Prompt,
		run.Seed,
		string(run.Status),
		run.Message,
		paths,
		run.DurationMS,
		createdAt,
	)
	if err != nil {
		return domain.StorageError("record run", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *RunRepositoryPG) Recent(ctx context.Context, limit int) ([]domain.Run, error) {
	limit = ClampHistoryLimit(limit)
	rows, err := r.db.Query(ctx, sqlinline.QRecentRuns, limit)
	if err != nil {
		return nil, domain.StorageError("list runs", err)
	}
	defer rows.Close()

	runs := make([]domain.Run, 0, limit)
	for rows.Next() {
		var (
			run    domain.Run
			status string
		)
		if err := rows.Scan(
			&run.ID,
			&run.ThemeName,
			&run.Prompt,
			&run.Seed,
			&status,
			&run.Message,
			&run.OutputPaths,
			&run.DurationMS,
			&run.CreatedAt,
		); err != nil {
			return nil, domain.StorageError("scan run", err)
		}
		run.Status = domain.RunStatus(status)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("iterate runs", err)
	}
	return runs, nil
}

// Prune deletes runs older than cutoff and returns how many were removed.
func (r *RunRepositoryPG) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, sqlinline.QPruneRuns, cutoff)
	if err != nil {
		return 0, domain.StorageError("prune runs", err)
	}
	return tag.RowsAffected(), nil
}

var _ domain.RunRepository = (*RunRepositoryPG)(nil)
