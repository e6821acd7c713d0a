package domain

import "context"

// RunRepository persists generation history.
type RunRepository interface {
	Record(ctx context.Context, run *Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
}
