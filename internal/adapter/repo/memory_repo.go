package repo

import (
	"context"
	"sync"

	"dreamworld/internal/domain"
)

const (
	// DefaultHistoryLimit bounds history listings and the in-memory ring.
	DefaultHistoryLimit = 50
	// MaxHistoryLimit is the largest listing a caller may ask for.
	MaxHistoryLimit = 200
)

// ClampHistoryLimit maps a requested listing size into 1..MaxHistoryLimit;
// non-positive values select DefaultHistoryLimit.
func ClampHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	}
	return limit
}

// MemoryRunRepository keeps the most recent runs in process memory. It is
// used when no database is configured.
type MemoryRunRepository struct {
	mu   sync.Mutex
	runs []domain.Run
	size int
}

// NewMemoryRunRepository returns a ring holding at most size runs.
func NewMemoryRunRepository(size int) *MemoryRunRepository {
	if size <= 0 {
		size = DefaultHistoryLimit
	}
	return &MemoryRunRepository{size: size}
}

// Record appends run, evicting the oldest entry when full.
func (m *MemoryRunRepository) Record(_ context.Context, run *domain.Run) error {
	if run == nil {
		return nil
	}
	cp := *run
	cp.OutputPaths = append([]string(nil), run.OutputPaths...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, cp)
	if over := len(m.runs) - m.size; over > 0 {
		m.runs = append(m.runs[:0:0], m.runs[over:]...)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (m *MemoryRunRepository) Recent(_ context.Context, limit int) ([]domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limit = ClampHistoryLimit(limit)
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]domain.Run, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		run := m.runs[i]
		run.OutputPaths = append([]string(nil), run.OutputPaths...)
		out = append(out, run)
	}
	return out, nil
}

var _ domain.RunRepository = (*MemoryRunRepository)(nil)
