package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"dreamworld/internal/domain"
)

type execCall struct {
	query string
	args  []any
}

// stubExecutor records Exec calls and serves canned rows.
type stubExecutor struct {
	execs    []execCall
	execErr  error
	execTag  pgconn.CommandTag
	rows     []domain.Run
	queryErr error
	scanErr  error
	lastArgs []any
}

func (s *stubExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, execCall{query: query, args: args})
	return s.execTag, s.execErr
}

func (s *stubExecutor) QueryRow(context.Context, string, ...any) pgx.Row {
	return simpleRow{}
}

func (s *stubExecutor) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	s.lastArgs = args
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &runRows{runs: s.rows, idx: -1, scanErr: s.scanErr}, nil
}

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

type runRows struct {
	testRowsBase
	runs    []domain.Run
	idx     int
	closed  bool
	scanErr error
}

func (r *runRows) Close() { r.closed = true }

func (r *runRows) Err() error { return nil }

func (r *runRows) Next() bool {
	r.idx++
	return r.idx < len(r.runs)
}

func (r *runRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	run := r.runs[r.idx]
	*dest[0].(*string) = run.ID
	*dest[1].(*string) = run.ThemeName
	*dest[2].(*string) = run.Prompt
	*dest[3].(*int64) = run.Seed
	*dest[4].(*string) = string(run.Status)
	*dest[5].(*string) = run.Message
	*dest[6].(*[]string) = run.OutputPaths
	*dest[7].(*int64) = run.DurationMS
	*dest[8].(*time.Time) = run.CreatedAt
	return nil
}
