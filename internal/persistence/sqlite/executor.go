package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/example/deskbooker/internal/persistence"
)

// FetchMode selects the row shape returned by Execute.
type FetchMode int

const (
	// FetchNone runs a statement that returns no rows.
	FetchNone FetchMode = iota
	// FetchOne scans the first row and reports persistence.ErrNotFound when
	// there is none.
	FetchOne
	// FetchAll scans every row.
	FetchAll
)

func (m FetchMode) String() string {
	switch m {
	case FetchNone:
		return "none"
	case FetchOne:
		return "one"
	case FetchAll:
		return "all"
	default:
		return fmt.Sprintf("FetchMode(%d)", int(m))
	}
}

// Statement is one parameterised SQL statement. Values always travel in Args.
type Statement struct {
	SQL  string
	Args []any
}

// Row is the scanning surface handed to a ScanFunc.
type Row interface {
	Scan(dest ...any) error
}

// ScanFunc consumes a single row. It is called once per returned row.
type ScanFunc func(row Row) error

// ExecResult describes the outcome of a statement.
type ExecResult struct {
	RowsAffected int64
	LastInsertID int64
	Rows         int
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Executor is the only path to the database. Each Execute call runs in its
// own transaction and calls are serialized by mu.
type Executor struct {
	mu     sync.Mutex
	db     *sql.DB
	mapper *ErrorMapper
}

// NewExecutor wraps an open database handle.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db, mapper: NewErrorMapper()}
}

// Execute runs exactly one statement inside a transaction and commits before
// returning. Errors are mapped to persistence sentinels; nothing is retried.
func (e *Executor) Execute(ctx context.Context, stmt Statement, mode FetchMode, scan ScanFunc) (ExecResult, error) {
	var result ExecResult
	err := e.Transact(ctx, func(tx *Tx) error {
		var err error
		result, err = tx.Execute(ctx, stmt, mode, scan)
		return err
	})
	return result, err
}

// Tx runs statements inside a transaction opened by Transact.
type Tx struct {
	tx     *sql.Tx
	mapper *ErrorMapper
}

// Execute runs one statement inside the enclosing transaction.
func (t *Tx) Execute(ctx context.Context, stmt Statement, mode FetchMode, scan ScanFunc) (ExecResult, error) {
	return run(ctx, t.tx, t.mapper, stmt, mode, scan)
}

// Transact runs fn inside a single transaction under the executor lock. It is
// meant for check-then-write sequences that must not interleave with other
// statements. fn's error rolls the transaction back and is returned as is.
func (e *Executor) Transact(ctx context.Context, fn func(tx *Tx) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sqlTx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
		}
	}()

	if err = fn(&Tx{tx: sqlTx, mapper: e.mapper}); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", e.mapper.MapError(err))
	}

	return nil
}

func run(ctx context.Context, q querier, mapper *ErrorMapper, stmt Statement, mode FetchMode, scan ScanFunc) (ExecResult, error) {
	if mode == FetchNone {
		res, err := q.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return ExecResult{}, mapper.MapError(err)
		}
		var result ExecResult
		if result.RowsAffected, err = res.RowsAffected(); err != nil {
			return ExecResult{}, fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if result.LastInsertID, err = res.LastInsertId(); err != nil {
			return ExecResult{}, fmt.Errorf("sqlite: last insert id: %w", err)
		}
		return result, nil
	}

	if scan == nil {
		return ExecResult{}, fmt.Errorf("sqlite: fetch mode %s requires a scan function", mode)
	}

	rows, err := q.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return ExecResult{}, mapper.MapError(err)
	}
	defer rows.Close()

	var result ExecResult
	for rows.Next() {
		if err := scan(rows); err != nil {
			return ExecResult{}, err
		}
		result.Rows++
		if mode == FetchOne {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return ExecResult{}, mapper.MapError(err)
	}

	if mode == FetchOne && result.Rows == 0 {
		return result, persistence.ErrNotFound
	}

	return result, nil
}
