// Package tx provides the transaction boundary used around read-modify-write
// sequences. A Runner executes a function inside a transaction; the SQL
// implementation stashes the *sql.Tx in context so stores can pick it up
// without changing their signatures.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner runs a function inside a transaction boundary. Mutating service
// operations wrap their store calls in RunInTx so concurrent writes to the
// same record cannot interleave partially.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type sqlRunner struct {
	db *sql.DB
}

// NewSQLRunner returns a Runner backed by database/sql transactions.
func NewSQLRunner(db *sql.DB) Runner {
	return &sqlRunner{db: db}
}

func (r *sqlRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type memoryRunner struct{}

// NewMemoryRunner returns a Runner for stores with no external transaction
// mechanism: the function runs directly and the store's own locking provides
// isolation.
func NewMemoryRunner() Runner {
	return memoryRunner{}
}

func (memoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
