// Package integrity is the single write path of the store. Every insert,
// update and delete goes through an Engine, which validates references,
// hierarchies and currencies up front and applies the delete rules declared
// in package schema inside the same database transaction.
package integrity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AndreAle94/moneywallet-sub005/internal/database"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// Engine serializes writers and lets readers share the store. Atomic and
// View callbacks must not call back into the same Engine.
type Engine struct {
	db      *sql.DB
	mu      sync.RWMutex
	now     func() time.Time
	newUUID func() string
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for cascade and restore diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock replaces the source of last_edit timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithUUIDs replaces the generator of portable identifiers.
func WithUUIDs(gen func() string) Option {
	return func(e *Engine) { e.newUUID = gen }
}

// New wraps an open, migrated database.
func New(db *sql.DB, opts ...Option) *Engine {
	e := &Engine{
		db:      db,
		now:     database.Now,
		newUUID: uuid.NewString,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DB exposes the underlying handle for read models that bypass the engine.
func (e *Engine) DB() *sql.DB { return e.db }

// Atomic runs fn in one write transaction. Nothing fn did is kept when it
// returns an error.
func (e *Engine) Atomic(ctx context.Context, fn func(tx *Tx) error) error {
	return e.run(ctx, false, fn)
}

// View runs fn in a read transaction. Writes through the Tx fail.
func (e *Engine) View(ctx context.Context, fn func(tx *Tx) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return database.WithTx(ctx, e.db, func(stx *sql.Tx) error {
		return fn(&Tx{e: e, tx: stx, readOnly: true})
	})
}

// Restore runs fn in one write transaction in restore mode: portable
// identifiers and edit times are taken from the caller, transfer legs and
// system categories may be written directly and budgets may be stored before
// their wallets are linked. Check revalidates a row once its links are in place.
func (e *Engine) Restore(ctx context.Context, fn func(tx *Tx) error) error {
	return e.run(ctx, true, fn)
}

func (e *Engine) run(ctx context.Context, restoring bool, fn func(tx *Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return database.WithTx(ctx, e.db, func(stx *sql.Tx) error {
		return fn(&Tx{e: e, tx: stx, restoring: restoring})
	})
}

// Insert adds one row and returns its id.
func (e *Engine) Insert(ctx context.Context, k schema.Kind, f Fields) (int64, error) {
	var id int64
	err := e.Atomic(ctx, func(tx *Tx) error {
		var err error
		id, err = tx.Insert(ctx, k, f)
		return err
	})
	return id, err
}

// Update changes the given fields of one row and returns the number of
// rows written.
func (e *Engine) Update(ctx context.Context, k schema.Kind, id int64, f Fields) (int64, error) {
	var n int64
	err := e.Atomic(ctx, func(tx *Tx) error {
		var err error
		n, err = tx.Update(ctx, k, id, f)
		return err
	})
	return n, err
}

// Delete removes one row and applies its delete rules. It returns the
// number of primary rows deleted.
func (e *Engine) Delete(ctx context.Context, k schema.Kind, id int64) (int64, error) {
	var n int64
	err := e.Atomic(ctx, func(tx *Tx) error {
		var err error
		n, err = tx.Delete(ctx, k, id)
		return err
	})
	return n, err
}

// Query reads rows of k.
func (e *Engine) Query(ctx context.Context, k schema.Kind, q Query) ([]Row, error) {
	var rows []Row
	err := e.View(ctx, func(tx *Tx) error {
		var err error
		rows, err = tx.Query(ctx, k, q)
		return err
	})
	return rows, err
}

// Get reads one row by id.
func (e *Engine) Get(ctx context.Context, k schema.Kind, id int64) (Row, error) {
	var row Row
	err := e.View(ctx, func(tx *Tx) error {
		var err error
		row, err = tx.Get(ctx, k, id)
		return err
	})
	return row, err
}

// Balance returns the current balance of a wallet in minor units.
func (e *Engine) Balance(ctx context.Context, wallet int64) (int64, error) {
	var b int64
	err := e.View(ctx, func(tx *Tx) error {
		var err error
		b, err = tx.Balance(ctx, wallet)
		return err
	})
	return b, err
}

// Reset wipes every user row, keeping currencies and system categories.
func (e *Engine) Reset(ctx context.Context) error {
	return e.Atomic(ctx, func(tx *Tx) error { return tx.Reset(ctx) })
}

// Compact rebuilds the database file to release the space of deleted rows.
// It holds the writer lock, since VACUUM cannot run inside a transaction.
func (e *Engine) Compact(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}
