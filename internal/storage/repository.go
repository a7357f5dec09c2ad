package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pennyguard/internal/core"
	"pennyguard/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements store.TransactionStore on a local SQLite
// database. Mutations are staged on a lazily opened transaction and become
// visible to FetchAll only after Commit.
type SQLiteRepository struct {
	db *sql.DB

	mu      sync.Mutex
	pending *sql.Tx
}

var _ store.TransactionStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	if r.pending != nil {
		_ = r.pending.Rollback()
		r.pending = nil
	}
	r.mu.Unlock()

	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// stagingTx returns the open staging transaction, starting one if needed.
// Callers must hold r.mu.
func (r *SQLiteRepository) stagingTx(ctx context.Context) (*sql.Tx, error) {
	if r.pending != nil {
		return r.pending, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin staging transaction: %w", err)
	}
	r.pending = tx
	return tx, nil
}

// FetchAll returns committed transactions ordered by ascending date.
// Staged, uncommitted changes are not included.
func (r *SQLiteRepository) FetchAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, amount_cents, date, notes, category, type
		FROM transactions
		ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx      core.Transaction
			rawDate string
		)
		if err := rows.Scan(&tx.ID, &tx.Title, &tx.Amount.Cents, &rawDate, &tx.Notes, (*string)(&tx.Category), (*string)(&tx.Type)); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := time.Parse(time.RFC3339Nano, rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", rawDate, err)
		}
		tx.Date = date
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, tx core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staging, err := r.stagingTx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrAdd, err)
	}

	_, err = staging.ExecContext(ctx, `
		INSERT INTO transactions (id, title, amount_cents, date, notes, category, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Title, tx.Amount.Cents, tx.Date.UTC().Format(time.RFC3339Nano),
		tx.Notes, string(tx.Category), string(tx.Type))
	if err != nil {
		return fmt.Errorf("%w: insert %s: %v", store.ErrAdd, tx.ID, err)
	}

	slog.DebugContext(ctx, "Transaction staged for insert", "id", tx.ID, "title", tx.Title)
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, tx core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staging, err := r.stagingTx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrAdd, err)
	}

	res, err := staging.ExecContext(ctx, `
		UPDATE transactions
		SET title = ?, amount_cents = ?, date = ?, notes = ?, category = ?, type = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		tx.Title, tx.Amount.Cents, tx.Date.UTC().Format(time.RFC3339Nano),
		tx.Notes, string(tx.Category), string(tx.Type), tx.ID)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", store.ErrAdd, tx.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: update %s: %w", store.ErrAdd, tx.ID, store.ErrNotFound)
	}

	slog.DebugContext(ctx, "Transaction staged for update", "id", tx.ID)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staging, err := r.stagingTx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrDelete, err)
	}

	res, err := staging.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", store.ErrDelete, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: delete %s: %w", store.ErrDelete, id, store.ErrNotFound)
	}

	slog.DebugContext(ctx, "Transaction staged for delete", "id", id)
	return nil
}

// Commit persists all staged mutations. With nothing staged it is a no-op.
func (r *SQLiteRepository) Commit(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending == nil {
		return nil
	}

	err := r.pending.Commit()
	r.pending = nil
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrCommit, err)
	}

	slog.DebugContext(ctx, "Staged transactions committed")
	return nil
}
