package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pennyguard/internal/core"
	"pennyguard/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "pennyguard.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testTx(id string, daysAgo int) core.Transaction {
	date := time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
	return core.NewTransaction(id, "tx "+id, core.Money{Cents: 2500}, date, "some notes", core.Travel)
}

func TestInsertCommitFetch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.Insert(ctx, testTx("a", 3)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Staged but uncommitted: FetchAll sees nothing.
	got, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("uncommitted insert visible: %v", got)
	}

	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err = repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch after commit: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	want := testTx("a", 3)
	if got[0].ID != want.ID || got[0].Title != want.Title ||
		got[0].Amount != want.Amount || !got[0].Date.Equal(want.Date) ||
		got[0].Notes != want.Notes || got[0].Category != want.Category ||
		got[0].Type != want.Type {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got[0], want)
	}
}

func TestFetchAllOrdering(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, tx := range []core.Transaction{testTx("new", 1), testTx("old", 40), testTx("mid", 10)} {
		if err := repo.Insert(ctx, tx); err != nil {
			t.Fatalf("insert %s: %v", tx.ID, err)
		}
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := []string{"old", "mid", "new"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("order[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestUpdatePersistsFields(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	orig := testTx("a", 5)
	if err := repo.Insert(ctx, orig); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	updated := orig
	updated.Title = "renamed"
	updated.Notes = "changed"
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit update: %v", err)
	}

	got, _ := repo.FetchAll(ctx)
	if got[0].Title != "renamed" || got[0].Notes != "changed" {
		t.Fatalf("update not persisted: %+v", got[0])
	}
	if got[0].ID != orig.ID || got[0].Category != orig.Category || got[0].Type != orig.Type {
		t.Fatalf("update touched immutable fields: %+v", got[0])
	}
}

func TestUpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	err := repo.Update(ctx, testTx("ghost", 1))
	if !errors.Is(err, store.ErrAdd) || !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrAdd/ErrNotFound, got %v", err)
	}
}

func TestDeleteCommit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.Insert(ctx, testTx("a", 1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit delete: %v", err)
	}

	got, _ := repo.FetchAll(ctx)
	if len(got) != 0 {
		t.Fatalf("deleted transaction still present: %v", got)
	}
}

func TestDeleteUnknownIDFails(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	err := repo.Delete(ctx, "missing")
	if !errors.Is(err, store.ErrDelete) {
		t.Fatalf("expected ErrDelete, got %v", err)
	}
}
