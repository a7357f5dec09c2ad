package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pennyguard/internal/core"
	"pennyguard/internal/storage/memory"
	"pennyguard/internal/store"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(st store.TransactionStore) *TransactionService {
	svc := NewTransactionService(st, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedTx(id, title string, cents int64, daysAgo int, category core.Category) core.Transaction {
	return core.NewTransaction(id, title, core.Money{Cents: cents}, testNow.AddDate(0, 0, -daysAgo), "", category)
}

func TestBeginAddDefaults(t *testing.T) {
	svc := newTestService(memory.New())
	svc.BeginAdd()

	draft := svc.Editing()
	if draft == nil {
		t.Fatal("expected an open session after BeginAdd")
	}
	if draft.IsEdit() {
		t.Error("create session should not be an edit")
	}
	if draft.Title != "" || draft.Amount.Cents != 0 || draft.Notes != "" {
		t.Errorf("unexpected defaults: %+v", draft)
	}
	if !draft.Date.Equal(testNow) {
		t.Errorf("date = %v, want %v", draft.Date, testNow)
	}
	if draft.Type != core.Expense || draft.Category != core.Other {
		t.Errorf("type/category = %v/%v, want expense/other", draft.Type, draft.Category)
	}
	if draft.CategoryInitialized {
		t.Error("fresh create session must allow category auto-select")
	}
}

func TestEditorCommandsWithoutSession(t *testing.T) {
	svc := newTestService(memory.New())

	if err := svc.SetTitle("Coffee"); !errors.Is(err, ErrNoSession) {
		t.Errorf("SetTitle error = %v, want ErrNoSession", err)
	}
	if _, err := svc.Save(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Save error = %v, want ErrNoSession", err)
	}
}

func TestCategoryAutoSelectOneShot(t *testing.T) {
	svc := newTestService(memory.New())
	svc.BeginAdd()

	// First type change auto-selects the first category of that type.
	if err := svc.SetType(core.Income); err != nil {
		t.Fatalf("SetType: %v", err)
	}
	if got := svc.Editing().Category; got != core.Salary {
		t.Fatalf("category after first type change = %v, want salary", got)
	}

	// Later type changes never reassign the category.
	if err := svc.SetType(core.Expense); err != nil {
		t.Fatalf("SetType: %v", err)
	}
	draft := svc.Editing()
	if draft.Type != core.Expense {
		t.Errorf("type = %v, want expense", draft.Type)
	}
	if draft.Category != core.Salary {
		t.Errorf("category = %v, want salary to stick", draft.Category)
	}
}

func TestExplicitCategoryIsSticky(t *testing.T) {
	svc := newTestService(memory.New())
	svc.BeginAdd()

	if err := svc.SetCategory(core.Travel); err != nil {
		t.Fatalf("SetCategory: %v", err)
	}
	if err := svc.SetType(core.Income); err != nil {
		t.Fatalf("SetType: %v", err)
	}
	if got := svc.Editing().Category; got != core.Travel {
		t.Errorf("category = %v, want explicit choice to survive type change", got)
	}
}

func TestEditSessionSkipsAutoSelect(t *testing.T) {
	st := memory.Seed(seedTx("tx-1", "Rent", 90000, 3, core.Rental))
	svc := newTestService(st)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := svc.BeginEdit("tx-1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	draft := svc.Editing()
	if !draft.IsEdit() || draft.TargetID != "tx-1" {
		t.Fatalf("session = %+v, want edit of tx-1", draft)
	}
	if draft.Title != "Rent" || draft.Amount.Cents != 90000 || draft.Category != core.Rental {
		t.Errorf("edit session did not copy target fields: %+v", draft)
	}

	// Changing the type on an edit must not touch the stored category choice.
	if err := svc.SetType(core.Expense); err != nil {
		t.Fatalf("SetType: %v", err)
	}
	if got := svc.Editing().Category; got != core.Rental {
		t.Errorf("category = %v, want rental preserved during edit", got)
	}
}

func TestBeginEditUnknownID(t *testing.T) {
	svc := newTestService(memory.New())
	if err := svc.BeginEdit("ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("BeginEdit error = %v, want ErrNotFound", err)
	}
	if svc.Editing() != nil {
		t.Error("failed BeginEdit must not open a session")
	}
}

func TestSaveValidationNeverTouchesStore(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		cents   int64
		wantErr error
	}{
		{"empty title", "", 500, core.ErrEmptyTitle},
		{"whitespace title", "   ", 500, core.ErrEmptyTitle},
		{"zero amount", "Coffee", 0, core.ErrInvalidAmount},
		{"negative amount", "Coffee", -100, core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := memory.New()
			svc := newTestService(st)
			svc.BeginAdd()
			svc.SetTitle(tt.title)
			svc.SetAmount(core.Money{Cents: tt.cents})

			if _, err := svc.Save(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Save error = %v, want %v", err, tt.wantErr)
			}
			if st.Staged() != 0 {
				t.Error("validation failure must not stage store operations")
			}
			if svc.Editing() == nil {
				t.Error("validation failure must keep the session open")
			}
		})
	}
}

func TestSaveCreatesTransaction(t *testing.T) {
	st := memory.New()
	svc := newTestService(st)
	svc.BeginAdd()
	svc.SetTitle("Groceries")
	svc.SetAmount(core.Money{Cents: 4250})
	svc.SetNotes("weekly shop")
	svc.SetCategory(core.Food)

	saved, err := svc.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Error("created transaction must get a generated id")
	}
	if saved.Type != core.Expense {
		t.Errorf("type = %v, want derived from food category", saved.Type)
	}
	if svc.Editing() != nil {
		t.Error("successful save must clear the session")
	}

	txs := svc.Transactions()
	if len(txs) != 1 || txs[0].Title != "Groceries" || txs[0].Notes != "weekly shop" {
		t.Fatalf("snapshot after save = %+v", txs)
	}
	if st.Staged() != 0 {
		t.Error("save must commit its staged insert")
	}
}

func TestSaveForcesTypeFromCategory(t *testing.T) {
	svc := newTestService(memory.New())
	svc.BeginAdd()
	svc.SetTitle("Paycheck")
	svc.SetAmount(core.Money{Cents: 250000})
	svc.SetCategory(core.Salary)
	// Contradictory type set after the category; the category wins.
	svc.SetType(core.Expense)

	saved, err := svc.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Type != core.Income {
		t.Errorf("type = %v, want income forced by salary category", saved.Type)
	}
}

func TestSaveEditPreservesIdentity(t *testing.T) {
	st := memory.Seed(seedTx("tx-7", "Gym", 3000, 5, core.Healthcare))
	svc := newTestService(st)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := svc.BeginEdit("tx-7"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	svc.SetNotes("annual plan")

	saved, err := svc.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID != "tx-7" {
		t.Errorf("id = %s, want tx-7 unchanged", saved.ID)
	}
	if saved.Category != core.Healthcare || saved.Type != core.Expense {
		t.Errorf("category/type = %v/%v, want healthcare/expense unchanged", saved.Category, saved.Type)
	}

	txs := svc.Transactions()
	if len(txs) != 1 || txs[0].Notes != "annual plan" || txs[0].Title != "Gym" {
		t.Fatalf("snapshot after edit = %+v", txs)
	}
}

func TestSaveCommitFailureKeepsSession(t *testing.T) {
	st := memory.New()
	st.CommitErr = errors.New("disk full")
	svc := newTestService(st)
	svc.BeginAdd()
	svc.SetTitle("Coffee")
	svc.SetAmount(core.Money{Cents: 450})

	if _, err := svc.Save(context.Background()); !errors.Is(err, store.ErrCommit) {
		t.Fatalf("Save error = %v, want ErrCommit", err)
	}
	if svc.Editing() == nil {
		t.Fatal("commit failure must keep the session open for retry")
	}
	if len(svc.Transactions()) != 0 {
		t.Error("failed save must not appear in the snapshot")
	}

	// Clearing the fault lets the same session retry to success.
	st.CommitErr = nil
	if _, err := svc.Save(context.Background()); err != nil {
		t.Fatalf("retry Save: %v", err)
	}
	if got := len(svc.Transactions()); got != 1 {
		t.Fatalf("snapshot after retry has %d transactions, want 1", got)
	}
}

func TestSaveInsertFailureKeepsSession(t *testing.T) {
	st := memory.New()
	st.InsertErr = errors.New("backend offline")
	svc := newTestService(st)
	svc.BeginAdd()
	svc.SetTitle("Coffee")
	svc.SetAmount(core.Money{Cents: 450})

	if _, err := svc.Save(context.Background()); !errors.Is(err, store.ErrAdd) {
		t.Fatalf("Save error = %v, want ErrAdd", err)
	}
	if svc.Editing() == nil {
		t.Error("insert failure must keep the session open")
	}
}

func TestDelete(t *testing.T) {
	st := memory.Seed(
		seedTx("tx-1", "Lunch", 1200, 1, core.Food),
		seedTx("tx-2", "Train", 800, 2, core.Travel),
	)
	svc := newTestService(st)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := svc.Delete(context.Background(), "tx-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	txs := svc.Transactions()
	if len(txs) != 1 || txs[0].ID != "tx-2" {
		t.Fatalf("snapshot after delete = %+v", txs)
	}
	committed, err := st.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(committed) != 1 {
		t.Errorf("store holds %d transactions after delete, want 1", len(committed))
	}
}

func TestDeleteUnknownIDLeavesListUnchanged(t *testing.T) {
	st := memory.Seed(seedTx("tx-1", "Lunch", 1200, 1, core.Food))
	svc := newTestService(st)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := svc.Delete(context.Background(), "ghost")
	if !errors.Is(err, store.ErrDelete) {
		t.Fatalf("Delete error = %v, want ErrDelete", err)
	}
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound wrapped", err)
	}
	if len(svc.Transactions()) != 1 {
		t.Error("failed delete must leave the snapshot unchanged")
	}
	if st.Staged() != 0 {
		t.Error("unknown-id delete must not stage store operations")
	}
}

func TestDeleteCommitFailureKeepsEntry(t *testing.T) {
	st := memory.Seed(seedTx("tx-1", "Lunch", 1200, 1, core.Food))
	svc := newTestService(st)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	st.CommitErr = errors.New("disk full")
	if err := svc.Delete(context.Background(), "tx-1"); !errors.Is(err, store.ErrCommit) {
		t.Fatalf("Delete error = %v, want ErrCommit", err)
	}
	if len(svc.Transactions()) != 1 {
		t.Error("failed delete must keep the snapshot entry")
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	st := memory.New()
	svc := newTestService(st)
	svc.BeginAdd()
	svc.SetTitle("Impulse buy")
	svc.SetAmount(core.Money{Cents: 9999})
	svc.Cancel()

	if svc.Editing() != nil {
		t.Error("Cancel must close the session")
	}
	if st.Staged() != 0 || len(svc.Transactions()) != 0 {
		t.Error("Cancel must not touch the store or the snapshot")
	}
}

func TestCreateOneStep(t *testing.T) {
	st := memory.New()
	svc := newTestService(st)

	saved, err := svc.Create(context.Background(), "Rent", core.Money{Cents: 90000}, testNow, "june", core.Rental)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.Type != core.Income {
		t.Errorf("type = %v, want income derived from rental", saved.Type)
	}
	if svc.Editing() != nil {
		t.Error("one-step create must not leave a session open")
	}
	if len(svc.Transactions()) != 1 {
		t.Error("created transaction missing from snapshot")
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := newTestService(memory.New())

	if _, err := svc.Create(context.Background(), " ", core.Money{Cents: 100}, testNow, "", core.Food); !errors.Is(err, core.ErrEmptyTitle) {
		t.Errorf("empty title error = %v, want ErrEmptyTitle", err)
	}
	if _, err := svc.Create(context.Background(), "Coffee", core.Money{}, testNow, "", core.Food); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero amount error = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.Create(context.Background(), "Coffee", core.Money{Cents: 100}, testNow, "", core.Category("petrol")); !errors.Is(err, core.ErrInvalidCategory) {
		t.Errorf("unknown category error = %v, want ErrInvalidCategory", err)
	}
}

func TestUpdateOneStep(t *testing.T) {
	st := memory.Seed(seedTx("tx-3", "Gym", 3000, 5, core.Healthcare))
	svc := newTestService(st)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	saved, err := svc.Update(context.Background(), "tx-3", "Gym membership", core.Money{Cents: 3500}, testNow, "upgraded", core.Healthcare)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if saved.ID != "tx-3" || saved.Amount.Cents != 3500 {
		t.Errorf("saved = %+v, want same id with new amount", saved)
	}

	txs := svc.Transactions()
	if len(txs) != 1 || txs[0].Title != "Gym membership" {
		t.Fatalf("snapshot after update = %+v", txs)
	}

	if _, err := svc.Update(context.Background(), "ghost", "X", core.Money{Cents: 100}, testNow, "", core.Food); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}

func TestSummaryOverSnapshot(t *testing.T) {
	st := memory.Seed(
		seedTx("tx-1", "Salary", 300000, 40, core.Salary),
		seedTx("tx-2", "Dinner", 5000, 2, core.Food),
		seedTx("tx-3", "Flight", 20000, 10, core.Travel),
	)
	svc := newTestService(st)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	sum := svc.Summary(core.Query{TimeFrame: core.Month, Now: testNow})
	if sum.TotalIncome.Cents != 300000 || sum.TotalExpense.Cents != 25000 {
		t.Errorf("totals = %d/%d, want 300000/25000", sum.TotalIncome.Cents, sum.TotalExpense.Cents)
	}
	if sum.Balance.Cents != 275000 {
		t.Errorf("balance = %d, want 275000", sum.Balance.Cents)
	}
	if len(sum.Filtered) != 2 {
		t.Errorf("filtered count = %d, want 2 inside the month window", len(sum.Filtered))
	}
}
