package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"pennyguard/internal/amqp"
	"pennyguard/internal/core"
	exportmemory "pennyguard/internal/export/memory"
	"pennyguard/internal/storage/memory"
)

func tx(id, title string, cents int64, day int, category core.Category) core.Transaction {
	return core.NewTransaction(id, title, core.Money{Cents: cents},
		time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC), "", category)
}

func TestHandleEventExportsFullSnapshot(t *testing.T) {
	st := memory.Seed(
		tx("tx-1", "Lunch", 1200, 1, core.Food),
		tx("tx-2", "Salary", 300000, 2, core.Salary),
	)
	writer := exportmemory.New()
	w := NewExportWorker(st, writer)

	msg := amqp.NewTransactionEventMessage(amqp.EventCreated, "tx-2")
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	got := writer.Last()
	if len(got) != 2 {
		t.Fatalf("snapshot has %d rows, want the full committed set of 2", len(got))
	}
	if got[0].ID != "tx-1" || got[1].ID != "tx-2" {
		t.Errorf("snapshot order = %s, %s, want date order tx-1, tx-2", got[0].ID, got[1].ID)
	}
}

func TestHandleEventPropagatesWriterFailure(t *testing.T) {
	writer := exportmemory.New()
	writer.Err = errors.New("export sheet missing")
	w := NewExportWorker(memory.New(), writer)

	msg := amqp.NewTransactionEventMessage(amqp.EventDeleted, "tx-1")
	if err := w.HandleEvent(context.Background(), msg); err == nil {
		t.Fatal("expected writer failure to surface so the event can requeue")
	}
}

func TestStartupExportWritesCurrentState(t *testing.T) {
	st := memory.Seed(tx("tx-1", "Lunch", 1200, 1, core.Food))
	writer := exportmemory.New()
	w := NewExportWorker(st, writer)

	if err := w.StartupExport(context.Background()); err != nil {
		t.Fatalf("StartupExport: %v", err)
	}
	if writer.Writes() != 1 || len(writer.Last()) != 1 {
		t.Fatalf("writes=%d last=%d, want one snapshot of one row", writer.Writes(), len(writer.Last()))
	}
}
