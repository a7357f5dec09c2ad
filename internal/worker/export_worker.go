// Package worker mirrors committed transactions to the configured export
// destination in response to change events.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"pennyguard/internal/amqp"
	"pennyguard/internal/export"
	"pennyguard/internal/store"
)

// ExportWorker rebuilds the export snapshot from the store whenever a
// change event arrives. The event only names the changed id; the worker
// always re-reads the full committed set, so a lost or reordered event can
// never leave the mirror describing a state the store was not in.
type ExportWorker struct {
	store  store.TransactionStore
	writer export.SnapshotWriter
}

func NewExportWorker(st store.TransactionStore, writer export.SnapshotWriter) *ExportWorker {
	return &ExportWorker{store: st, writer: writer}
}

// HandleEvent processes one transaction change event by exporting a fresh
// snapshot. Errors are returned so the AMQP consumer can nack and requeue.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", msg.ID,
		"event", string(msg.Event))
	return w.Export(ctx)
}

// Export reads the committed ledger and writes it to the destination.
func (w *ExportWorker) Export(ctx context.Context) error {
	txs, err := w.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch transactions for export: %w", err)
	}
	if err := w.writer.WriteSnapshot(ctx, txs); err != nil {
		return fmt.Errorf("write export snapshot: %w", err)
	}
	slog.InfoContext(ctx, "Export snapshot written", "count", len(txs))
	return nil
}

// StartupExport writes an initial snapshot so the mirror recovers from
// events missed while the worker was down.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup export")
	return w.Export(ctx)
}
