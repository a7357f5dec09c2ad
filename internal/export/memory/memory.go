// Package memory provides an in-memory SnapshotWriter for tests and local
// runs without Google credentials.
package memory

import (
	"context"
	"sync"

	"pennyguard/internal/core"
	"pennyguard/internal/export"
)

type Writer struct {
	mu     sync.Mutex
	last   []core.Transaction
	writes int

	// Err, when set, fails every WriteSnapshot call.
	Err error
}

var _ export.SnapshotWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteSnapshot(_ context.Context, txs []core.Transaction) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	w.last = make([]core.Transaction, len(txs))
	copy(w.last, txs)
	w.writes++
	return nil
}

// Last returns the most recently written snapshot.
func (w *Writer) Last() []core.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]core.Transaction, len(w.last))
	copy(out, w.last)
	return out
}

// Writes returns how many snapshots were written.
func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
