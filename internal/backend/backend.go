// Package backend selects and wires the persistence layer for the
// application binaries.
package backend

import (
	"pennyguard/internal/amqp"
	"pennyguard/internal/store"
)

// Type names a storage backend.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Types returns every valid backend type.
func Types() []Type {
	return []Type{MemoryBackend, SQLiteBackend}
}

// CleanupFunc releases backend resources. It may be nil.
type CleanupFunc func() error

// Result bundles the constructed store with its optional event publisher
// and cleanup hook.
type Result struct {
	Store   store.TransactionStore
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Close runs the cleanup hook and closes the event client, if present.
func (r *Result) Close() error {
	var firstErr error
	if r.Cleanup != nil {
		firstErr = r.Cleanup()
	}
	if r.Events != nil {
		if err := r.Events.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
