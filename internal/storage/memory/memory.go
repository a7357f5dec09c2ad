// Package memory provides an in-memory TransactionStore used as the
// default backend and by tests. It mirrors the SQLite store's staging
// semantics: mutations are buffered until Commit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pennyguard/internal/core"
	"pennyguard/internal/store"
)

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opDelete
)

type stagedOp struct {
	kind opKind
	tx   core.Transaction
	id   string
}

// Store keeps committed transactions in a map and staged mutations in an
// ordered list. The error fields inject failures per operation; tests use
// them to exercise the failure paths of the lifecycle controller.
type Store struct {
	mu        sync.Mutex
	committed map[string]core.Transaction
	staged    []stagedOp

	InsertErr error
	UpdateErr error
	DeleteErr error
	CommitErr error
}

var _ store.TransactionStore = (*Store)(nil)

func New() *Store {
	return &Store{committed: make(map[string]core.Transaction)}
}

// Seed commits the given transactions directly, bypassing staging.
func Seed(txs ...core.Transaction) *Store {
	s := New()
	for _, tx := range txs {
		s.committed[tx.ID] = tx
	}
	return s
}

// FetchAll returns committed transactions ordered by ascending date.
func (s *Store) FetchAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0, len(s.committed))
	for _, tx := range s.committed {
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *Store) Insert(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.InsertErr != nil {
		return fmt.Errorf("%w: %v", store.ErrAdd, s.InsertErr)
	}
	if s.exists(tx.ID) {
		return fmt.Errorf("%w: duplicate id %s", store.ErrAdd, tx.ID)
	}
	s.staged = append(s.staged, stagedOp{kind: opInsert, tx: tx})
	return nil
}

func (s *Store) Update(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpdateErr != nil {
		return fmt.Errorf("%w: %v", store.ErrAdd, s.UpdateErr)
	}
	if !s.exists(tx.ID) {
		return fmt.Errorf("%w: update %s: %w", store.ErrAdd, tx.ID, store.ErrNotFound)
	}
	s.staged = append(s.staged, stagedOp{kind: opUpdate, tx: tx})
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteErr != nil {
		return fmt.Errorf("%w: %v", store.ErrDelete, s.DeleteErr)
	}
	if !s.exists(id) {
		return fmt.Errorf("%w: delete %s: %w", store.ErrDelete, id, store.ErrNotFound)
	}
	s.staged = append(s.staged, stagedOp{kind: opDelete, id: id})
	return nil
}

// Commit applies staged operations in order. On injected failure the
// staged list is kept so a later Commit can retry.
func (s *Store) Commit(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CommitErr != nil {
		return fmt.Errorf("%w: %v", store.ErrCommit, s.CommitErr)
	}
	for _, op := range s.staged {
		switch op.kind {
		case opInsert, opUpdate:
			s.committed[op.tx.ID] = op.tx
		case opDelete:
			delete(s.committed, op.id)
		}
	}
	s.staged = nil
	return nil
}

// Staged returns the number of staged, uncommitted operations.
func (s *Store) Staged() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}

// exists checks the committed set adjusted for staged operations. Callers
// must hold s.mu.
func (s *Store) exists(id string) bool {
	_, ok := s.committed[id]
	for _, op := range s.staged {
		switch {
		case op.kind == opDelete && op.id == id:
			ok = false
		case op.kind == opInsert && op.tx.ID == id:
			ok = true
		}
	}
	return ok
}
