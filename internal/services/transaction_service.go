// Package services orchestrates the transaction lifecycle: the editing
// session state machine, store mutations, and the in-memory snapshot the
// views aggregate over.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pennyguard/internal/amqp"
	"pennyguard/internal/core"
	"pennyguard/internal/store"
)

// ErrNoSession is returned by editor commands issued while no add/edit
// session is open.
var ErrNoSession = errors.New("no editing session open")

// TransactionService is the single owner of the in-memory transaction
// snapshot and the editing session. All mutating commands serialize
// through one mutex, so no two mutations are ever in flight against the
// same snapshot. The store handle is injected explicitly; the AMQP client
// is optional and may be nil.
type TransactionService struct {
	mu      sync.Mutex
	store   store.TransactionStore
	events  *amqp.Client
	txs     []core.Transaction
	session *Session

	// now is swappable for tests.
	now func() time.Time
}

func NewTransactionService(st store.TransactionStore, events *amqp.Client) *TransactionService {
	return &TransactionService{
		store:  st,
		events: events,
		now:    time.Now,
	}
}

// Load fetches all committed transactions and replaces the snapshot. It is
// the only path that repopulates the list after a mutation, so the views
// can never observe a partial hand-rolled update.
func (s *TransactionService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *TransactionService) loadLocked(ctx context.Context) error {
	txs, err := s.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	s.txs = txs
	return nil
}

// Transactions returns a copy of the current snapshot.
func (s *TransactionService) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Summary aggregates the current snapshot with the given view parameters.
func (s *TransactionService) Summary(q core.Query) core.Summary {
	return core.Aggregate(s.Transactions(), q)
}

// Find returns the snapshot entry with the given id.
func (s *TransactionService) Find(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}

// BeginAdd opens a create session with default field values. Any session
// already open is discarded.
func (s *TransactionService) BeginAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = newCreateSession(s.now())
}

// BeginEdit opens an edit session initialized from the target's current
// values. Unknown ids report store.ErrNotFound.
func (s *TransactionService) BeginEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			s.session = newEditSession(tx)
			return nil
		}
	}
	return fmt.Errorf("begin edit %s: %w", id, store.ErrNotFound)
}

// Editing returns a copy of the open session, or nil when idle.
func (s *TransactionService) Editing() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Cancel discards the session without touching the store.
func (s *TransactionService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

func (s *TransactionService) SetTitle(title string) error {
	return s.editDraft(func(d *Session) { d.Title = title })
}

func (s *TransactionService) SetAmount(amount core.Money) error {
	return s.editDraft(func(d *Session) { d.Amount = amount })
}

func (s *TransactionService) SetDate(date time.Time) error {
	return s.editDraft(func(d *Session) { d.Date = date })
}

func (s *TransactionService) SetNotes(notes string) error {
	return s.editDraft(func(d *Session) { d.Notes = notes })
}

// SetCategory records an explicit category choice, which is sticky: later
// type changes will not reassign it.
func (s *TransactionService) SetCategory(c core.Category) error {
	return s.editDraft(func(d *Session) {
		d.Category = c
		d.CategoryInitialized = true
	})
}

// SetType updates the draft type. The first type change on a fresh create
// session also selects the first catalog category of that type; once a
// category is initialized the user's choice stays put.
func (s *TransactionService) SetType(t core.CategoryType) error {
	return s.editDraft(func(d *Session) {
		d.Type = t
		if d.CategoryInitialized {
			return
		}
		if first, ok := core.FirstOfType(t); ok {
			d.Category = first
			d.CategoryInitialized = true
		}
	})
}

func (s *TransactionService) editDraft(apply func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ErrNoSession
	}
	apply(s.session)
	return nil
}

// Save validates the session draft and persists it. Validation failures
// surface before any store interaction and leave both session and snapshot
// untouched. Store or commit failures keep the session open so the caller
// can retry or cancel. On success the session is cleared, a change event
// is published, and the snapshot is reloaded from the store.
func (s *TransactionService) Save(ctx context.Context) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return core.Transaction{}, ErrNoSession
	}
	saved, err := s.saveDraftLocked(ctx, s.session)
	if err != nil {
		return core.Transaction{}, err
	}
	s.session = nil
	if err := s.loadLocked(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// Create persists a new transaction in one step, without opening a
// session. Used by callers that supply all fields at once.
func (s *TransactionService) Create(ctx context.Context, title string, amount core.Money, date time.Time, notes string, category core.Category) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := newCreateSession(s.now())
	draft.Title = title
	draft.Amount = amount
	if !date.IsZero() {
		draft.Date = date
	}
	draft.Notes = notes
	draft.Category = category
	draft.CategoryInitialized = true

	saved, err := s.saveDraftLocked(ctx, draft)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.loadLocked(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// Update replaces all editable fields of an existing transaction in one
// step. Unknown ids report store.ErrNotFound.
func (s *TransactionService) Update(ctx context.Context, id, title string, amount core.Money, date time.Time, notes string, category core.Category) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *core.Transaction
	for i := range s.txs {
		if s.txs[i].ID == id {
			target = &s.txs[i]
			break
		}
	}
	if target == nil {
		return core.Transaction{}, fmt.Errorf("update %s: %w", id, store.ErrNotFound)
	}

	draft := newEditSession(*target)
	draft.Title = title
	draft.Amount = amount
	if !date.IsZero() {
		draft.Date = date
	}
	draft.Notes = notes
	draft.Category = category

	saved, err := s.saveDraftLocked(ctx, draft)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.loadLocked(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// saveDraftLocked validates and persists a draft. Callers must hold s.mu.
// The draft may transiently hold a type that disagrees with the category;
// persistence always follows the category's polarity.
func (s *TransactionService) saveDraftLocked(ctx context.Context, draft *Session) (core.Transaction, error) {
	// Local precondition check, not a recoverable store error.
	if len(strings.TrimSpace(draft.Title)) == 0 {
		return core.Transaction{}, core.ErrEmptyTitle
	}
	if draft.Amount.Cents <= 0 {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	if !draft.Category.Valid() {
		return core.Transaction{}, core.ErrInvalidCategory
	}

	var (
		saved core.Transaction
		kind  amqp.EventKind
	)
	if draft.IsEdit() {
		saved = core.NewTransaction(draft.TargetID, draft.Title, draft.Amount, draft.Date, draft.Notes, draft.Category)
		kind = amqp.EventUpdated
		if err := s.store.Update(ctx, saved); err != nil {
			return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
		}
	} else {
		saved = core.NewTransaction(uuid.NewString(), draft.Title, draft.Amount, draft.Date, draft.Notes, draft.Category)
		kind = amqp.EventCreated
		if err := s.store.Insert(ctx, saved); err != nil {
			return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
		}
	}

	if err := s.store.Commit(ctx); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	s.publishEvent(ctx, kind, saved.ID)

	slog.InfoContext(ctx, "Transaction saved",
		"id", saved.ID,
		"title", saved.Title,
		"amount_cents", saved.Amount.Cents,
		"category", string(saved.Category),
		"edit", kind == amqp.EventUpdated)

	return saved, nil
}

// Delete removes the transaction with the given id. The id is resolved
// against the snapshot first: deleting an id the list does not hold is a
// delete error and leaves everything unchanged. The snapshot entry is only
// dropped after the store confirms the commit.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, tx := range s.txs {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: delete %s: %w", store.ErrDelete, id, store.ErrNotFound)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := s.store.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	s.txs = append(s.txs[:idx], s.txs[idx+1:]...)
	s.publishEvent(ctx, amqp.EventDeleted, id)

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// publishEvent is fire-and-forget: a broker failure is logged and never
// fails the command.
func (s *TransactionService) publishEvent(ctx context.Context, kind amqp.EventKind, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "event", string(kind), "error", err)
	}
}
