package services

import (
	"time"

	"pennyguard/internal/core"
)

// Session is the ephemeral draft state for creating or modifying one
// transaction. It holds copies of field values; nothing touches the store
// or the committed record until Save.
type Session struct {
	// TargetID is the id of the transaction being edited, or empty for a
	// create session.
	TargetID string

	Title    string
	Amount   core.Money
	Date     time.Time
	Notes    string
	Type     core.CategoryType
	Category core.Category

	// CategoryInitialized guards the one-shot category auto-select: once a
	// category has been chosen (automatically or by hand), type changes
	// never reassign it.
	CategoryInitialized bool
}

// IsEdit reports whether the session targets an existing transaction.
func (s *Session) IsEdit() bool {
	return s.TargetID != ""
}

// newCreateSession returns the default draft for an add form: empty title,
// zero amount, current time, catalog default category.
func newCreateSession(now time.Time) *Session {
	return &Session{
		Title:    "",
		Amount:   core.Money{},
		Date:     now,
		Notes:    "",
		Type:     core.Expense,
		Category: core.Other,
	}
}

// newEditSession copies the target's current field values into a draft.
// CategoryInitialized is pre-set so a later type change never overrides
// the record's category.
func newEditSession(target core.Transaction) *Session {
	return &Session{
		TargetID:            target.ID,
		Title:               target.Title,
		Amount:              target.Amount,
		Date:                target.Date,
		Notes:               target.Notes,
		Type:                target.Type,
		Category:            target.Category,
		CategoryInitialized: true,
	}
}
