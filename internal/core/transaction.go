package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTitle      = errors.New("empty title")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrTypeMismatch    = errors.New("type does not match category")
)

// Transaction is a single recorded income or expense event. Amount is a
// non-negative magnitude; the direction is carried by Type, which must
// match the category's fixed classification for every persisted record.
type Transaction struct {
	ID       string
	Title    string
	Amount   Money
	Date     time.Time
	Notes    string
	Category Category
	Type     CategoryType
}

// NewTransaction builds a transaction with the given id, forcing Type to
// the category's classification.
func NewTransaction(id, title string, amount Money, date time.Time, notes string, category Category) Transaction {
	return Transaction{
		ID:       id,
		Title:    title,
		Amount:   amount,
		Date:     date,
		Notes:    notes,
		Category: category,
		Type:     category.Type(),
	}
}

func (tx Transaction) Validate() error {
	if len(strings.TrimSpace(tx.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(tx.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if !tx.Category.Valid() {
		return ErrInvalidCategory
	}
	if tx.Type != tx.Category.Type() {
		return ErrTypeMismatch
	}
	return nil
}
