package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"pennyguard/internal/core"
)

// transactionJSON is the wire shape of one transaction. Amounts carry both
// the integer cent value and a pre-formatted decimal string.
type transactionJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Notes       string `json:"notes,omitempty"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

type categoryJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

type summaryJSON struct {
	TimeFrame         string            `json:"timeframe"`
	Search            string            `json:"search,omitempty"`
	Sort              string            `json:"sort"`
	TotalIncomeCents  int64             `json:"total_income_cents"`
	TotalIncome       string            `json:"total_income"`
	TotalExpenseCents int64             `json:"total_expense_cents"`
	TotalExpense      string            `json:"total_expense"`
	BalanceCents      int64             `json:"balance_cents"`
	Balance           string            `json:"balance"`
	ExpenseByCategory map[string]int64  `json:"expense_by_category"`
	Transactions      []transactionJSON `json:"transactions"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          tx.ID,
		Title:       tx.Title,
		AmountCents: tx.Amount.Cents,
		Amount:      tx.Amount.String(),
		Date:        tx.Date.UTC().Format(time.RFC3339),
		Notes:       tx.Notes,
		Category:    string(tx.Category),
		Type:        string(tx.Type),
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	return out
}

func toSummaryJSON(q core.Query, sum core.Summary) summaryJSON {
	byCategory := make(map[string]int64, len(sum.ExpenseByCategory))
	for cat, amount := range sum.ExpenseByCategory {
		byCategory[string(cat)] = amount.Cents
	}
	return summaryJSON{
		TimeFrame:         string(q.TimeFrame),
		Search:            q.Search,
		Sort:              string(q.Sort),
		TotalIncomeCents:  sum.TotalIncome.Cents,
		TotalIncome:       sum.TotalIncome.String(),
		TotalExpenseCents: sum.TotalExpense.Cents,
		TotalExpense:      sum.TotalExpense.String(),
		BalanceCents:      sum.Balance.Cents,
		Balance:           sum.Balance.String(),
		ExpenseByCategory: byCategory,
		Transactions:      toTransactionListJSON(sum.Filtered),
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorJSON{Error: msg})
}
