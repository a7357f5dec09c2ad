package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pennyguard/internal/core"
	"pennyguard/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady checks that the store answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := s.service.Load(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "store not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleListCategories returns the fixed catalog. The set is closed, so
// clients can rely on ids being stable.
func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	catalog := core.Categories()
	out := make([]categoryJSON, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, categoryJSON{
			ID:    string(c),
			Name:  c.DisplayName(),
			Type:  string(c.Type()),
			Color: c.Color(),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toTransactionListJSON(s.service.Transactions()))
}

// handleSummary aggregates the snapshot for the requested view. Results
// are cached per (timeframe, search, sort) until the next mutation.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q, err := parseSummaryQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := string(q.TimeFrame) + "|" + q.Search + "|" + string(q.Sort)
	if sum, ok := s.summaryCache.Get(key); ok {
		respondJSON(w, http.StatusOK, toSummaryJSON(q, sum))
		return
	}

	sum := s.service.Summary(q)
	s.summaryCache.Set(key, sum)
	respondJSON(w, http.StatusOK, toSummaryJSON(q, sum))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := parseTransactionBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.service.Create(r.Context(), in.Title, in.Amount, in.Date, in.Notes, in.Category)
	if err != nil {
		s.respondSaveError(w, r, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusCreated, toTransactionJSON(saved))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := parseTransactionBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.service.Update(r.Context(), id, in.Title, in.Amount, in.Date, in.Notes, in.Category)
	if err != nil {
		s.respondSaveError(w, r, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusOK, toTransactionJSON(saved))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete failed", "transaction_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

// respondSaveError maps save failures to status codes: domain validation
// is the client's fault, unknown ids are 404, store failures are 500.
func (s *Server) respondSaveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCategory):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "transaction not found")
	default:
		slog.ErrorContext(r.Context(), "Save failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save transaction")
	}
}
