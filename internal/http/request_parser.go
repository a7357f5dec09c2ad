package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pennyguard/internal/core"
)

// transactionPayload is the JSON body for create and update requests. The
// amount is a decimal string ("12.34"); dates accept RFC 3339 or a plain
// calendar date.
type transactionPayload struct {
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
	Category string `json:"category"`
}

const maxBodyBytes = 64 << 10

type parsedTransaction struct {
	Title    string
	Amount   core.Money
	Date     time.Time
	Notes    string
	Category core.Category
}

// parseTransactionBody decodes and validates a transaction payload.
// Validation of business rules stays in the service; this only rejects
// input that cannot be represented at all.
func parseTransactionBody(r *http.Request) (parsedTransaction, error) {
	var payload transactionPayload
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return parsedTransaction{}, fmt.Errorf("invalid JSON body: %w", err)
	}

	out := parsedTransaction{
		Title: sanitizeInput(payload.Title),
		Notes: sanitizeInput(payload.Notes),
	}

	cents, err := core.ParseDecimalToCents(payload.Amount)
	if err != nil {
		return parsedTransaction{}, fmt.Errorf("invalid amount %q: %w", payload.Amount, err)
	}
	out.Amount = core.Money{Cents: cents}

	if payload.Date != "" {
		date, err := parseDate(payload.Date)
		if err != nil {
			return parsedTransaction{}, err
		}
		out.Date = date
	}

	category, ok := core.ParseCategory(strings.TrimSpace(payload.Category))
	if !ok {
		return parsedTransaction{}, fmt.Errorf("unknown category %q", payload.Category)
	}
	out.Category = category

	return out, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", s)
}

// parseSummaryQuery builds an aggregation query from URL parameters.
// Missing parameters fall back to the all-time window and the default
// date-descending ordering; unknown values are rejected.
func parseSummaryQuery(q url.Values) (core.Query, error) {
	out := core.Query{
		TimeFrame: core.AllTime,
		Sort:      core.DateDescending,
		Search:    sanitizeInput(q.Get("search")),
	}

	if v := strings.TrimSpace(q.Get("timeframe")); v != "" {
		tf, ok := core.ParseTimeFrame(v)
		if !ok {
			return core.Query{}, fmt.Errorf("unknown timeframe %q", v)
		}
		out.TimeFrame = tf
	}

	if v := strings.TrimSpace(q.Get("sort")); v != "" {
		so, ok := core.ParseSortOption(v)
		if !ok {
			return core.Query{}, fmt.Errorf("unknown sort option %q", v)
		}
		out.Sort = so
	}

	return out, nil
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// pathID extracts the {id} path value and rejects blanks.
func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", errors.New("missing transaction id")
	}
	return id, nil
}
