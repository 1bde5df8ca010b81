package pool

import (
	"maps"
	"slices"
	"strings"
	"time"

	"bookmeta/src/internal/record"
)

// Query is either an identifier lookup (Identifier set) or a criteria search.
type Query struct {
	Criteria   map[string]string
	Identifier string
}

func (q Query) String() string {
	if q.Identifier != "" {
		return "id:" + q.Identifier
	}
	parts := make([]string, 0, len(q.Criteria))
	for _, k := range slices.Sorted(maps.Keys(q.Criteria)) {
		parts = append(parts, k+"="+q.Criteria[k])
	}
	return strings.Join(parts, "&")
}

// Attempt is the outcome of one source for one query.
type Attempt struct {
	Provider string
	Label    string
	Count    int
	Duration time.Duration
	Err      error
}

// Success reports whether the source answered, even with no records.
func (a Attempt) Success() bool { return a.Err == nil }

// Report is the merged result of a query plus the per-source trace.
type Report struct {
	Records  []record.Record
	Attempts []Attempt
}

// Failed reports whether every attempted source failed. A query with no
// active source has not failed.
func (r Report) Failed() bool {
	if len(r.Attempts) == 0 {
		return false
	}
	for _, a := range r.Attempts {
		if a.Success() {
			return false
		}
	}
	return true
}
