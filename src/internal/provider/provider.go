// Package provider defines the contract every book metadata source meets,
// the optional capabilities a source may add on top of it, and the dispatch
// that picks the right capability for a query.
package provider

import (
	"context"
	"maps"
	"slices"

	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/record"
)

// FieldISBN is the criterion name identifier searches map to.
const FieldISBN = "isbn"

// Provider identifies a source and declares which criteria it understands.
type Provider interface {
	Code() string
	Label() string
	SearchableFields() []string
}

// CriteriaSearcher answers free, possibly multi-field, queries.
type CriteriaSearcher interface {
	Search(ctx context.Context, criteria map[string]string) ([]record.Record, error)
}

// SingleCriterionSearcher answers queries on exactly one field.
type SingleCriterionSearcher interface {
	SearchOne(ctx context.Context, field, value string) ([]record.Record, error)
}

// IdentifierSearcher answers identifier (ISBN/EAN) lookups.
type IdentifierSearcher interface {
	SearchIdentifier(ctx context.Context, id string) ([]record.Record, error)
}

// Configurable sources accept provider-specific parameters (API keys, language).
type Configurable interface {
	Configure(params map[string]string)
}

// HTTPClientAware sources let the caller supply their HTTP client.
type HTTPClientAware interface {
	SetHTTPClient(c httpx.Doer)
}

// Search runs criteria against p using the richest capability p has:
//   - CriteriaSearcher: passed through;
//   - SingleCriterionSearcher: only when exactly one criterion is given;
//   - IdentifierSearcher: only when the sole criterion is the ISBN.
//
// Any other combination yields no records and no error.
func Search(ctx context.Context, p Provider, criteria map[string]string) ([]record.Record, error) {
	if s, ok := p.(CriteriaSearcher); ok {
		return s.Search(ctx, criteria)
	}
	if len(criteria) != 1 {
		return nil, nil
	}
	field := slices.Collect(maps.Keys(criteria))[0]
	if s, ok := p.(SingleCriterionSearcher); ok {
		return s.SearchOne(ctx, field, criteria[field])
	}
	if s, ok := p.(IdentifierSearcher); ok && field == FieldISBN {
		return s.SearchIdentifier(ctx, criteria[field])
	}
	return nil, nil
}

// SearchIdentifier looks id up on p, falling back to a criteria search on
// the ISBN field when p has no dedicated identifier lookup.
func SearchIdentifier(ctx context.Context, p Provider, id string) ([]record.Record, error) {
	if s, ok := p.(IdentifierSearcher); ok {
		return s.SearchIdentifier(ctx, id)
	}
	return Search(ctx, p, map[string]string{FieldISBN: id})
}
