// Package loc is the Library of Congress SRU source.
package loc

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"bookmeta/src/internal/feeds"
	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/record"
)

const Code = "loc"

const maximumRecords = 5

var defaultClient httpx.Doer = &http.Client{Timeout: 15 * time.Second}

// indexes maps criteria to CQL indexes.
var indexes = map[string]string{
	"isbn":      "dc.identifier",
	"ean":       "dc.identifier",
	"upc":       "dc.identifier",
	"lccn":      "dc.identifier",
	"title":     "dc.title",
	"publisher": "dc.publisher",
	"language":  "dc.language",
}

// Provider queries the catalog with any mix of its fields, joined with and.
type Provider struct {
	client httpx.Doer
	base   string
}

func New() *Provider { return &Provider{client: defaultClient, base: "http://lx2.loc.gov:210/lcdb"} }

func (p *Provider) Code() string  { return Code }
func (p *Provider) Label() string { return "The Library of Congress" }

func (p *Provider) SearchableFields() []string {
	return []string{"isbn", "ean", "title", "publisher", "language", "upc", "lccn"}
}

func (p *Provider) SetHTTPClient(c httpx.Doer) { p.client = c }

func (p *Provider) Search(ctx context.Context, criteria map[string]string) ([]record.Record, error) {
	cql := query(criteria)
	if cql == "" {
		return nil, nil
	}
	v := url.Values{}
	v.Set("version", "1.1")
	v.Set("operation", "searchRetrieve")
	v.Set("maximumRecords", strconv.Itoa(maximumRecords))
	v.Set("recordSchema", "mods")
	v.Set("query", cql)
	body, err := httpx.Fetch(ctx, p.client, p.base+"?"+v.Encode(), "application/xml", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Code, err)
	}
	recs, err := feeds.ParseSRU(body)
	if err != nil {
		slog.Debug("malformed document", slog.String("source", Code), slog.String("error", err.Error()))
		return nil, nil
	}
	return recs, nil
}

// query builds the CQL expression in field order, skipping fields the
// catalog does not index and blank values.
func query(criteria map[string]string) string {
	var clauses []string
	for _, field := range slices.Sorted(maps.Keys(criteria)) {
		index, ok := indexes[field]
		val := strings.TrimSpace(criteria[field])
		if !ok || val == "" {
			continue
		}
		if strings.ContainsAny(val, " \t\"") {
			val = strconv.Quote(val)
		}
		clauses = append(clauses, index+"="+val)
	}
	return strings.Join(clauses, " and ")
}
