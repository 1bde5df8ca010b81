// Package crossref is the Crossref works source.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/names"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/stringsx"
)

const Code = "crossref"

// rows caps how many works one query returns.
const rows = 5

var defaultClient httpx.Doer = &http.Client{Timeout: 12 * time.Second}

// Provider searches works by ISBN, title and author, in any combination.
type Provider struct {
	client httpx.Doer
	base   string
}

func New() *Provider { return &Provider{client: defaultClient, base: "https://api.crossref.org/works"} }

func (p *Provider) Code() string               { return Code }
func (p *Provider) Label() string              { return "Crossref" }
func (p *Provider) SearchableFields() []string { return []string{"isbn", "title", "author"} }

func (p *Provider) SetHTTPClient(c httpx.Doer) { p.client = c }

// Search ignores criteria it does not understand; with none left it
// returns no records without querying.
func (p *Provider) Search(ctx context.Context, criteria map[string]string) ([]record.Record, error) {
	v := url.Values{}
	isbn := strings.TrimSpace(criteria["isbn"])
	if isbn != "" {
		v.Set("filter", "isbn:"+isbn)
	}
	if t := strings.TrimSpace(criteria["title"]); t != "" {
		v.Set("query.title", t)
	}
	if a := strings.TrimSpace(criteria["author"]); a != "" {
		v.Set("query.author", a)
	}
	if len(v) == 0 {
		return nil, nil
	}
	if isbn == "" {
		v.Set("filter", "type:book")
	}
	v.Set("rows", strconv.Itoa(rows))
	body, err := httpx.Fetch(ctx, p.client, p.base+"?"+v.Encode(), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Code, err)
	}
	var out works
	if err := json.Unmarshal(body, &out); err != nil {
		slog.Debug("malformed document", slog.String("source", Code), slog.String("error", err.Error()))
		return nil, nil
	}
	recs := make([]record.Record, 0, len(out.Message.Items))
	for _, it := range out.Message.Items {
		recs = append(recs, record.FromMap(workFields(it)))
	}
	return recs, nil
}

type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

type work struct {
	Title          []string                         `json:"title"`
	Subtitle       []string                         `json:"subtitle"`
	Author         []struct{ Given, Family string } `json:"author"`
	Publisher      string                           `json:"publisher"`
	PublishedPrint dateParts                        `json:"published-print"`
	Issued         dateParts                        `json:"issued"`
	ISBN           []string                         `json:"ISBN"`
	Subject        []string                         `json:"subject"`
	DOI            string                           `json:"DOI"`
	URL            string                           `json:"URL"`
	Type           string                           `json:"type"`
}

type works struct {
	Message struct {
		Items []work `json:"items"`
	} `json:"message"`
}

func workFields(w work) map[string]any {
	var authors []string
	for _, a := range w.Author {
		authors = append(authors, names.Join(a.Given, a.Family))
	}
	return map[string]any{
		record.FieldTitle:           sanitize.CleanString(first(w.Title), 512),
		record.FieldISBN:            first(w.ISBN),
		record.FieldAuthors:         sanitize.CleanList(authors),
		record.FieldGenres:          sanitize.CleanList(w.Subject),
		record.FieldPublicationDate: stringsx.FirstNonEmpty(formatDateParts(w.PublishedPrint), formatDateParts(w.Issued)),
		"subtitle":                  sanitize.CleanString(first(w.Subtitle), 512),
		"publisher":                 sanitize.CleanString(w.Publisher, 512),
		"doi":                       strings.TrimSpace(w.DOI),
		"crossref_link":             sanitize.CleanURL(w.URL),
		"crossref_type":             w.Type,
	}
}

// formatDateParts renders the first date-parts entry as Y, Y-M or Y-M-D.
func formatDateParts(d dateParts) string {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 || d.DateParts[0][0] <= 0 {
		return ""
	}
	parts := d.DateParts[0]
	if len(parts) > 3 {
		parts = parts[:3]
	}
	out := make([]string, len(parts))
	for i, n := range parts {
		out[i] = strconv.Itoa(n)
	}
	return strings.Join(out, "-")
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0])
}
