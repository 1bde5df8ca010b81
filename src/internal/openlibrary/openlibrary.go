// Package openlibrary is the Open Library Books source.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/stringsx"
)

const Code = "open-library"

var defaultClient httpx.Doer = &http.Client{Timeout: 10 * time.Second}

// bibkey prefixes per searchable field.
var searchTypes = map[string]string{
	"isbn": "ISBN",
	"ean":  "ISBN",
	"olid": "OLID",
	"oclc": "OCLC",
	"lccn": "LCCN",
}

// identifiers copied into Additional as <name>_id.
var extraIDs = []string{"google", "lccn", "amazon", "oclc", "librarything", "project_gutenberg", "goodreads", "openlibrary"}

// Provider queries one identifier at a time.
type Provider struct {
	client httpx.Doer
	base   string
}

func New() *Provider { return &Provider{client: defaultClient, base: "https://openlibrary.org"} }

func (p *Provider) Code() string  { return Code }
func (p *Provider) Label() string { return "Open Library Books" }

func (p *Provider) SearchableFields() []string {
	return []string{"isbn", "ean", "olid", "oclc", "lccn"}
}

// SetHTTPClient allows tests to inject a fake HTTP client.
func (p *Provider) SetHTTPClient(c httpx.Doer) { p.client = c }

// SearchOne looks up a single identifier. Unknown fields yield no records.
func (p *Provider) SearchOne(ctx context.Context, field, value string) ([]record.Record, error) {
	typ, ok := searchTypes[strings.ToLower(field)]
	if !ok {
		return nil, nil
	}
	value = strings.TrimSpace(value)
	if typ == "ISBN" {
		value = normalizeISBN(value)
	}
	if value == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("bibkeys", typ+":"+value)
	q.Set("format", "json")
	q.Set("jscmd", "data")
	body, err := httpx.Fetch(ctx, p.client, p.base+"/api/books?"+q.Encode(), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Code, err)
	}
	return parseBooks(body), nil
}

type named struct {
	Name string `json:"name"`
}

type olBook struct {
	Title         string              `json:"title"`
	URL           string              `json:"url"`
	NumberOfPages int                 `json:"number_of_pages"`
	PublishDate   string              `json:"publish_date"`
	Weight        string              `json:"weight"`
	Authors       []named             `json:"authors"`
	Publishers    []named             `json:"publishers"`
	Subjects      []named             `json:"subjects"`
	Identifiers   map[string][]string `json:"identifiers"`
	Cover         struct {
		Large string `json:"large"`
	} `json:"cover"`
	Links []struct {
		URL string `json:"url"`
	} `json:"links"`
}

// parseBooks maps a jscmd=data response, keyed by bibkey, in key order.
func parseBooks(body []byte) []record.Record {
	var raw map[string]olBook
	if err := json.Unmarshal(body, &raw); err != nil {
		slog.Debug("malformed document", slog.String("source", Code), slog.String("error", err.Error()))
		return nil
	}
	var out []record.Record
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		out = append(out, record.FromMap(bookFields(raw[key])))
	}
	return out
}

func bookFields(b olBook) map[string]any {
	m := map[string]any{
		record.FieldTitle:           sanitize.CleanString(b.Title, 512),
		record.FieldISBN:            stringsx.FirstNonEmpty(first(b.Identifiers["isbn_13"]), first(b.Identifiers["isbn_10"])),
		record.FieldAuthors:         names(b.Authors),
		record.FieldGenres:          names(b.Subjects),
		record.FieldPages:           b.NumberOfPages,
		record.FieldCover:           sanitize.CleanURL(b.Cover.Large),
		record.FieldPublicationDate: strings.TrimSpace(b.PublishDate),
		"publisher":                 names(b.Publishers),
		"openlibrary_link":          sanitize.CleanURL(b.URL),
		"weight":                    b.Weight,
	}
	for _, id := range extraIDs {
		m[id+"_id"] = b.Identifiers[id]
	}
	var links []string
	for _, l := range b.Links {
		if u := sanitize.CleanURL(l.URL); u != "" {
			links = append(links, u)
		}
	}
	m["links"] = links
	return m
}

func names(ns []named) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Name)
	}
	return sanitize.CleanList(out)
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// normalizeISBN keeps digits and X and, if a 9-digit core is provided,
// appends the ISBN-10 check digit.
func normalizeISBN(isbn string) string {
	s := strings.ToUpper(strings.TrimSpace(isbn))
	core := make([]rune, 0, len(s))
	digitsOnly := true
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			core = append(core, r)
		case r == 'X':
			core = append(core, r)
			digitsOnly = false
		}
	}
	if len(core) == 9 && digitsOnly {
		return string(core) + isbn10CheckDigit(string(core))
	}
	return string(core)
}

// isbn10CheckDigit computes the ISBN-10 check digit for a 9-digit string, returning "0"-"9" or "X".
func isbn10CheckDigit(s string) string {
	sum := 0
	for i, ch := range s {
		sum += (i + 1) * int(ch-'0')
	}
	cd := sum % 11
	if cd == 10 {
		return "X"
	}
	return fmt.Sprintf("%d", cd)
}
