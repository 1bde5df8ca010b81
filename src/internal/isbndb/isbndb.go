// Package isbndb is the ISBNdb source. It needs an API key.
package isbndb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/provider"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/stringsx"
)

const Code = "isbndb"

var defaultClient httpx.Doer = &http.Client{Timeout: 10 * time.Second}

type Provider struct {
	client httpx.Doer
	base   string
	apiKey string
}

func New() *Provider { return &Provider{client: defaultClient, base: "https://api2.isbndb.com/book/"} }

func (p *Provider) Code() string               { return Code }
func (p *Provider) Label() string              { return "ISBNdb" }
func (p *Provider) SearchableFields() []string { return []string{"isbn"} }

func (p *Provider) SetHTTPClient(c httpx.Doer) { p.client = c }

func (p *Provider) Configure(params map[string]string) { p.apiKey = strings.TrimSpace(params["api_key"]) }

// SearchIdentifier fails with a *provider.MissingParameterError, before
// any request, when no api_key is configured. Unknown ISBNs (404) are an
// empty result.
func (p *Provider) SearchIdentifier(ctx context.Context, id string) ([]record.Record, error) {
	if err := provider.RequireParameters(p, map[string]string{"api_key": p.apiKey}, "get a key at https://isbndb.com"); err != nil {
		return nil, err
	}
	id = strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if id == "" {
		return nil, nil
	}
	body, err := httpx.Fetch(ctx, p.client, p.base+url.PathEscape(id), "application/json", map[string]string{"Authorization": p.apiKey})
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", Code, err)
	}
	var out struct {
		Book *book `json:"book"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		slog.Debug("malformed document", slog.String("source", Code), slog.String("error", err.Error()))
		return nil, nil
	}
	if out.Book == nil {
		return nil, nil
	}
	return []record.Record{record.FromMap(bookFields(*out.Book))}, nil
}

type book struct {
	Title         string   `json:"title"`
	TitleLong     string   `json:"title_long"`
	ISBN13        string   `json:"isbn13"`
	ISBN          string   `json:"isbn"`
	Publisher     string   `json:"publisher"`
	Language      string   `json:"language"`
	DatePublished string   `json:"date_published"`
	Pages         int      `json:"pages"`
	Dimensions    string   `json:"dimensions"`
	Binding       string   `json:"binding"`
	Image         string   `json:"image"`
	Authors       []string `json:"authors"`
	Subjects      []string `json:"subjects"`
	Synopsis      string   `json:"synopsis"`
}

func bookFields(b book) map[string]any {
	return map[string]any{
		record.FieldTitle:           sanitize.CleanString(stringsx.FirstNonEmpty(b.TitleLong, b.Title), 512),
		record.FieldISBN:            stringsx.FirstNonEmpty(b.ISBN13, b.ISBN),
		record.FieldAuthors:         sanitize.CleanList(b.Authors),
		record.FieldGenres:          sanitize.CleanList(b.Subjects),
		record.FieldPages:           b.Pages,
		record.FieldDimension:       sanitize.CleanString(b.Dimensions, 256),
		record.FieldFormat:          sanitize.CleanString(b.Binding, 128),
		record.FieldCover:           sanitize.CleanURL(b.Image),
		record.FieldPublicationDate: strings.TrimSpace(b.DatePublished),
		"publisher":                 sanitize.CleanString(b.Publisher, 512),
		"language":                  b.Language,
		"synopsis":                  sanitize.CleanString(b.Synopsis, 8192),
	}
}
