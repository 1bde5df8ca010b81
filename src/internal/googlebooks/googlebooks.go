// Package googlebooks is the Google Books volumes source.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/stringsx"
)

const Code = "google-books"

var defaultClient httpx.Doer = &http.Client{Timeout: 10 * time.Second}

// Provider looks volumes up by ISBN. An api_key parameter is optional.
type Provider struct {
	client httpx.Doer
	base   string
	apiKey string
}

func New() *Provider {
	return &Provider{client: defaultClient, base: "https://www.googleapis.com/books/v1/volumes"}
}

func (p *Provider) Code() string               { return Code }
func (p *Provider) Label() string              { return "Google Books" }
func (p *Provider) SearchableFields() []string { return []string{"isbn"} }

func (p *Provider) SetHTTPClient(c httpx.Doer) { p.client = c }

func (p *Provider) Configure(params map[string]string) { p.apiKey = strings.TrimSpace(params["api_key"]) }

func (p *Provider) SearchIdentifier(ctx context.Context, id string) ([]record.Record, error) {
	id = strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if id == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("q", "isbn:"+id)
	if p.apiKey != "" {
		q.Set("key", p.apiKey)
	}
	body, err := httpx.Fetch(ctx, p.client, p.base+"?"+q.Encode(), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Code, err)
	}
	var r volumes
	if err := json.Unmarshal(body, &r); err != nil {
		slog.Debug("malformed document", slog.String("source", Code), slog.String("error", err.Error()))
		return nil, nil
	}
	out := make([]record.Record, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, record.FromMap(volumeFields(it.SelfLink, it.VolumeInfo)))
	}
	return out, nil
}

type volumes struct {
	Items []struct {
		SelfLink   string     `json:"selfLink"`
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	PageCount           int      `json:"pageCount"`
	Categories          []string `json:"categories"`
	Language            string   `json:"language"`
	InfoLink            string   `json:"infoLink"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
		Large     string `json:"large"`
	} `json:"imageLinks"`
}

func volumeFields(self string, v volumeInfo) map[string]any {
	ids := map[string]string{}
	for _, id := range v.IndustryIdentifiers {
		ids[id.Type] = id.Identifier
	}
	return map[string]any{
		record.FieldTitle:           sanitize.CleanString(v.Title, 512),
		record.FieldISBN:            stringsx.FirstNonEmpty(ids["ISBN_13"], ids["ISBN_10"]),
		record.FieldAuthors:         sanitize.CleanList(v.Authors),
		record.FieldGenres:          sanitize.CleanList(v.Categories),
		record.FieldPages:           v.PageCount,
		record.FieldCover:           sanitize.CleanURL(stringsx.FirstNonEmpty(v.ImageLinks.Large, v.ImageLinks.Thumbnail)),
		record.FieldPublicationDate: strings.TrimSpace(v.PublishedDate),
		"subtitle":                  sanitize.CleanString(v.Subtitle, 512),
		"publisher":                 sanitize.CleanString(v.Publisher, 512),
		"description":               sanitize.CleanString(v.Description, 8192),
		"language":                  v.Language,
		"googlebooks_link":          sanitize.CleanURL(stringsx.FirstNonEmpty(self, v.InfoLink)),
	}
}
