// Package feedbooks is the FeedBooks OPDS catalog source.
package feedbooks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookmeta/src/internal/feeds"
	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/record"
)

const Code = "feedbooks"

// DefaultLanguage is used when no language parameter is configured.
const DefaultLanguage = "en"

var defaultClient httpx.Doer = &http.Client{Timeout: 10 * time.Second}

type Provider struct {
	client   httpx.Doer
	base     string
	language string
}

func New() *Provider {
	return &Provider{client: defaultClient, base: "https://www.feedbooks.com/search.atom", language: DefaultLanguage}
}

func (p *Provider) Code() string               { return Code }
func (p *Provider) Label() string              { return "FeedBooks" }
func (p *Provider) SearchableFields() []string { return []string{"isbn"} }

func (p *Provider) SetHTTPClient(c httpx.Doer) { p.client = c }

// Configure reads the catalog language; missing or blank means English.
func (p *Provider) Configure(params map[string]string) {
	p.language = DefaultLanguage
	if l := strings.TrimSpace(params["language"]); l != "" {
		p.language = l
	}
}

func (p *Provider) SearchIdentifier(ctx context.Context, id string) ([]record.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("lang", p.language)
	q.Set("query", id)
	body, err := httpx.Fetch(ctx, p.client, p.base+"?"+q.Encode(), "application/atom+xml", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Code, err)
	}
	recs, err := feeds.ParseOPDS(body)
	if err != nil {
		slog.Debug("malformed document", slog.String("source", Code), slog.String("error", err.Error()))
		return nil, nil
	}
	return recs, nil
}
