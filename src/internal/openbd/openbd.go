// Package openbd is the openBD (Japan) source.
package openbd

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
)

const Code = "openbd"

var defaultClient httpx.Doer = &http.Client{Timeout: 12 * time.Second}

type Provider struct {
	client httpx.Doer
	base   string
}

func New() *Provider { return &Provider{client: defaultClient, base: "https://api.openbd.jp/v1/get"} }

func (p *Provider) Code() string               { return Code }
func (p *Provider) Label() string              { return "openBD" }
func (p *Provider) SearchableFields() []string { return []string{"isbn"} }

func (p *Provider) SetHTTPClient(c httpx.Doer) { p.client = c }

// SearchIdentifier returns the summary block of every book openBD knows
// for id; unknown ISBNs come back as null entries and are skipped.
func (p *Provider) SearchIdentifier(ctx context.Context, id string) ([]record.Record, error) {
	id = strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if id == "" {
		return nil, nil
	}
	body, err := httpx.Fetch(ctx, p.client, p.base+"?isbn="+url.QueryEscape(id), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Code, err)
	}
	var arr []*struct {
		Summary summary `json:"summary"`
	}
	if err := json.Unmarshal(body, &arr); err != nil {
		slog.Debug("malformed document", slog.String("source", Code), slog.String("error", err.Error()))
		return nil, nil
	}
	var out []record.Record
	for _, b := range arr {
		if b == nil {
			continue
		}
		out = append(out, record.FromMap(summaryFields(b.Summary)))
	}
	return out, nil
}

type summary struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Volume    string `json:"volume"`
	Series    string `json:"series"`
	Publisher string `json:"publisher"`
	Pubdate   string `json:"pubdate"`
	Cover     string `json:"cover"`
	Author    string `json:"author"`
}

func summaryFields(s summary) map[string]any {
	return map[string]any{
		record.FieldISBN:            strings.TrimSpace(s.ISBN),
		record.FieldTitle:           sanitize.CleanString(s.Title, 512),
		record.FieldSeries:          sanitize.CleanString(s.Series, 512),
		record.FieldCover:           sanitize.CleanURL(s.Cover),
		record.FieldPublicationDate: pubdate(s.Pubdate),
		record.FieldAuthors:         splitAuthors(s.Author),
		"volume":                    sanitize.CleanString(s.Volume, 64),
		"publisher":                 sanitize.CleanString(s.Publisher, 512),
	}
}

// pubdate turns openBD's compact YYYYMMDD / YYYYMM forms into dashed dates,
// which would otherwise read as Unix timestamps.
func pubdate(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case len(s) == 8 && isDigits(s):
		return s[:4] + "-" + s[4:6] + "-" + s[6:]
	case len(s) == 6 && isDigits(s):
		return s[:4] + "-" + s[4:]
	}
	return s
}

// splitAuthors splits the single author string openBD returns on its
// separators; role suffixes such as "／著" are dropped.
func splitAuthors(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '　' || r == ',' })
	var out []string
	for _, f := range fields {
		name, _, _ := strings.Cut(f, "／")
		out = append(out, name)
	}
	return sanitize.CleanList(out)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
