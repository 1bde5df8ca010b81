// Package record holds the canonical book record every source adapter
// produces, and the builder that folds loosely shaped source fields into it.
package record

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"bookmeta/src/internal/stringsx"
)

// Record is one book as reported by one source. A field lives either in one
// of the typed attributes or in Additional, never both. Records are built
// once by a Builder and not mutated afterwards.
type Record struct {
	ISBN            string              `yaml:"isbn,omitempty" json:"isbn,omitempty"`
	Title           string              `yaml:"title,omitempty" json:"title,omitempty"`
	Authors         []string            `yaml:"authors,omitempty" json:"authors,omitempty"`
	Pages           *int                `yaml:"pages,omitempty" json:"pages,omitempty"`
	Series          string              `yaml:"series,omitempty" json:"series,omitempty"`
	Illustrators    []string            `yaml:"illustrators,omitempty" json:"illustrators,omitempty"`
	Translators     []string            `yaml:"translators,omitempty" json:"translators,omitempty"`
	Genres          []string            `yaml:"genres,omitempty" json:"genres,omitempty"`
	Keywords        []string            `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	PublicationDate *time.Time          `yaml:"publication_date,omitempty" json:"publication_date,omitempty"`
	Format          string              `yaml:"format,omitempty" json:"format,omitempty"`
	Dimension       string              `yaml:"dimension,omitempty" json:"dimension,omitempty"`
	Cover           string              `yaml:"cover,omitempty" json:"cover,omitempty"`
	Additional      map[string][]string `yaml:"additional,omitempty" json:"additional,omitempty"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.Authors = slices.Clone(r.Authors)
	out.Illustrators = slices.Clone(r.Illustrators)
	out.Translators = slices.Clone(r.Translators)
	out.Genres = slices.Clone(r.Genres)
	out.Keywords = slices.Clone(r.Keywords)
	if r.Pages != nil {
		p := *r.Pages
		out.Pages = &p
	}
	if r.PublicationDate != nil {
		d := *r.PublicationDate
		out.PublicationDate = &d
	}
	if r.Additional != nil {
		out.Additional = make(map[string][]string, len(r.Additional))
		for k, v := range r.Additional {
			out.Additional[k] = slices.Clone(v)
		}
	}
	return out
}

// AdditionalKeys returns the keys of the additional bag in sorted order.
func (r Record) AdditionalKeys() []string {
	return slices.Sorted(maps.Keys(r.Additional))
}

// Equal reports whether a and b carry the same canonical values. Nil and
// empty collections compare equal, dates compare as instants, and the
// additional bag compares as a set per key.
func Equal(a, b Record) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty(), additionalAsSets)
}

var additionalAsSets = cmp.FilterPath(func(p cmp.Path) bool {
	for _, step := range p {
		if sf, ok := step.(cmp.StructField); ok && sf.Name() == "Additional" {
			return true
		}
	}
	return false
}, cmpopts.SortSlices(func(x, y string) bool { return x < y }))

// Dedupe drops records structurally equal to an earlier one, keeping the
// first occurrence and the original order.
func Dedupe(in []Record) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		if slices.ContainsFunc(out, func(seen Record) bool { return Equal(seen, r) }) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summary is a one-line human description used in logs and text output.
func (r Record) Summary() string {
	parts := []string{stringsx.FirstNonEmpty(r.Title, "(untitled)")}
	if len(r.Authors) > 0 {
		parts = append(parts, strings.Join(r.Authors, ", "))
	}
	if r.PublicationDate != nil {
		parts = append(parts, r.PublicationDate.Format("2006"))
	}
	if r.ISBN != "" {
		parts = append(parts, "ISBN "+r.ISBN)
	}
	return strings.Join(parts, " / ")
}
