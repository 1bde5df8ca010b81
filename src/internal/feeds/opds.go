package feeds

import (
	"regexp"
	"strings"

	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/stringsx"
)

var leadingNumber = regexp.MustCompile(`\d+`)

// ParseOPDS reads every Atom entry of an OPDS feed. A document that is not
// XML yields no records and the parse error.
func ParseOPDS(b []byte) ([]record.Record, error) {
	root, err := parseTree(b)
	if err != nil {
		return nil, err
	}
	var out []record.Record
	for _, entry := range root.descendants("entry") {
		out = append(out, record.FromMap(opdsFields(entry)))
	}
	return out, nil
}

func opdsFields(e *node) map[string]any {
	m := map[string]any{
		record.FieldTitle:   sanitize.CleanString(e.first("title"), 512),
		record.FieldISBN:    opdsISBN(e.all("identifier")),
		record.FieldAuthors: sanitize.CleanList(e.all("author", "name")),
		"language":          e.first("language"),
		"publisher":         sanitize.CleanString(e.first("publisher"), 512),
		"summary":           sanitize.CleanString(e.first("summary"), 4096),
		"opds_link":         e.all("id"),
		record.FieldCover:   opdsCover(e),
	}
	if n := leadingNumber.FindString(e.first("extent")); n != "" {
		m[record.FieldPages] = n
	}
	var genres []string
	for _, c := range e.children("category") {
		genres = append(genres, stringsx.FirstNonEmpty(c.attr("label"), c.attr("term")))
	}
	m[record.FieldGenres] = sanitize.CleanList(genres)
	if d := stringsx.FirstNonEmpty(e.first("published"), e.first("issued")); d != "" {
		m[record.FieldPublicationDate] = d
	}
	return m
}

// opdsISBN picks the first identifier that looks like an ISBN, stripping
// the urn:isbn: prefix feeds commonly use.
func opdsISBN(ids []string) string {
	for _, id := range ids {
		low := strings.ToLower(id)
		if rest, ok := strings.CutPrefix(low, "urn:isbn:"); ok {
			return strings.ToUpper(rest)
		}
		if !strings.Contains(low, ":") {
			return id
		}
	}
	return ""
}

// opdsCover returns the first full-size image link.
func opdsCover(e *node) string {
	for _, l := range e.children("link") {
		if strings.HasPrefix(l.attr("type"), "image") && !strings.Contains(l.attr("rel"), "thumbnail") {
			if u := sanitize.CleanURL(l.attr("href")); u != "" {
				return u
			}
		}
	}
	return ""
}
