package feeds

import (
	"regexp"
	"strings"

	"bookmeta/src/internal/names"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
)

var year = regexp.MustCompile(`\d{4}`)

// ParseSRU reads the MODS records of an SRU searchRetrieve response.
func ParseSRU(b []byte) ([]record.Record, error) {
	root, err := parseTree(b)
	if err != nil {
		return nil, err
	}
	var out []record.Record
	for _, rd := range root.descendants("recordData") {
		for _, mods := range rd.children("mods") {
			out = append(out, record.FromMap(modsFields(mods)))
		}
	}
	return out, nil
}

func modsFields(m *node) map[string]any {
	f := map[string]any{
		record.FieldTitle:   sanitize.CleanString(m.first("titleInfo", "title"), 512),
		"subtitle":          sanitize.CleanString(m.first("titleInfo", "subTitle"), 512),
		record.FieldAuthors: modsNames(m),
		"language":          m.first("language", "languageTerm"),
		record.FieldGenres:  sanitize.CleanList(m.all("genre")),
	}
	var origin []*node
	for _, o := range m.children("originInfo") {
		if ev := o.attr("eventType"); ev == "" || ev == "publisher" || ev == "publication" {
			origin = append(origin, o)
		}
	}
	for _, o := range origin {
		if p := o.first("publisher"); p != "" {
			f["publisher"] = sanitize.CleanString(p, 512)
			break
		}
	}
	for _, o := range origin {
		if y := year.FindString(o.first("dateIssued")); y != "" {
			f[record.FieldPublicationDate] = y
			break
		}
	}
	for _, form := range m.path("physicalDescription", "form") {
		if form.attr("authority") == "marcform" && form.text() != "" {
			f[record.FieldFormat] = form.text()
			break
		}
	}
	for _, id := range m.children("identifier") {
		typ := strings.ToLower(id.attr("type"))
		val, _, _ := strings.Cut(id.text(), " ")
		if val == "" {
			continue
		}
		switch typ {
		case "isbn":
			if _, ok := f[record.FieldISBN]; !ok {
				f[record.FieldISBN] = val
			}
		case "lccn", "oclc", "issn", "upc", "ean":
			f[typ+"_id"] = val
		}
	}
	return f
}

// modsNames reads every <name>, either from typed given/family parts or
// from a single catalog heading.
func modsNames(m *node) []string {
	var out []string
	for _, n := range m.children("name") {
		var given, family, heading []string
		for _, part := range n.children("namePart") {
			switch part.attr("type") {
			case "given":
				given = append(given, part.text())
			case "family":
				family = append(family, part.text())
			case "":
				heading = append(heading, part.text())
			}
		}
		if len(given)+len(family) > 0 {
			out = append(out, names.Join(strings.Join(given, " "), strings.Join(family, " ")))
			continue
		}
		out = append(out, names.Display(strings.Join(heading, ", ")))
	}
	return sanitize.CleanList(out)
}
