package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"bookmeta/src/internal/record"
)

// render writes records in the chosen format. yaml and json emit an empty
// list rather than nothing, so the output always parses.
func render(w io.Writer, format string, recs []record.Record) error {
	if recs == nil {
		recs = []record.Record{}
	}
	switch strings.ToLower(format) {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	default:
		return renderText(w, recs)
	}
}

func renderText(w io.Writer, recs []record.Record) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "no records")
		return err
	}
	for i, r := range recs {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, r.Summary()); err != nil {
			return err
		}
		line := func(k, v string) {
			if v != "" {
				fmt.Fprintf(w, "   %s: %s\n", k, v)
			}
		}
		if r.Pages != nil {
			line("pages", fmt.Sprint(*r.Pages))
		}
		line("series", r.Series)
		line("genres", strings.Join(r.Genres, ", "))
		line("format", r.Format)
		line("cover", r.Cover)
		for _, k := range r.AdditionalKeys() {
			line(k, strings.Join(r.Additional[k], ", "))
		}
	}
	return nil
}
