package record

import (
	"maps"
	"slices"

	"bookmeta/src/internal/dates"
	"bookmeta/src/internal/stringsx"
)

// Builder folds raw (field, value) contributions into one Record. The
// classification order is fixed: list, accumulator, date, integer, text,
// and everything else lands in Additional.
type Builder struct {
	rec Record
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// With classifies one raw contribution and applies it. Values may be
// scalars (string, number, time.Time) or lists of scalars.
func (b *Builder) With(field string, value any) *Builder {
	switch Classify(field) {
	case List:
		b.setList(field, value)
	case Accumulator:
		b.accumulate(field, value)
	case Date:
		// unparseable dates are dropped, never kept in Additional
		if d, ok := dates.Coerce(single(value)); ok {
			b.rec.PublicationDate = &d
		}
	case Integer:
		if n, ok := integer(single(value)); ok {
			b.rec.Pages = &n
		} else {
			b.appendAdditional(field, value)
		}
	case Text:
		textSetters[field](&b.rec, text(value))
	default:
		b.appendAdditional(field, value)
	}
	return b
}

// Result returns the built record. The builder keeps no reference to the
// returned value, so further With calls do not affect it.
func (b *Builder) Result() Record {
	out := b.rec.Clone()
	for _, v := range out.Additional {
		slices.Sort(v)
	}
	return out
}

// FromMap drops falsy entries from data, feeds the rest to a new builder in
// sorted key order, and returns the record.
func FromMap(data map[string]any) Record {
	b := NewBuilder()
	for _, field := range slices.Sorted(maps.Keys(data)) {
		v := data[field]
		if Falsy(v) {
			continue
		}
		b.With(field, v)
	}
	return b.Result()
}

func (b *Builder) setList(field string, value any) {
	var vals []string
	if items, ok := listOf(value); ok {
		vals = texts(items)
	} else {
		vals = []string{text(value)}
	}
	*listAttrs[field](&b.rec) = vals
}

// accumulate appends one element to the plural list and keeps it unique.
// A list value is joined into that single element.
func (b *Builder) accumulate(singular string, value any) {
	attr := listAttrs[pluralOf[singular]](&b.rec)
	*attr = stringsx.Unique(append(*attr, text(value)))
}

func (b *Builder) appendAdditional(field string, value any) {
	var vals []string
	if items, ok := listOf(value); ok {
		vals = texts(items)
	} else {
		vals = []string{text(value)}
	}
	if len(vals) == 0 {
		return
	}
	if b.rec.Additional == nil {
		b.rec.Additional = make(map[string][]string)
	}
	b.rec.Additional[field] = stringsx.Unique(append(b.rec.Additional[field], vals...))
}

// single unwraps a one-element list; other values are returned unchanged.
func single(value any) any {
	if items, ok := listOf(value); ok && len(items) == 1 {
		return items[0]
	}
	return value
}
