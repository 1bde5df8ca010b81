package record

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	cases := map[string]Category{
		"isbn":            Text,
		"title":           Text,
		"cover":           Text,
		"pages":           Integer,
		"publicationDate": Date,
		"authors":         List,
		"keywords":        List,
		"author":          Accumulator,
		"genre":           Accumulator,
		"publisher":       Unclassified,
		"Title":           Unclassified,
		"":                Unclassified,
	}
	for field, want := range cases {
		if got := Classify(field); got != want {
			t.Fatalf("Classify(%q): want %s, got %s", field, want, got)
		}
	}
	if p, ok := PluralOf("translator"); !ok || p != "translators" {
		t.Fatalf("PluralOf(translator): %q %v", p, ok)
	}
}

func TestWithListAssignsAsGiven(t *testing.T) {
	r := NewBuilder().
		With("authors", []string{"A", "B"}).
		With("authors", []string{"C", "C"}).
		With("genres", "Fantasy").
		Result()
	if diff := cmp.Diff([]string{"C", "C"}, r.Authors); diff != "" {
		t.Fatalf("authors replaced as given (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Fantasy"}, r.Genres); diff != "" {
		t.Fatalf("scalar wrapped (-want +got):\n%s", diff)
	}
}

func TestWithAccumulatorDedupes(t *testing.T) {
	b := NewBuilder()
	for _, a := range []string{"a", "b", "a"} {
		b.With("author", a)
	}
	r := b.Result()
	if diff := cmp.Diff([]string{"a", "b"}, r.Authors); diff != "" {
		t.Fatalf("author accumulator (-want +got):\n%s", diff)
	}
	r = NewBuilder().With("keyword", []string{"x", "y"}).With("keyword", "z").Result()
	if diff := cmp.Diff([]string{"x, y", "z"}, r.Keywords); diff != "" {
		t.Fatalf("list joined into one element (-want +got):\n%s", diff)
	}
}

func TestWithAccumulatorAfterPlural(t *testing.T) {
	r := NewBuilder().With("illustrators", []string{"I1", "I2"}).With("illustrator", "I1").With("illustrator", "I3").Result()
	if diff := cmp.Diff([]string{"I1", "I2", "I3"}, r.Illustrators); diff != "" {
		t.Fatalf("accumulate onto plural (-want +got):\n%s", diff)
	}
}

func TestWithDate(t *testing.T) {
	r := NewBuilder().With("publicationDate", "13.06.2019").Result()
	if r.PublicationDate == nil || !r.PublicationDate.Equal(time.Date(2019, time.June, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("publicationDate: %v", r.PublicationDate)
	}
	r = NewBuilder().With("publicationDate", "garbage").Result()
	if r.PublicationDate != nil {
		t.Fatalf("garbage date should be dropped: %v", r.PublicationDate)
	}
	if len(r.Additional) != 0 {
		t.Fatalf("unparseable date must not fall through to additional: %v", r.Additional)
	}
	r = NewBuilder().With("publicationDate", []string{"2004"}).Result()
	if r.PublicationDate == nil || r.PublicationDate.Year() != 2004 {
		t.Fatalf("single element date list: %v", r.PublicationDate)
	}
}

func TestWithPages(t *testing.T) {
	r := NewBuilder().With("pages", []any{"320"}).Result()
	if r.Pages == nil || *r.Pages != 320 {
		t.Fatalf("pages unwrap: %v", r.Pages)
	}
	r = NewBuilder().With("pages", 412.0).Result()
	if r.Pages == nil || *r.Pages != 412 {
		t.Fatalf("pages float: %v", r.Pages)
	}
	r = NewBuilder().With("pages", "xii, 300 p.").Result()
	if r.Pages != nil {
		t.Fatalf("non numeric pages must not be set: %v", *r.Pages)
	}
	if diff := cmp.Diff(map[string][]string{"pages": {"xii, 300 p."}}, r.Additional); diff != "" {
		t.Fatalf("non numeric pages go to additional (-want +got):\n%s", diff)
	}
}

func TestWithTextJoinsLists(t *testing.T) {
	r := NewBuilder().
		With("title", []string{"Dune", "Messiah"}).
		With("isbn", 9780441013593).
		With("format", "Paperback").
		Result()
	if r.Title != "Dune, Messiah" {
		t.Fatalf("title join: %q", r.Title)
	}
	if r.ISBN != "9780441013593" {
		t.Fatalf("isbn from number: %q", r.ISBN)
	}
	if r.Format != "Paperback" {
		t.Fatalf("format: %q", r.Format)
	}
}

func TestWithAdditional(t *testing.T) {
	r := NewBuilder().
		With("publisher", "Ace").
		With("publisher", []string{"Chilton", "Ace"}).
		With("language", "en").
		Result()
	want := map[string][]string{
		"publisher": {"Ace", "Chilton"},
		"language":  {"en"},
	}
	if diff := cmp.Diff(want, r.Additional); diff != "" {
		t.Fatalf("additional (-want +got):\n%s", diff)
	}
	if got := r.AdditionalKeys(); len(got) != 2 || got[0] != "language" || got[1] != "publisher" {
		t.Fatalf("AdditionalKeys: %v", got)
	}
}

func TestResultIsDetached(t *testing.T) {
	b := NewBuilder().With("author", "A").With("misc", "x")
	r := b.Result()
	b.With("author", "B").With("misc", "y")
	if len(r.Authors) != 1 || len(r.Additional["misc"]) != 1 {
		t.Fatalf("record mutated after hand-off: %+v", r)
	}
}

func TestFromMapDropsFalsy(t *testing.T) {
	r := FromMap(map[string]any{
		"title":           "Dune",
		"isbn":            "",
		"pages":           0,
		"authors":         []string{},
		"publisher":       nil,
		"series":          "0",
		"publicationDate": "1965",
		"subtitle":        []string{},
		"language":        "en",
	})
	if r.Title != "Dune" || r.ISBN != "" || r.Pages != nil || r.Authors != nil || r.Series != "" {
		t.Fatalf("falsy values leaked: %+v", r)
	}
	if r.PublicationDate == nil || r.PublicationDate.Year() != 1965 {
		t.Fatalf("date: %v", r.PublicationDate)
	}
	if diff := cmp.Diff(map[string][]string{"language": {"en"}}, r.Additional); diff != "" {
		t.Fatalf("additional (-want +got):\n%s", diff)
	}
}

func TestFromMapEmpty(t *testing.T) {
	r := FromMap(nil)
	if !Equal(r, Record{}) {
		t.Fatalf("empty map should give an empty record: %+v", r)
	}
}
