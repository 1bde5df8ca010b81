package record

// Category is the classification of a raw field name.
type Category int

const (
	Unclassified Category = iota // kept in Record.Additional
	Text                         // single string attribute
	Integer                      // pages
	Date                         // publicationDate
	List                         // plural list attribute, assigned as a whole
	Accumulator                  // singular name appending into its plural list
)

func (c Category) String() string {
	switch c {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Date:
		return "date"
	case List:
		return "list"
	case Accumulator:
		return "accumulator"
	default:
		return "unclassified"
	}
}

// Canonical field names as sources spell them.
const (
	FieldISBN            = "isbn"
	FieldTitle           = "title"
	FieldAuthors         = "authors"
	FieldPages           = "pages"
	FieldSeries          = "series"
	FieldIllustrators    = "illustrators"
	FieldTranslators     = "translators"
	FieldGenres          = "genres"
	FieldKeywords        = "keywords"
	FieldPublicationDate = "publicationDate"
	FieldFormat          = "format"
	FieldDimension       = "dimension"
	FieldCover           = "cover"
)

var textSetters = map[string]func(*Record, string){
	FieldISBN:      func(r *Record, v string) { r.ISBN = v },
	FieldTitle:     func(r *Record, v string) { r.Title = v },
	FieldSeries:    func(r *Record, v string) { r.Series = v },
	FieldFormat:    func(r *Record, v string) { r.Format = v },
	FieldDimension: func(r *Record, v string) { r.Dimension = v },
	FieldCover:     func(r *Record, v string) { r.Cover = v },
}

var listAttrs = map[string]func(*Record) *[]string{
	FieldAuthors:      func(r *Record) *[]string { return &r.Authors },
	FieldIllustrators: func(r *Record) *[]string { return &r.Illustrators },
	FieldTranslators:  func(r *Record) *[]string { return &r.Translators },
	FieldGenres:       func(r *Record) *[]string { return &r.Genres },
	FieldKeywords:     func(r *Record) *[]string { return &r.Keywords },
}

// pluralOf maps each singular accumulator name to its list attribute.
var pluralOf = map[string]string{
	"author":      FieldAuthors,
	"illustrator": FieldIllustrators,
	"translator":  FieldTranslators,
	"genre":       FieldGenres,
	"keyword":     FieldKeywords,
}

// Classify returns the category of a raw field name. Names are matched
// exactly; anything outside the canonical set is Unclassified.
func Classify(field string) Category {
	if _, ok := listAttrs[field]; ok {
		return List
	}
	if _, ok := pluralOf[field]; ok {
		return Accumulator
	}
	switch field {
	case FieldPublicationDate:
		return Date
	case FieldPages:
		return Integer
	}
	if _, ok := textSetters[field]; ok {
		return Text
	}
	return Unclassified
}

// PluralOf returns the list attribute a singular accumulator feeds.
func PluralOf(singular string) (string, bool) {
	p, ok := pluralOf[singular]
	return p, ok
}
