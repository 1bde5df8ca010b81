// Package catalog lists every built-in source in query order.
package catalog

import (
	"bookmeta/src/internal/crossref"
	"bookmeta/src/internal/feedbooks"
	"bookmeta/src/internal/googlebooks"
	"bookmeta/src/internal/isbndb"
	"bookmeta/src/internal/loc"
	"bookmeta/src/internal/openbd"
	"bookmeta/src/internal/openlibrary"
	"bookmeta/src/internal/provider"
)

// All returns fresh instances of every source. Earlier sources come first
// in merged results.
func All() []provider.Provider {
	return []provider.Provider{
		openlibrary.New(),
		googlebooks.New(),
		crossref.New(),
		openbd.New(),
		feedbooks.New(),
		loc.New(),
		isbndb.New(),
	}
}

// Find returns the source with the given code from ps.
func Find(ps []provider.Provider, code string) (provider.Provider, bool) {
	for _, p := range ps {
		if p.Code() == code {
			return p, true
		}
	}
	return nil, false
}
