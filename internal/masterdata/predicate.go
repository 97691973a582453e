package masterdata

import "fmt"

// Predicate selects which lookup a retrieval performs.
type Predicate int

// Supported predicates. The zero value is invalid.
const (
	ByIDAndLocale Predicate = iota + 1
	ByLocale
	All
)

// String returns the predicate name used in logs and metrics.
func (p Predicate) String() string {
	switch p {
	case ByIDAndLocale:
		return "by_id_and_locale"
	case ByLocale:
		return "by_locale"
	case All:
		return "all"
	default:
		return fmt.Sprintf("predicate(%d)", int(p))
	}
}

// Valid reports whether p is one of the supported predicates.
func (p Predicate) Valid() bool {
	return p == ByIDAndLocale || p == ByLocale || p == All
}

// Query describes one retrieval request.
//
// ID is only read for ByIDAndLocale; LangCode for ByIDAndLocale and ByLocale.
type Query struct {
	Predicate Predicate
	ID        string
	LangCode  string
}

// QueryByIDAndLocale builds a query matching one identifier in one locale.
func QueryByIDAndLocale(id, langCode string) Query {
	return Query{Predicate: ByIDAndLocale, ID: id, LangCode: langCode}
}

// QueryByLocale builds a query matching every record in one locale.
func QueryByLocale(langCode string) Query {
	return Query{Predicate: ByLocale, LangCode: langCode}
}

// QueryAll builds an unfiltered query.
func QueryAll() Query {
	return Query{Predicate: All}
}
