package model

import (
	"fmt"
	"regexp"
)

// Filter attribute names understood by the index parser.
const (
	FilterName    = "name"
	FilterVersion = "version"
	FilterArch    = "arch"
	FilterDistrib = "distrib"
)

// Filter matches one index-entry attribute. A filter built from a plain
// string is an anchored literal; one built from a pattern keeps the pattern's
// own anchoring.
type Filter struct {
	re *regexp.Regexp
}

// NewExactFilter builds a filter matching the literal value exactly.
func NewExactFilter(value string) *Filter {
	return &Filter{re: regexp.MustCompile("^" + regexp.QuoteMeta(value) + "$")}
}

// NewPatternFilter compiles the expression as a regular expression.
func NewPatternFilter(expr string) (*Filter, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", expr, err)
	}
	return &Filter{re: re}, nil
}

// Match reports whether the value satisfies the filter.
func (f *Filter) Match(value string) bool {
	return f.re.MatchString(value)
}

// String returns the underlying expression.
func (f *Filter) String() string {
	return f.re.String()
}

// Filters maps attribute names to filters. A nil filter for a present key
// never matches.
type Filters map[string]*Filter

// MatchEntry reports whether the entry satisfies every filter present. For
// each filter key the entry's value must exist and match. Source packages
// carry no architecture and pass any arch filter.
func (fs Filters) MatchEntry(entry IndexEntry) bool {
	for key, filter := range fs {
		if filter == nil {
			return false
		}
		var value string
		switch key {
		case FilterName:
			value = entry.Name
		case FilterVersion:
			value = entry.Version
		case FilterArch:
			if entry.Arch == "" {
				continue
			}
			value = entry.Arch
		case FilterDistrib:
			value = entry.Distrib
		default:
			return false
		}
		if value == "" || !filter.Match(value) {
			return false
		}
	}
	return true
}
