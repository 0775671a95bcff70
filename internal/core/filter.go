package core

// filter.go implements global search and structured filtering.
//
// Both operate on a slice of records and return a new slice in input order.
// Matching is plain case-insensitive substring containment; there is no
// ranking or fuzziness. When no constraint applies the whole input comes
// back unchanged.

import (
	"slices"
	"strings"
)

// Matcher reports whether a record belongs in a result set.
// A nil Matcher matches everything.
type Matcher func(Record) bool

// normalize prepares a query or criterion value for comparison.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// contains reports whether value contains needle, ignoring case.
// needle must already be normalized.
func contains(value, needle string) bool {
	return strings.Contains(strings.ToLower(value), needle)
}

// QueryMatcher returns a matcher for a global search query.
// A record matches when any SearchFields value contains the query.
// Returns nil for a blank query.
func (s *Schema) QueryMatcher(query string) Matcher {
	q := normalize(query)
	if q == "" {
		return nil
	}

	cols := make([]string, len(SearchFields))
	for i, f := range SearchFields {
		cols[i] = s.Column(f)
	}

	return func(r Record) bool {
		for _, col := range cols {
			if contains(r.Get(col), q) {
				return true
			}
		}
		return false
	}
}

// CriteriaMatcher returns a matcher requiring every non-empty criterion.
// Returns nil when no criterion carries a value.
func (s *Schema) CriteriaMatcher(c Criteria) Matcher {
	active := c.Active()
	if len(active) == 0 {
		return nil
	}

	type constraint struct {
		col    string
		needle string
	}
	constraints := make([]constraint, 0, len(active))
	for _, f := range FilterFields {
		if v, ok := active[f]; ok {
			constraints = append(constraints, constraint{col: s.Column(f), needle: v})
		}
	}
	// Fields outside FilterFields have no column and can never match.
	if len(constraints) != len(active) {
		return func(Record) bool { return false }
	}

	return func(r Record) bool {
		for _, c := range constraints {
			if !contains(r.Get(c.col), c.needle) {
				return false
			}
		}
		return true
	}
}

// Apply returns the records accepted by m, in input order.
// A nil matcher returns a copy of the full input.
func Apply(records []Record, m Matcher) []Record {
	if m == nil {
		return slices.Clone(records)
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if m(r) {
			out = append(out, r)
		}
	}
	return out
}

// Search filters records by a global query using this schema.
func (s *Schema) Search(records []Record, query string) []Record {
	return Apply(records, s.QueryMatcher(query))
}

// FilterBy filters records by per-field criteria using this schema.
func (s *Schema) FilterBy(records []Record, c Criteria) []Record {
	return Apply(records, s.CriteriaMatcher(c))
}

// Search filters records by a global query using DefaultSchema.
func Search(records []Record, query string) []Record {
	return DefaultSchema.Search(records, query)
}

// FilterBy filters records by per-field criteria using DefaultSchema.
func FilterBy(records []Record, c Criteria) []Record {
	return DefaultSchema.FilterBy(records, c)
}
