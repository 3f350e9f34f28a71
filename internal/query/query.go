// Package query describes multi-term search queries and filters primary
// matches on the secondary terms that must share their line.
package query

import (
	"errors"
	"strings"

	"github.com/dl/gocs/internal/matcher"
)

// ErrEmptyQuery is returned by Parse when the text holds no search term.
var ErrEmptyQuery = errors.New("query: no search term")

// Wildcard separates the terms of a query string.
const Wildcard = "*"

// Term is one literal search string and the options it is matched with.
type Term struct {
	Text    string
	Options matcher.Options
}

// Parsed is a query with one main term and the terms that must appear
// before and after it on the same line. All terms are required.
type Parsed struct {
	Main   Term
	Before []Term
	After  []Term
}

// HasOtherEntries reports whether the query constrains the line around the
// main match.
func (q Parsed) HasOtherEntries() bool {
	return len(q.Before) > 0 || len(q.After) > 0
}

// Terms returns the main term followed by the before and after terms.
func (q Parsed) Terms() []Term {
	terms := make([]Term, 0, 1+len(q.Before)+len(q.After))
	terms = append(terms, q.Main)
	terms = append(terms, q.Before...)
	return append(terms, q.After...)
}

// String renders the query back in its wildcard form.
func (q Parsed) String() string {
	parts := make([]string, 0, 1+len(q.Before)+len(q.After))
	for _, t := range q.Before {
		parts = append(parts, t.Text)
	}
	parts = append(parts, q.Main.Text)
	for _, t := range q.After {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, Wildcard)
}

// Parse splits text on Wildcard. The longest segment becomes the main term
// (the first one on ties) since it drives the file scan; segments to its
// left and right become the before and after terms. Empty segments are dropped.
func Parse(text string, opts matcher.Options) (Parsed, error) {
	var segments []string
	for _, s := range strings.Split(text, Wildcard) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return Parsed{}, ErrEmptyQuery
	}

	main := 0
	for i, s := range segments {
		if len(s) > len(segments[main]) {
			main = i
		}
	}

	q := Parsed{Main: Term{Text: segments[main], Options: opts}}
	for _, s := range segments[:main] {
		q.Before = append(q.Before, Term{Text: s, Options: opts})
	}
	for _, s := range segments[main+1:] {
		q.After = append(q.After, Term{Text: s, Options: opts})
	}
	return q, nil
}
