package contents

import (
	"github.com/dl/gocs/internal/matcher"
	"github.com/dl/gocs/internal/query"
)

// SearchData is a parsed query with its terms compiled once. It is immutable
// and shared by all files searched for the same query.
type SearchData struct {
	Query query.Parsed
	algos map[query.Term]matcher.Algorithm
}

// NewSearchData compiles every term of q with the algorithm matcher.Select
// picks for its length.
func NewSearchData(q query.Parsed) *SearchData {
	sd := &SearchData{
		Query: q,
		algos: make(map[query.Term]matcher.Algorithm),
	}
	for _, t := range q.Terms() {
		if _, ok := sd.algos[t]; !ok {
			sd.algos[t] = matcher.New(t.Text, t.Options)
		}
	}
	return sd
}

// Algorithm returns the compiled algorithm for term. Terms outside the query
// are compiled on the fly.
func (sd *SearchData) Algorithm(t query.Term) matcher.Algorithm {
	if a, ok := sd.algos[t]; ok {
		return a
	}
	return matcher.New(t.Text, t.Options)
}
