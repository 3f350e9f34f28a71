package output

import (
	"github.com/dl/gocs/internal/contents"
	"github.com/dl/gocs/internal/matcher"
)

// Result aggregates the matches found in a single file.
type Result struct {
	FilePath string
	SeqNum   int
	// Spans are every match in the file, in position order.
	Spans []matcher.Span
	// Extracts are the printable snippets for Spans. Matches on empty lines
	// have no extract, so len(Extracts) may be less than len(Spans).
	Extracts []contents.Extract
	Err      error
}

// Count returns the number of matches in this result.
func (r Result) Count() int {
	return len(r.Spans)
}

// HasMatch returns true if this result has at least one match.
func (r Result) HasMatch() bool {
	return r.Err == nil && len(r.Spans) > 0
}

// Formatter renders a Result by appending to buf, which callers may pass as
// buf[:0] to reuse its array. multiFile asks for file name prefixes.
type Formatter interface {
	Format(buf []byte, result Result, multiFile bool) []byte
}
