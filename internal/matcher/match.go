package matcher

// Span is a match location: a byte offset into the searched buffer plus a length.
type Span struct {
	Position int
	Length   int
}

// End returns the offset one past the last byte of the span.
func (s Span) End() int {
	return s.Position + s.Length
}

// Options controls how a pattern is compared against the buffer.
type Options uint8

const (
	// MatchCase requires an exact byte match. Without it, ASCII letters
	// compare case-insensitively.
	MatchCase Options = 1 << iota
	// MatchWholeWord rejects occurrences that touch a word character
	// on either side.
	MatchWholeWord
)

// Has reports whether all bits of o2 are set in o.
func (o Options) Has(o2 Options) bool {
	return o&o2 == o2
}

// Algorithm finds occurrences of one precompiled pattern in a byte buffer.
// Implementations hold no per-call state and are safe for concurrent use.
type Algorithm interface {
	// SearchAll returns every non-overlapping occurrence in data, left to right.
	SearchAll(data []byte) []Span

	// Search returns the offset of the first occurrence in data, or -1.
	Search(data []byte) int

	// PatternLength returns the length of the pattern in bytes.
	PatternLength() int
}
