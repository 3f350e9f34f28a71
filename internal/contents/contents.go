// Package contents holds the resident bytes of indexed files and answers
// searches, snippet extraction and word enumeration against them.
package contents

import (
	"math"
	"time"

	"github.com/dl/gocs/internal/matcher"
)

// MaxByteLength is the largest buffer a FileContents accepts. Search offsets
// are kept within a signed 32-bit range; larger files must be rejected by the
// loader before they reach this package.
const MaxByteLength = math.MaxInt32

// MaxTextExtent is the longest snippet text returned for one match.
const MaxTextExtent = 50

// FileContents is the immutable, searchable contents of one file.
// A changed file gets a new FileContents; existing values are never mutated,
// so every method is safe for concurrent use.
type FileContents interface {
	// ByteLength returns the size of the buffer in bytes.
	ByteLength() int64

	// LastModified returns the modification time recorded at load.
	LastModified() time.Time

	// HasSameContents reports whether other holds the same bytes with the
	// same encoding. Different kinds of contents are never equal.
	HasSameContents(other FileContents) bool

	// Search returns the spans matching sd in position order.
	Search(sd *SearchData) []matcher.Span

	// GetFileExtracts renders a bounded snippet around each span.
	// Spans without a meaningful snippet are omitted.
	GetFileExtracts(spans []matcher.Span) []Extract

	// EnumerateWords returns a cursor over the words of the buffer.
	EnumerateWords() *WordIterator
}

// Extract is the display form of one match.
type Extract struct {
	Text         string       // snippet, at most MaxTextExtent bytes
	Offset       int          // buffer offset of the first byte of Text
	Span         matcher.Span // the match, in buffer offsets
	LineNumber   int          // 1-based
	ColumnNumber int          // 0-based byte column of the match within its line
}

// MatchStart returns the offset of the match within Text.
func (e Extract) MatchStart() int {
	return e.Span.Position - e.Offset
}

// MatchEnd returns the offset one past the match within Text, clipped to Text.
func (e Extract) MatchEnd() int {
	end := e.Span.End() - e.Offset
	if end > len(e.Text) {
		end = len(e.Text)
	}
	return end
}
