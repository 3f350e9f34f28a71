// Package lines maps byte offsets of a buffer to the lines that contain them.
package lines

import (
	"bytes"
	"fmt"
	"sort"
)

// Extent is the start offset and length of one line. Length excludes the
// terminating newline.
type Extent struct {
	Start  int
	Length int
}

// End returns the offset one past the last byte of the line.
func (e Extent) End() int {
	return e.Start + e.Length
}

// Index records the offset of every line start in a buffer.
// It is immutable once built and safe for concurrent readers.
type Index struct {
	starts []int
	size   int // length of the indexed buffer
}

// Collect builds an Index whose storage is sized to the line count of data.
// An empty buffer has no lines. A trailing newline starts a final empty line.
func Collect(data []byte) *Index {
	idx := &Index{size: len(data)}
	if len(data) == 0 {
		return idx
	}

	idx.starts = make([]int, 1, bytes.Count(data, newline)+1)

	offset := 0
	for {
		i := bytes.IndexByte(data[offset:], '\n')
		if i < 0 {
			break
		}
		offset += i + 1
		idx.starts = append(idx.starts, offset)
	}
	return idx
}

var newline = []byte{'\n'}

// Count returns the number of lines.
func (idx *Index) Count() int {
	return len(idx.starts)
}

// Size returns the length of the indexed buffer.
func (idx *Index) Size() int {
	return idx.size
}

// lineOf returns the 0-based line number containing pos.
func (idx *Index) lineOf(pos int) int {
	if len(idx.starts) == 0 || pos < 0 || pos > idx.size {
		panic(fmt.Sprintf("lines: position %d out of range [0, %d] (%d lines)", pos, idx.size, len(idx.starts)))
	}
	// First start greater than pos, minus one.
	return sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > pos }) - 1
}

// ExtentAt returns the line containing pos. pos may equal the buffer length.
// It panics when pos is outside the buffer or the buffer is empty.
func (idx *Index) ExtentAt(pos int) Extent {
	return idx.extentOfLine(idx.lineOf(pos))
}

// LineNumber returns the 1-based number of the line containing pos.
func (idx *Index) LineNumber(pos int) int {
	return idx.lineOf(pos) + 1
}

// Line returns the extent of the 1-based line n.
func (idx *Index) Line(n int) Extent {
	if n < 1 || n > len(idx.starts) {
		panic(fmt.Sprintf("lines: line %d out of range [1, %d]", n, len(idx.starts)))
	}
	return idx.extentOfLine(n - 1)
}

func (idx *Index) extentOfLine(line int) Extent {
	start := idx.starts[line]
	end := idx.size
	if line+1 < len(idx.starts) {
		end = idx.starts[line+1] - 1 // drop the '\n'
	}
	return Extent{Start: start, Length: end - start}
}
