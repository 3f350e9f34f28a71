package contents

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/dl/gocs/internal/lines"
	"github.com/dl/gocs/internal/matcher"
	"github.com/dl/gocs/internal/query"
)

// ASCII is FileContents for files of single-byte characters.
type ASCII struct {
	data     []byte
	modified time.Time

	linesOnce sync.Once
	lines     *lines.Index
}

// NewASCII takes ownership of data; the caller must not modify it afterwards.
// It panics if data is longer than MaxByteLength.
func NewASCII(data []byte, modified time.Time) *ASCII {
	if len(data) > MaxByteLength {
		panic(fmt.Sprintf("contents: buffer of %d bytes exceeds %d", len(data), MaxByteLength))
	}
	return &ASCII{data: data, modified: modified}
}

func (c *ASCII) ByteLength() int64 {
	return int64(len(c.data))
}

func (c *ASCII) LastModified() time.Time {
	return c.modified
}

// Bytes returns the buffer. Callers must treat it as read-only.
func (c *ASCII) Bytes() []byte {
	return c.data
}

// LineIndex returns the line index of the buffer, building it on first use.
func (c *ASCII) LineIndex() *lines.Index {
	c.linesOnce.Do(func() {
		c.lines = lines.Collect(c.data)
	})
	return c.lines
}

func (c *ASCII) HasSameContents(other FileContents) bool {
	o, ok := other.(*ASCII)
	if !ok || o == nil {
		return false
	}
	return bytes.Equal(c.data, o.data)
}

func (c *ASCII) Search(sd *SearchData) []matcher.Span {
	q := sd.Query
	if len(q.Main.Text) > len(c.data) {
		return nil
	}

	spans := sd.Algorithm(q.Main).SearchAll(c.data)
	if !q.HasOtherEntries() {
		return spans
	}
	return query.Filter(q, spans, c.lineExtent, func(position, length int, entry query.Term) int {
		i := sd.Algorithm(entry).Search(c.data[position : position+length])
		if i < 0 {
			return -1
		}
		return position + i
	})
}

func (c *ASCII) lineExtent(position int) (int, int) {
	e := c.LineIndex().ExtentAt(position)
	return e.Start, e.Length
}

func (c *ASCII) GetFileExtracts(spans []matcher.Span) []Extract {
	if len(spans) == 0 {
		return nil
	}
	idx := c.LineIndex()
	extracts := make([]Extract, 0, len(spans))
	for _, s := range spans {
		if e, ok := c.extract(idx, s); ok {
			extracts = append(extracts, e)
		}
	}
	return extracts
}

func (c *ASCII) extract(idx *lines.Index, s matcher.Span) (Extract, bool) {
	if s.Position < 0 || s.Length < 0 || s.End() > len(c.data) {
		panic(fmt.Sprintf("contents: span [%d, %d) outside buffer of %d bytes", s.Position, s.End(), len(c.data)))
	}
	if idx.Count() == 0 {
		return Extract{}, false
	}

	line := idx.ExtentAt(s.Position)
	if line.Length > 0 && c.data[line.End()-1] == '\r' && s.Position < line.End()-1 {
		line.Length--
	}
	if line.Length == 0 {
		return Extract{}, false
	}

	start, end := lines.Window(line, s.Position, s.Length, MaxTextExtent)
	if start >= end {
		return Extract{}, false
	}
	return Extract{
		Text:         string(c.data[start:end]),
		Offset:       start,
		Span:         s,
		LineNumber:   idx.LineNumber(s.Position),
		ColumnNumber: s.Position - line.Start,
	}, true
}

func (c *ASCII) EnumerateWords() *WordIterator {
	return &WordIterator{data: c.data}
}

var _ FileContents = (*ASCII)(nil)
