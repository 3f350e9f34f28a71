package query

import "github.com/dl/gocs/internal/matcher"

// LineExtentFunc returns the start and length of the line containing position.
type LineExtentFunc func(position int) (start, length int)

// FindEntryFunc searches for entry in the buffer range
// [position, position+length) and returns the absolute offset of the first
// occurrence, or -1.
type FindEntryFunc func(position, length int, entry Term) int

// Filter keeps the matches whose line also contains every before term left
// of the match and every after term right of it. Surviving matches keep their
// span and their order. Each secondary search is bounded by one line.
func Filter(q Parsed, matches []matcher.Span, lineExtent LineExtentFunc, find FindEntryFunc) []matcher.Span {
	if !q.HasOtherEntries() {
		return matches
	}

	var kept []matcher.Span
	for _, m := range matches {
		if accept(q, m, lineExtent, find) {
			kept = append(kept, m)
		}
	}
	return kept
}

func accept(q Parsed, m matcher.Span, lineExtent LineExtentFunc, find FindEntryFunc) bool {
	lineStart, lineLength := lineExtent(m.Position)
	lineEnd := lineStart + lineLength

	for _, entry := range q.After {
		if !found(m.End(), lineEnd, entry, find) {
			return false
		}
	}
	for _, entry := range q.Before {
		if !found(lineStart, m.Position, entry, find) {
			return false
		}
	}
	return true
}

// found reports whether entry occurs within [start, end).
func found(start, end int, entry Term, find FindEntryFunc) bool {
	length := end - start
	if length <= 0 || len(entry.Text) > length {
		return false
	}
	return find(start, length, entry) >= 0
}
