package lines

// Window returns the bounds of a text window of at most limit bytes taken from
// line so that the match at [pos, pos+length) stays visible. When the match
// is shorter than limit it is roughly centered; the window never leaves the line.
// A match starting past the line end is anchored at the line end.
func Window(line Extent, pos, length, limit int) (start, end int) {
	lineStart, lineEnd := line.Start, line.End()
	if lineEnd-lineStart <= limit {
		return lineStart, lineEnd
	}
	pos = min(max(pos, lineStart), lineEnd)
	if pos+length > lineEnd {
		length = lineEnd - pos
	}
	if length >= limit {
		return pos, pos + limit
	}

	start = pos - (limit-length)/2
	if start < lineStart {
		start = lineStart
	}
	if start+limit > lineEnd {
		start = lineEnd - limit
	}
	return start, start + limit
}
