package matcher

// foldTable maps every byte to itself, except ASCII upper-case letters
// which map to their lower-case form.
var foldTable = func() (t [256]byte) {
	for i := range t {
		b := byte(i)
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		t[i] = b
	}
	return t
}()

// identityTable maps every byte to itself.
var identityTable = func() (t [256]byte) {
	for i := range t {
		t[i] = byte(i)
	}
	return t
}()

// tableFor returns the normalization table used for both the pattern and
// the input bytes.
func tableFor(opts Options) *[256]byte {
	if opts.Has(MatchCase) {
		return &identityTable
	}
	return &foldTable
}

// normalize applies table to a copy of pattern.
func normalize(pattern []byte, table *[256]byte) []byte {
	out := make([]byte, len(pattern))
	for i, b := range pattern {
		out[i] = table[b]
	}
	return out
}

// IsWordByte reports whether b is an ASCII letter, digit or underscore.
func IsWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// isWholeWord reports whether data[pos:pos+n] is delimited by non-word bytes
// or by the edges of data.
func isWholeWord(data []byte, pos, n int) bool {
	if pos > 0 && IsWordByte(data[pos-1]) {
		return false
	}
	end := pos + n
	if end < len(data) && IsWordByte(data[end]) {
		return false
	}
	return true
}
