package contents

import "iter"

// WordIterator walks a buffer forward, one run of ASCII letters and digits
// at a time. It cannot be rewound; call EnumerateWords again to start over.
type WordIterator struct {
	data []byte
	pos  int
}

// Next returns the next word, or false once the buffer is exhausted.
func (it *WordIterator) Next() (string, bool) {
	n := len(it.data)
	i := it.pos
	for i < n && !isLetterOrDigit(it.data[i]) {
		i++
	}
	start := i
	for i < n && isLetterOrDigit(it.data[i]) {
		i++
	}
	it.pos = i
	if start == i {
		return "", false
	}
	return string(it.data[start:i]), true
}

// All returns the remaining words as a sequence that advances the iterator.
func (it *WordIterator) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			w, ok := it.Next()
			if !ok || !yield(w) {
				return
			}
		}
	}
}

func isLetterOrDigit(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
