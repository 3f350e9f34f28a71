package matcher

import "fmt"

// BNDM searches for patterns of up to MaxBNDMLength bytes with the
// Backward Nondeterministic DAWG Matching algorithm. The automaton state
// is a single uint64, one bit per pattern position.
type BNDM struct {
	pattern []byte // normalized with table
	opts    Options
	// masks is indexed by raw input bytes: every byte that normalizes to
	// pattern[i] carries bit m-1-i, so case folding costs nothing per byte.
	masks [256]uint64
}

// NewBNDM compiles pattern for BNDM search. It panics if the pattern is
// longer than MaxBNDMLength.
func NewBNDM(pattern string, opts Options) *BNDM {
	m := len(pattern)
	if m > MaxBNDMLength {
		panic(fmt.Sprintf("matcher: BNDM pattern length %d exceeds %d", m, MaxBNDMLength))
	}

	table := tableFor(opts)
	p := normalize([]byte(pattern), table)
	b := &BNDM{pattern: p, opts: opts}

	var byNorm [256]uint64
	for i, c := range p {
		byNorm[c] |= uint64(1) << uint(m-1-i)
	}
	for x := range b.masks {
		b.masks[x] = byNorm[table[x]]
	}
	return b
}

func (b *BNDM) PatternLength() int {
	return len(b.pattern)
}

func (b *BNDM) SearchAll(data []byte) []Span {
	m := len(b.pattern)
	if m == 0 || m > len(data) {
		return nil
	}

	var spans []Span
	pos := 0
	for {
		i := b.next(data, pos)
		if i < 0 {
			break
		}
		spans = append(spans, Span{Position: i, Length: m})
		pos = i + m
	}
	return spans
}

func (b *BNDM) Search(data []byte) int {
	m := len(b.pattern)
	if m == 0 || m > len(data) {
		return -1
	}
	return b.next(data, 0)
}

// next returns the first accepted occurrence starting at or after pos, or -1.
func (b *BNDM) next(data []byte, pos int) int {
	m := len(b.pattern)
	n := len(data)
	high := uint64(1) << uint(m-1)
	wholeWord := b.opts.Has(MatchWholeWord)

	for pos <= n-m {
		j := m
		last := m
		d := ^uint64(0)
		for {
			d &= b.masks[data[pos+j-1]]
			j--
			if d&high != 0 {
				if j > 0 {
					// A pattern prefix ends here; the next window may start at it.
					last = j
				} else if !wholeWord || isWholeWord(data, pos, m) {
					return pos
				}
			}
			if d == 0 || j == 0 {
				break
			}
			d <<= 1
		}
		pos += last
	}
	return -1
}

var _ Algorithm = (*BNDM)(nil)
