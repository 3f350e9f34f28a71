package matcher

// BoyerMoore searches for a pattern of any length using the bad-character
// and good-suffix shift rules. It is selected for patterns too long for BNDM.
type BoyerMoore struct {
	pattern    []byte // normalized with table
	table      *[256]byte
	opts       Options
	badChar    [256]int // indexed by raw input byte
	goodSuffix []int
}

// NewBoyerMoore compiles pattern for Boyer-Moore search.
func NewBoyerMoore(pattern string, opts Options) *BoyerMoore {
	table := tableFor(opts)
	p := normalize([]byte(pattern), table)
	bm := &BoyerMoore{
		pattern: p,
		table:   table,
		opts:    opts,
	}
	if len(p) == 0 {
		return bm
	}

	m := len(p)
	var byNorm [256]int
	for i := range byNorm {
		byNorm[i] = m
	}
	for i := 0; i < m-1; i++ {
		byNorm[p[i]] = m - 1 - i
	}
	for x := range bm.badChar {
		bm.badChar[x] = byNorm[table[x]]
	}
	bm.goodSuffix = goodSuffixShifts(p)
	return bm
}

func (bm *BoyerMoore) PatternLength() int {
	return len(bm.pattern)
}

func (bm *BoyerMoore) SearchAll(data []byte) []Span {
	m := len(bm.pattern)
	if m == 0 || m > len(data) {
		return nil
	}

	var spans []Span
	pos := 0
	for {
		i := bm.next(data, pos)
		if i < 0 {
			break
		}
		spans = append(spans, Span{Position: i, Length: m})
		pos = i + m
	}
	return spans
}

func (bm *BoyerMoore) Search(data []byte) int {
	m := len(bm.pattern)
	if m == 0 || m > len(data) {
		return -1
	}
	return bm.next(data, 0)
}

// next returns the first accepted occurrence starting at or after pos, or -1.
func (bm *BoyerMoore) next(data []byte, pos int) int {
	p := bm.pattern
	m := len(p)
	n := len(data)
	table := bm.table
	wholeWord := bm.opts.Has(MatchWholeWord)

	for pos <= n-m {
		i := m - 1
		for i >= 0 && p[i] == table[data[pos+i]] {
			i--
		}
		if i < 0 {
			if !wholeWord || isWholeWord(data, pos, m) {
				return pos
			}
			pos += bm.goodSuffix[0]
			continue
		}
		shift := bm.badChar[data[pos+i]] - m + 1 + i
		if gs := bm.goodSuffix[i]; gs > shift {
			shift = gs
		}
		pos += shift
	}
	return -1
}

// suffixes returns, for each i, the length of the longest substring of p
// ending at i that is also a suffix of p.
func suffixes(p []byte) []int {
	m := len(p)
	suff := make([]int, m)
	suff[m-1] = m
	g := m - 1
	f := 0
	for i := m - 2; i >= 0; i-- {
		if i > g && suff[i+m-1-f] < i-g {
			suff[i] = suff[i+m-1-f]
			continue
		}
		if i < g {
			g = i
		}
		f = i
		for g >= 0 && p[g] == p[g+m-1-f] {
			g--
		}
		suff[i] = f - g
	}
	return suff
}

// goodSuffixShifts builds the good-suffix table: the shift to apply when a
// mismatch occurs at pattern index i after p[i+1:] matched.
func goodSuffixShifts(p []byte) []int {
	m := len(p)
	suff := suffixes(p)
	gs := make([]int, m)
	for i := range gs {
		gs[i] = m
	}

	j := 0
	for i := m - 1; i >= 0; i-- {
		if suff[i] == i+1 {
			for ; j < m-1-i; j++ {
				if gs[j] == m {
					gs[j] = m - 1 - i
				}
			}
		}
	}
	for i := 0; i <= m-2; i++ {
		gs[m-1-suff[i]] = m - 1 - i
	}
	return gs
}

var _ Algorithm = (*BoyerMoore)(nil)
