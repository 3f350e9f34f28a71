package matcher

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		n    int
		want Kind
	}{
		{0, KindBNDM},
		{1, KindBNDM},
		{64, KindBNDM},
		{65, KindBoyerMoore},
		{1000, KindBoyerMoore},
	}
	for _, tt := range tests {
		if got := Select(tt.n); got != tt.want {
			t.Errorf("Select(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestNew_Kind(t *testing.T) {
	if _, ok := New("short", 0).(*BNDM); !ok {
		t.Error("expected *BNDM for a short pattern")
	}
	if _, ok := New(strings.Repeat("x", 65), 0).(*BoyerMoore); !ok {
		t.Error("expected *BoyerMoore for a 65-byte pattern")
	}
}

// naiveSearchAll is the reference used by the differential tests.
func naiveSearchAll(data []byte, pattern string, opts Options) []Span {
	table := tableFor(opts)
	p := normalize([]byte(pattern), table)
	m := len(p)
	if m == 0 {
		return nil
	}
	var spans []Span
	for i := 0; i+m <= len(data); {
		ok := true
		for j := 0; j < m; j++ {
			if table[data[i+j]] != p[j] {
				ok = false
				break
			}
		}
		if ok && (!opts.Has(MatchWholeWord) || isWholeWord(data, i, m)) {
			spans = append(spans, Span{Position: i, Length: m})
			i += m
			continue
		}
		i++
	}
	return spans
}

func randomText(r *rand.Rand, n int, alphabet string) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.IntN(len(alphabet))]
	}
	return b
}

func TestAlgorithms_Differential(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	const alphabet = "abAB _\n"
	optsList := []Options{0, MatchCase, MatchWholeWord, MatchCase | MatchWholeWord}

	for iter := 0; iter < 500; iter++ {
		data := randomText(r, 1+r.IntN(400), alphabet)
		plen := 1 + r.IntN(MaxBNDMLength)
		var pattern string
		if r.IntN(2) == 0 && plen <= len(data) {
			// Take the pattern from the text so matches actually occur.
			start := r.IntN(len(data) - plen + 1)
			pattern = string(data[start : start+plen])
		} else {
			pattern = string(randomText(r, 1+r.IntN(6), alphabet))
		}
		opts := optsList[r.IntN(len(optsList))]

		want := naiveSearchAll(data, pattern, opts)
		bndm := NewBNDM(pattern, opts).SearchAll(data)
		bm := NewBoyerMoore(pattern, opts).SearchAll(data)
		if !equalSpans(bndm, want) {
			t.Fatalf("BNDM(%q, %v) on %q = %v, want %v", pattern, opts, data, bndm, want)
		}
		if !equalSpans(bm, want) {
			t.Fatalf("BoyerMoore(%q, %v) on %q = %v, want %v", pattern, opts, data, bm, want)
		}
	}
}

func TestAlgorithms_DifferentialLongPatterns(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	const alphabet = "ab\n"

	for iter := 0; iter < 200; iter++ {
		data := randomText(r, 200+r.IntN(800), alphabet)
		plen := MaxBNDMLength + 1 + r.IntN(64)
		start := r.IntN(len(data) - plen + 1)
		pattern := string(data[start : start+plen])

		want := naiveSearchAll(data, pattern, MatchCase)
		got := New(pattern, MatchCase).SearchAll(data)
		if !equalSpans(got, want) {
			t.Fatalf("New(%q) on %q = %v, want %v", pattern, data, got, want)
		}
		if len(got) == 0 {
			t.Fatalf("pattern taken from the text was not found")
		}
	}
}

func TestAlgorithms_SpansWithinBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for iter := 0; iter < 200; iter++ {
		data := randomText(r, r.IntN(300), "xy")
		pattern := string(randomText(r, 1+r.IntN(80), "xy"))
		for _, s := range New(pattern, 0).SearchAll(data) {
			if s.Position < 0 || s.End() > len(data) {
				t.Fatalf("span %v out of bounds for length %d", s, len(data))
			}
		}
	}
}
