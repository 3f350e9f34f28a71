package matcher

// MaxBNDMLength is the longest pattern whose BNDM state fits a machine word.
const MaxBNDMLength = 64

// Kind identifies one of the two search algorithm implementations.
type Kind int

const (
	KindBNDM Kind = iota
	KindBoyerMoore
)

func (k Kind) String() string {
	switch k {
	case KindBNDM:
		return "bndm"
	case KindBoyerMoore:
		return "boyer-moore"
	default:
		return "unknown"
	}
}

// Select returns the algorithm used for a pattern of patternLen bytes.
// Patterns up to MaxBNDMLength bytes use the bit-parallel BNDM search;
// longer ones use Boyer-Moore.
func Select(patternLen int) Kind {
	if patternLen <= MaxBNDMLength {
		return KindBNDM
	}
	return KindBoyerMoore
}

// New compiles pattern with the algorithm chosen by Select.
func New(pattern string, opts Options) Algorithm {
	if Select(len(pattern)) == KindBNDM {
		return NewBNDM(pattern, opts)
	}
	return NewBoyerMoore(pattern, opts)
}
