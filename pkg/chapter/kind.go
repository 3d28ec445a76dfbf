package chapter

// Kind identifies the interactive handler for a puzzle. Concepts are authored
// as free-form strings; unknown concepts fall back to the generic
// question/answer handler rather than failing at load time.
type Kind int

const (
	// KindQuestion is the generic prompt/answer puzzle.
	KindQuestion Kind = iota
	// KindHarmonic is the two-stage frequency-identification puzzle.
	KindHarmonic
)

// Kind resolves the puzzle's concept tag to a handler kind.
func (p *Puzzle) Kind() Kind {
	switch p.Concept {
	case "harmonics", "fundamental_frequency":
		return KindHarmonic
	default:
		return KindQuestion
	}
}

func (k Kind) String() string {
	switch k {
	case KindHarmonic:
		return "harmonic"
	default:
		return "question"
	}
}
