// Package harmonic implements the two-stage frequency-identification puzzle.
//
// The player first hunts for the fundamental frequency of a composite
// reference signal, then identifies which harmonic multiples of that
// fundamental are actually present in it. The engine owns the puzzle's state
// machine and ground-truth signal; rendering is left to the caller.
package harmonic

import (
	"math"
	"sort"
)

// Stage is the engine's current phase.
type Stage int

const (
	// FindFundamental is the initial stage: the player supplies a continuous
	// frequency guess within the allowed range.
	FindFundamental Stage = iota
	// SelectHarmonics follows a matched fundamental: the player toggles
	// candidate multipliers and submits a selection set.
	SelectHarmonics
)

func (s Stage) String() string {
	switch s {
	case SelectHarmonics:
		return "select_harmonics"
	default:
		return "find_fundamental"
	}
}

// Params fixes a puzzle instance: the true fundamental, the component
// amplitudes keyed by harmonic multiplier, the candidate multipliers offered
// to the player, the subset actually present in the reference signal, the
// matching tolerance for the fundamental guess, and the guess range.
type Params struct {
	Fundamental float64
	Amplitudes  map[int]float64
	Candidates  []int
	Present     []int
	Tolerance   float64
	GuessMin    float64
	GuessMax    float64
}

// DefaultAmplitude is used for any multiplier missing from the amplitude
// table, so a player-selected candidate sum always renders something.
const DefaultAmplitude = 0.1

// DefaultParams returns the stock puzzle: a 0.3 Hz fundamental with odd
// harmonics 1, 3 and 5 at decreasing amplitude, candidates 1 through 5, and
// a +/-0.02 Hz matching window over a [0.1, 2.0] Hz guess range.
func DefaultParams() Params {
	return Params{
		Fundamental: 0.3,
		Amplitudes:  map[int]float64{1: 0.5, 3: 0.35, 5: 0.25},
		Candidates:  []int{1, 2, 3, 4, 5},
		Present:     []int{1, 3, 5},
		Tolerance:   0.02,
		GuessMin:    0.1,
		GuessMax:    2.0,
	}
}

// Amplitude returns the component amplitude for multiplier n, falling back
// to DefaultAmplitude when n is not in the table.
func (p Params) Amplitude(n int) float64 {
	if a, ok := p.Amplitudes[n]; ok {
		return a
	}
	return DefaultAmplitude
}

// Reference evaluates the ground-truth composite signal at time t:
// the sum of sine components at each present multiple of the fundamental.
func (p Params) Reference(t float64) float64 {
	return p.signal(t, p.Present)
}

// Candidate evaluates the player's working signal at time t for the given
// selection of multipliers, using the same amplitude table as the reference.
func (p Params) Candidate(t float64, selected []int) float64 {
	return p.signal(t, selected)
}

func (p Params) signal(t float64, multipliers []int) float64 {
	var y float64
	for _, n := range multipliers {
		y += p.Amplitude(n) * math.Sin(2*math.Pi*float64(n)*p.Fundamental*t)
	}
	return y
}

// ClampGuess restricts a raw frequency guess to the allowed range.
func (p Params) ClampGuess(f float64) float64 {
	return math.Min(p.GuessMax, math.Max(p.GuessMin, f))
}

// Engine runs one harmonic puzzle. It holds no narrative state; the caller
// maps the submitted outcome onto scene transitions.
type Engine struct {
	params   Params
	stage    Stage
	guess    float64
	selected map[int]bool
}

// New creates an engine in the FindFundamental stage with the guess parked
// at the bottom of the range and an empty selection.
func New(params Params) *Engine {
	return &Engine{
		params:   params,
		stage:    FindFundamental,
		guess:    params.GuessMin,
		selected: make(map[int]bool),
	}
}

// Params returns the fixed puzzle parameters.
func (e *Engine) Params() Params { return e.params }

// Stage returns the engine's current stage.
func (e *Engine) Stage() Stage { return e.stage }

// Guess returns the player's current frequency guess.
func (e *Engine) Guess() float64 { return e.guess }

// SetGuess moves the working frequency guess, clamped to the allowed range.
// It does not evaluate the guess.
func (e *Engine) SetGuess(f float64) {
	e.guess = e.params.ClampGuess(f)
}

// SubmitGuess evaluates the current guess against the true fundamental.
// Within tolerance the engine advances to SelectHarmonics and reports true;
// otherwise it stays in FindFundamental with no penalty. Retries are
// unlimited.
func (e *Engine) SubmitGuess() bool {
	if e.stage != FindFundamental {
		return false
	}
	if math.Abs(e.guess-e.params.Fundamental) < e.params.Tolerance {
		e.stage = SelectHarmonics
		return true
	}
	return false
}

// Toggle flips candidate multiplier n in or out of the selection set.
// Toggling is symmetric: a present multiplier is removed, an absent one
// added. Non-candidate multipliers are ignored.
func (e *Engine) Toggle(n int) {
	if !e.isCandidate(n) {
		return
	}
	if e.selected[n] {
		delete(e.selected, n)
		return
	}
	e.selected[n] = true
}

// Selected returns the current selection in ascending order.
func (e *Engine) Selected() []int {
	out := make([]int, 0, len(e.selected))
	for n := range e.selected {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// IsSelected reports whether multiplier n is currently selected.
func (e *Engine) IsSelected(n int) bool { return e.selected[n] }

// SubmitSelection scores the selection set. Success requires exact set
// equality with the present harmonics: same size, same members, order
// irrelevant. Supersets and subsets fail outright; there is no partial
// credit.
func (e *Engine) SubmitSelection() bool {
	if e.stage != SelectHarmonics {
		return false
	}
	if len(e.selected) != len(e.params.Present) {
		return false
	}
	for _, n := range e.params.Present {
		if !e.selected[n] {
			return false
		}
	}
	return true
}

// Reset returns the engine to FindFundamental with a cleared guess and an
// empty selection, discarding all stage progress. Used both for an explicit
// player restart and for implicit reuse when the scene is revisited.
func (e *Engine) Reset() {
	e.stage = FindFundamental
	e.guess = e.params.GuessMin
	e.selected = make(map[int]bool)
}

func (e *Engine) isCandidate(n int) bool {
	for _, c := range e.params.Candidates {
		if c == n {
			return true
		}
	}
	return false
}
