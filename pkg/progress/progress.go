// Package progress holds the mutable session state of a chapter playthrough
// and its persistence contract.
package progress

import "math"

// Progress is the full session state: where the player is, which flags they
// have earned, every scene they have visited (duplicates allowed), and
// whether the chapter has been completed. It is the exact shape of the
// persisted save document.
type Progress struct {
	Current  string   `json:"current"`
	Flags    []string `json:"flags"`
	History  []string `json:"history"`
	Complete bool     `json:"complete"`
}

// New returns fresh progress positioned at the chapter's opening scene.
func New(firstSceneID string) *Progress {
	return &Progress{
		Current:  firstSceneID,
		Flags:    []string{},
		History:  []string{firstSceneID},
		Complete: false,
	}
}

// AddFlags merges the given flags into the flag set. The set is deduplicated
// and keeps insertion order.
func (p *Progress) AddFlags(flags []string) {
	for _, f := range flags {
		if p.HasFlag(f) {
			continue
		}
		p.Flags = append(p.Flags, f)
	}
}

// HasFlag reports whether the flag has been earned.
func (p *Progress) HasFlag(flag string) bool {
	for _, f := range p.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Visit records a transition to the given scene id.
func (p *Progress) Visit(sceneID string) {
	p.Current = sceneID
	p.History = append(p.History, sceneID)
}

// DistinctVisited counts the distinct scene ids in the history.
func (p *Progress) DistinctVisited() int {
	seen := make(map[string]struct{}, len(p.History))
	for _, id := range p.History {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Percent derives a progress percentage from the distinct visit count over
// the chapter's scene count plus the terminal marker, capped at 100.
func (p *Progress) Percent(sceneCount int) int {
	if sceneCount < 0 {
		sceneCount = 0
	}
	pct := int(math.Round(100 * float64(p.DistinctVisited()) / float64(sceneCount+1)))
	if pct > 100 {
		return 100
	}
	return pct
}
