package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	p := New("intro")
	assert.Equal(t, "intro", p.Current)
	assert.Empty(t, p.Flags)
	assert.Equal(t, []string{"intro"}, p.History)
	assert.False(t, p.Complete)
}

func TestAddFlags_DeduplicatesAndKeepsOrder(t *testing.T) {
	p := New("intro")
	p.AddFlags([]string{"a"})
	p.AddFlags([]string{"failed_puzzle", "a", "b"})
	p.AddFlags([]string{"b"})

	assert.Equal(t, []string{"a", "failed_puzzle", "b"}, p.Flags)
	assert.True(t, p.HasFlag("failed_puzzle"))
	assert.False(t, p.HasFlag("solved_puzzle"))
}

func TestVisit_AllowsDuplicateHistory(t *testing.T) {
	p := New("s1")
	p.Visit("s2")
	p.Visit("s1")

	assert.Equal(t, "s1", p.Current)
	assert.Equal(t, []string{"s1", "s2", "s1"}, p.History)
	assert.Equal(t, 2, p.DistinctVisited())
}

func TestPercent(t *testing.T) {
	// history=[s1,s2,s1] over 4 scenes: round(100*2/5) = 40.
	p := New("s1")
	p.Visit("s2")
	p.Visit("s1")
	assert.Equal(t, 40, p.Percent(4))

	// Visiting every scene plus the terminal marker caps at 100.
	p = New("s1")
	p.Visit("s2")
	p.Visit("chapter_end")
	assert.Equal(t, 100, p.Percent(2))

	// The cap holds even if history somehow outgrows the chapter.
	p.Visit("ghost")
	assert.Equal(t, 100, p.Percent(2))
}
