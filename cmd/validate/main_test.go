package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ametrine/resonance/pkg/chapter"
)

func validate(ch *chapter.Chapter) *ChapterValidator {
	v := &ChapterValidator{}
	v.validateChapter(ch)
	return v
}

func hasMessage(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateChapter_DuplicateSceneIDs(t *testing.T) {
	v := validate(&chapter.Chapter{Scenes: []chapter.Scene{
		{ID: "intro", Text: "a", Choices: []chapter.Choice{{Label: "go", Next: "chapter_end"}}},
		{ID: "intro", Text: "b", Choices: []chapter.Choice{{Label: "go", Next: "chapter_end"}}},
	}})

	assert.True(t, hasMessage(v.errors, "duplicate scene id 'intro'"))
}

func TestValidateChapter_DanglingTargetIsWarning(t *testing.T) {
	v := validate(&chapter.Chapter{Scenes: []chapter.Scene{
		{ID: "intro", Text: "a", Choices: []chapter.Choice{{Label: "go", Next: "nowhere"}}},
	}})

	assert.Empty(t, v.errors)
	assert.True(t, hasMessage(v.warnings, "unknown scene 'nowhere'"))
}

func TestValidateChapter_TerminalMarkerAlwaysValid(t *testing.T) {
	v := validate(&chapter.Chapter{Scenes: []chapter.Scene{
		{ID: "intro", Text: "a", Choices: []chapter.Choice{{Label: "go", Next: "chapter_end"}}},
	}})

	assert.Empty(t, v.errors)
	assert.Empty(t, v.warnings)
}

func TestValidateChapter_HarmonicAnswerFormat(t *testing.T) {
	mkScene := func(answer string) *chapter.Chapter {
		return &chapter.Chapter{Scenes: []chapter.Scene{
			{ID: "archive", Text: "a", Puzzle: &chapter.Puzzle{
				Concept:     "harmonics",
				Question:    "q",
				Answer:      answer,
				SuccessNext: "chapter_end",
				FailNext:    "archive",
			}},
		}}
	}

	v := validate(mkScene("0.3;1,3,5"))
	assert.False(t, hasMessage(v.warnings, "harmonic answer"))

	v = validate(mkScene("fast;1,2"))
	assert.True(t, hasMessage(v.warnings, "harmonic answer"))
}
