// Package narrative turns player interactions into progress transitions over
// a loaded chapter.
package narrative

import (
	"context"
	"log/slog"

	"github.com/ametrine/resonance/pkg/chapter"
	"github.com/ametrine/resonance/pkg/progress"
)

// Default flags granted on puzzle resolution when the scene does not author
// an explicit flags_set list.
const (
	FlagSolvedPuzzle = "solved_puzzle"
	FlagFailedPuzzle = "failed_puzzle"
)

// Outcome is a resolved puzzle interaction: whether the player succeeded,
// the scene to transition to, and the flags to grant.
type Outcome struct {
	OK    bool
	Next  string
	Flags []string
}

// Controller orchestrates scene transitions. It owns no state of its own:
// the chapter is read-only and all mutation flows through the progress
// store's single entry point.
type Controller struct {
	chapter *chapter.Chapter
	scenes  map[string]*chapter.Scene
	store   *progress.Store
	logger  *slog.Logger
}

// NewController wires a controller over a loaded chapter and progress store.
func NewController(ch *chapter.Chapter, store *progress.Store, logger *slog.Logger) *Controller {
	return &Controller{
		chapter: ch,
		scenes:  ch.SceneByID(),
		store:   store,
		logger:  logger,
	}
}

// Store exposes the underlying progress store for read access.
func (c *Controller) Store() *progress.Store { return c.store }

// Chapter returns the loaded chapter.
func (c *Controller) Chapter() *chapter.Chapter { return c.chapter }

// CurrentScene resolves the current progress position to a scene. The second
// return is false at the terminal marker or for an unknown id ("Scene not
// found" is a render-time condition, not a load error).
func (c *Controller) CurrentScene() (*chapter.Scene, bool) {
	s, ok := c.scenes[c.store.Current()]
	return s, ok
}

// AtEnd reports whether the session sits at the terminal marker.
func (c *Controller) AtEnd() bool {
	return c.store.Current() == chapter.EndSceneID
}

// ChooseOption transitions to nextID. The reserved terminal marker completes
// the chapter; an unknown scene id is a no-op (the dangling-choice case);
// anything else becomes the current scene and is appended to history.
func (c *Controller) ChooseOption(ctx context.Context, nextID string) {
	if nextID == chapter.EndSceneID {
		c.store.Mutate(ctx, func(p *progress.Progress) {
			p.Visit(chapter.EndSceneID)
			p.Complete = true
		})
		return
	}

	if _, ok := c.scenes[nextID]; !ok {
		c.logger.Warn("Ignoring transition to unknown scene", "next", nextID)
		return
	}

	c.store.Mutate(ctx, func(p *progress.Progress) {
		p.Visit(nextID)
	})
}

// ResolvePuzzle merges the outcome's flags into the progress flag set and
// then performs the outcome's transition.
func (c *Controller) ResolvePuzzle(ctx context.Context, out Outcome) {
	if len(out.Flags) > 0 {
		c.store.Mutate(ctx, func(p *progress.Progress) {
			p.AddFlags(out.Flags)
		})
	}
	c.ChooseOption(ctx, out.Next)
}

// ResolveScenePuzzle builds the outcome for the scene's puzzle and resolves
// it. An authored flags_set list is granted regardless of success or failure;
// without one, a default solved/failed flag is granted by outcome.
func (c *Controller) ResolveScenePuzzle(ctx context.Context, s *chapter.Scene, ok bool) {
	if s.Puzzle == nil {
		return
	}

	out := Outcome{OK: ok}
	if ok {
		out.Next = s.Puzzle.SuccessNext
	} else {
		out.Next = s.Puzzle.FailNext
	}

	if len(s.FlagsSet) > 0 {
		out.Flags = s.FlagsSet
	} else if ok {
		out.Flags = []string{FlagSolvedPuzzle}
	} else {
		out.Flags = []string{FlagFailedPuzzle}
	}

	c.ResolvePuzzle(ctx, out)
}

// ResetToStart clears persisted state and returns progress to the chapter's
// opening scene.
func (c *Controller) ResetToStart(ctx context.Context) {
	c.store.Reset(ctx, c.chapter.FirstSceneID())
}

// Percent is the derived progress percentage for the loaded chapter.
func (c *Controller) Percent() int {
	return c.store.Progress().Percent(len(c.chapter.Scenes))
}
