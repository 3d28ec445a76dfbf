package chapter

// EndSceneID is the reserved terminal scene id. It is never a real scene;
// transitioning to it marks the chapter as complete.
const EndSceneID = "chapter_end"

// Choice is a single selectable option within a scene.
type Choice struct {
	Label string `json:"label"` // Display text for the choice
	Next  string `json:"next"`  // Scene id to transition to
}

// Puzzle is an embedded challenge within a scene. A scene with a puzzle
// renders the puzzle instead of its choices.
type Puzzle struct {
	Type        string `json:"type"`                  // e.g. "numeric", "text"
	Concept     string `json:"concept"`               // Selects a specialized handler (see Kind)
	Question    string `json:"question"`              // Prompt shown to the player
	Answer      string `json:"answer"`                // Expected answer, possibly numeric
	SuccessNext string `json:"success_next"`          // Scene id on a correct answer
	FailNext    string `json:"fail_next"`             // Scene id on an incorrect answer
	Animation   string `json:"animation,omitempty"`   // Optional supplementary media reference
	Explanation string `json:"explanation,omitempty"` // Optional text shown after evaluation
}

// Scene is a single narrative beat. It has either choices, a puzzle, or
// neither (terminal/dead-end). If both are authored, the puzzle wins.
type Scene struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Text     string   `json:"text"` // Paragraphs separated by blank lines
	Choices  []Choice `json:"choices,omitempty"`
	Puzzle   *Puzzle  `json:"puzzle,omitempty"`
	FlagsSet []string `json:"flags_set,omitempty"` // Flags granted when the scene's puzzle resolves
}

// Chapter is an authored collection of scenes plus metadata. It is loaded
// wholesale and treated as read-only for the session.
type Chapter struct {
	Chapter string  `json:"chapter"` // Chapter number or label
	Title   string  `json:"title"`
	Scenes  []Scene `json:"scenes"`
}

// SceneByID builds a lookup map over the chapter's scenes. Duplicate ids are
// an authoring error; the first occurrence wins.
func (c *Chapter) SceneByID() map[string]*Scene {
	m := make(map[string]*Scene, len(c.Scenes))
	for i := range c.Scenes {
		s := &c.Scenes[i]
		if _, exists := m[s.ID]; exists {
			continue
		}
		m[s.ID] = s
	}
	return m
}

// FirstSceneID returns the id of the chapter's opening scene, or the empty
// string for a chapter with no scenes.
func (c *Chapter) FirstSceneID() string {
	if len(c.Scenes) == 0 {
		return ""
	}
	return c.Scenes[0].ID
}

// Interactive reports whether the scene offers the player anything to do.
// A non-interactive scene is a dead end.
func (s *Scene) Interactive() bool {
	return s.Puzzle != nil || len(s.Choices) > 0
}
