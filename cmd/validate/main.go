// Command validate checks a chapter file for authoring errors before it
// ships: malformed JSON, non-snake_case ids, duplicate scene ids, dangling
// transition targets, and puzzles with unrecognized concepts.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ametrine/resonance/pkg/chapter"
	"github.com/ametrine/resonance/pkg/harmonic"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <chapter.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &ChapterValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	for _, w := range validator.warnings {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Println("Chapter file is valid!")
}

type ChapterValidator struct {
	errors   []string
	warnings []string
}

func (v *ChapterValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("chapter file must have .json extension: %s", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var ch chapter.Chapter
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&ch); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.errors = nil
	v.warnings = nil
	v.validateChapter(&ch)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *ChapterValidator) validateChapter(ch *chapter.Chapter) {
	if len(ch.Scenes) == 0 {
		v.addError("chapter has no scenes")
		return
	}

	// Duplicate ids are rejected at authoring time; the runtime's
	// first-match-wins fold is a last line of defense, not a feature.
	seen := make(map[string]bool, len(ch.Scenes))
	for i := range ch.Scenes {
		s := &ch.Scenes[i]
		v.validateIDFormat("scene id", s.ID)
		if seen[s.ID] {
			v.addError(fmt.Sprintf("duplicate scene id '%s'", s.ID))
		}
		seen[s.ID] = true
	}

	known := ch.SceneByID()
	for i := range ch.Scenes {
		v.validateScene(&ch.Scenes[i], known)
	}
}

func (v *ChapterValidator) validateScene(s *chapter.Scene, known map[string]*chapter.Scene) {
	if s.Text == "" {
		v.addWarning(fmt.Sprintf("scene '%s' has no text", s.ID))
	}

	if s.Puzzle != nil && len(s.Choices) > 0 {
		v.addWarning(fmt.Sprintf("scene '%s' has both a puzzle and choices; the puzzle wins", s.ID))
	}

	for _, c := range s.Choices {
		v.validateTarget(fmt.Sprintf("scene '%s' choice '%s'", s.ID, c.Label), c.Next, known)
	}

	if p := s.Puzzle; p != nil {
		if p.Question == "" {
			v.addError(fmt.Sprintf("scene '%s' puzzle has no question", s.ID))
		}
		if p.Answer == "" && p.Kind() == chapter.KindQuestion {
			v.addError(fmt.Sprintf("scene '%s' puzzle has no answer", s.ID))
		}
		if p.Concept != "" && p.Kind() == chapter.KindQuestion && !isGenericConcept(p.Concept) {
			v.addWarning(fmt.Sprintf("scene '%s' puzzle concept '%s' has no specialized handler; it will render as a plain question", s.ID, p.Concept))
		}
		if p.Kind() == chapter.KindHarmonic {
			if _, ok := harmonic.ParseParams(p.Answer); !ok {
				v.addWarning(fmt.Sprintf("scene '%s' harmonic answer '%s' does not parse; the built-in defaults will be used", s.ID, p.Answer))
			}
		}
		v.validateTarget(fmt.Sprintf("scene '%s' success_next", s.ID), p.SuccessNext, known)
		v.validateTarget(fmt.Sprintf("scene '%s' fail_next", s.ID), p.FailNext, known)
	}

	for _, f := range s.FlagsSet {
		v.validateIDFormat(fmt.Sprintf("scene '%s' flag", s.ID), f)
	}
}

// validateTarget flags dangling references as warnings only: at runtime an
// unknown target is a harmless no-op, so it must not block publishing.
func (v *ChapterValidator) validateTarget(context, target string, known map[string]*chapter.Scene) {
	if target == "" {
		v.addError(fmt.Sprintf("%s has an empty target", context))
		return
	}
	if target == chapter.EndSceneID {
		return
	}
	if _, ok := known[target]; !ok {
		v.addWarning(fmt.Sprintf("%s points to unknown scene '%s'", context, target))
	}
}

func (v *ChapterValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		v.addError(fmt.Sprintf("%s is empty", fieldName))
		return
	}
	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *ChapterValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *ChapterValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

// Concepts that intentionally map to the generic question handler.
var genericConcepts = map[string]bool{
	"numeric":    true,
	"text":       true,
	"wavelength": true,
	"frequency":  true,
	"period":     true,
	"amplitude":  true,
}

func isGenericConcept(concept string) bool {
	return genericConcepts[concept]
}
