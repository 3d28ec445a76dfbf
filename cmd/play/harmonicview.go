package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ametrine/resonance/pkg/chapter"
	"github.com/ametrine/resonance/pkg/harmonic"
)

// Guess step sizes for the fundamental slider, in Hz.
const (
	coarseStep = 0.05
	fineStep   = 0.01
)

func (m UI) handleHarmonicKey(ctx context.Context, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scene, ok := m.controller.CurrentScene()
	if !ok || scene.Puzzle == nil || m.engine == nil {
		return m, nil
	}

	switch m.engine.Stage() {
	case harmonic.FindFundamental:
		switch msg.String() {
		case "left", "h":
			m.engine.SetGuess(m.engine.Guess() - coarseStep)
		case "right", "l":
			m.engine.SetGuess(m.engine.Guess() + coarseStep)
		case "shift+left", "H":
			m.engine.SetGuess(m.engine.Guess() - fineStep)
		case "shift+right", "L":
			m.engine.SetGuess(m.engine.Guess() + fineStep)
		case "enter":
			if m.engine.SubmitGuess() {
				m.statusLine = "Fundamental locked in. Now pick the harmonics you hear."
			} else {
				m.statusLine = "No resonance at that frequency. Keep searching."
			}
		case "r":
			m.engine.Reset()
			m.statusLine = ""
		}

	case harmonic.SelectHarmonics:
		switch msg.String() {
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			n, _ := strconv.Atoi(msg.String())
			m.engine.Toggle(n)
		case "enter":
			m.finishPuzzle(ctx, scene, m.engine.SubmitSelection())
		case "r":
			m.engine.Reset()
			m.statusLine = ""
		}
	}

	m.refresh()
	return m, nil
}

func (m *UI) renderHarmonic(scene *chapter.Scene, width int) string {
	var b strings.Builder
	params := m.engine.Params()

	b.WriteString(proseStyle.Render(scene.Puzzle.Question) + "\n\n")

	b.WriteString(hintStyle.Render("Reference signal:") + "\n")
	b.WriteString(renderWave(width, func(t float64) float64 {
		return params.Reference(t)
	}) + "\n")

	switch m.engine.Stage() {
	case harmonic.FindFundamental:
		b.WriteString(hintStyle.Render("Your sine at the guessed frequency:") + "\n")
		guess := m.engine.Guess()
		b.WriteString(renderWave(width, func(t float64) float64 {
			return params.Amplitude(1) * sin2pi(guess, t)
		}) + "\n")
		b.WriteString(renderSlider(guess, params.GuessMin, params.GuessMax, width) + "\n")
		b.WriteString(fmt.Sprintf("Guess: %.2f Hz\n\n", guess))
		b.WriteString(hintStyle.Render("←/→: tune • shift: fine • enter: lock in • r: reset"))

	case harmonic.SelectHarmonics:
		b.WriteString(hintStyle.Render("Your composite from the selected harmonics:") + "\n")
		selected := m.engine.Selected()
		b.WriteString(renderWave(width, func(t float64) float64 {
			return params.Candidate(t, selected)
		}) + "\n")

		b.WriteString("Harmonics: ")
		for _, n := range params.Candidates {
			label := fmt.Sprintf(" %d× ", n)
			if m.engine.IsSelected(n) {
				b.WriteString(selectedChoiceStyle.Render(label) + " ")
			} else {
				b.WriteString(choiceStyle.Render(label) + " ")
			}
		}
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("1-5: toggle • enter: submit • r: start over"))
	}

	if m.statusLine != "" {
		b.WriteString("\n\n" + loadingStyle.Render(m.statusLine))
	}

	return b.String()
}

// renderWave plots y(t) across the panel width over a fixed 10-second
// window, which shows a few periods of the stock 0.3 Hz fundamental.
func renderWave(width int, f func(t float64) float64) string {
	const (
		rows   = 7
		window = 10.0
		// Component amplitudes sum to just over 1; clamp the plot there.
		yMax = 1.2
	)

	if width < 10 {
		width = 10
	}

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	mid := rows / 2
	for c := 0; c < width; c++ {
		grid[mid][c] = '·'
	}

	for c := 0; c < width; c++ {
		t := window * float64(c) / float64(width-1)
		y := f(t)
		if y > yMax {
			y = yMax
		}
		if y < -yMax {
			y = -yMax
		}
		r := mid - int(y/yMax*float64(mid))
		if r < 0 {
			r = 0
		}
		if r >= rows {
			r = rows - 1
		}
		grid[r][c] = '█'
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = successStyle.Render(string(grid[r]))
	}
	return strings.Join(lines, "\n")
}

func renderSlider(value, min, max float64, width int) string {
	if width < 10 {
		width = 10
	}
	pos := int((value - min) / (max - min) * float64(width-1))
	if pos < 0 {
		pos = 0
	}
	if pos >= width {
		pos = width - 1
	}

	var b strings.Builder
	b.WriteString(hintStyle.Render("["))
	b.WriteString(hintStyle.Render(strings.Repeat("─", pos)))
	b.WriteString(titleStyle.Render("●"))
	b.WriteString(hintStyle.Render(strings.Repeat("─", width-1-pos)))
	b.WriteString(hintStyle.Render("]"))
	return b.String()
}

func sin2pi(freq, t float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}
