package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ametrine/resonance/internal/logger"
	"github.com/ametrine/resonance/internal/storage"
	"github.com/ametrine/resonance/pkg/answer"
	"github.com/ametrine/resonance/pkg/chapter"
	"github.com/ametrine/resonance/pkg/harmonic"
	"github.com/ametrine/resonance/pkg/narrative"
	"github.com/ametrine/resonance/pkg/progress"
)

// mode is what the main panel is currently showing.
type mode int

const (
	modeScene mode = iota
	modeQuestion
	modeHarmonic
	modeOutcome
	modeEnd
)

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sceneTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	proseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // near white

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

var titleCaser = cases.Title(language.English)

// UI is the BubbleTea model that runs the player.
// https://github.com/charmbracelet/bubbletea
type UI struct {
	chapters *storage.ChapterStore
	saves    func(chapterFile string) (progress.SaveStore, error)
	logger   *slog.Logger

	viewport     viewport.Model
	metaViewport viewport.Model
	input        textinput.Model
	ready        bool
	width        int
	height       int
	err          error

	// Chapter selection state
	showChapterModal bool
	loadingChapters  bool
	entries          []storage.IndexEntry
	selectedEntry    int

	// Async chapter load state. Results tagged with a stale generation are
	// discarded.
	loading     bool
	loadGen     int
	chapterFile string

	// In-game state
	controller     *narrative.Controller
	mode           mode
	selectedChoice int
	engine         *harmonic.Engine

	// Outcome overlay state
	outcomeOK   bool
	outcomeText string

	showQuitModal bool
	statusLine    string
}

type chaptersLoadedMsg struct {
	entries []storage.IndexEntry
	err     error
}

type chapterReadyMsg struct {
	gen        int
	controller *narrative.Controller
	err        error
}

// NewUI creates the player model, starting at the chapter-select modal.
func NewUI(chapters *storage.ChapterStore, saves func(string) (progress.SaveStore, error), logger *slog.Logger) UI {
	ti := textinput.New()
	ti.Placeholder = "Your answer..."
	ti.CharLimit = 120
	ti.Prompt = hintStyle.Render(":: ")

	vp := viewport.New(50, 20)
	mvp := viewport.New(20, 20)

	return UI{
		chapters:         chapters,
		saves:            saves,
		logger:           logger,
		viewport:         vp,
		metaViewport:     mvp,
		input:            ti,
		showChapterModal: true,
		loadingChapters:  true,
	}
}

func (m UI) Init() tea.Cmd {
	return m.loadChapterIndex()
}

func (m UI) loadChapterIndex() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.chapters.ListChapters()
		return chaptersLoadedMsg{entries, err}
	}
}

// loadChapter fetches the chapter and restores (or initializes) progress off
// the UI loop. gen guards against a result arriving after the player moved
// on.
func (m UI) loadChapter(gen int, file string) tea.Cmd {
	return func() tea.Msg {
		ch, err := m.chapters.GetChapter(file)
		if err != nil {
			return chapterReadyMsg{gen: gen, err: err}
		}

		saves, err := m.saves(file)
		if err != nil {
			return chapterReadyMsg{gen: gen, err: err}
		}

		store := progress.NewStore(context.Background(), ch.FirstSceneID(), saves, m.logger)
		ctrl := narrative.NewController(ch, store, m.logger)
		return chapterReadyMsg{gen: gen, controller: ctrl}
	}
}

func (m UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showChapterModal {
		return m.updateChapterModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case chapterReadyMsg:
		if msg.gen != m.loadGen {
			m.logger.Debug("Discarding stale chapter load", "gen", msg.gen)
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			// Stay in the loading state; there is no automatic retry.
			m.err = msg.err
			logger.WithError(m.logger, msg.err).Error("Failed to load chapter", "file", m.chapterFile)
			m.refresh()
			return m, nil
		}
		m.controller = msg.controller
		m.enterCurrentScene()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *UI) resize(w, h int) {
	m.width = w
	m.height = h

	mainWidth := int(float64(w)*0.72) - 4
	metaWidth := w - mainWidth - 6

	m.viewport.Width = mainWidth - 2
	m.viewport.Height = h - 5
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = h - 4
	m.input.Width = mainWidth - 8
	m.ready = true
}

func (m UI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.showQuitModal = true
		return m, nil
	case tea.KeyCtrlR:
		if m.controller != nil {
			m.controller.ResetToStart(ctx)
			m.engine = nil
			m.statusLine = "Progress reset."
			m.enterCurrentScene()
			m.refresh()
		}
		return m, nil
	}

	if m.controller == nil {
		return m, nil
	}

	switch m.mode {
	case modeScene:
		return m.handleSceneKey(ctx, msg)
	case modeQuestion:
		return m.handleQuestionKey(ctx, msg)
	case modeHarmonic:
		return m.handleHarmonicKey(ctx, msg)
	case modeOutcome:
		if msg.Type == tea.KeyEnter {
			m.enterCurrentScene()
			m.refresh()
		}
		return m, nil
	case modeEnd:
		return m, nil
	}
	return m, nil
}

func (m UI) handleSceneKey(ctx context.Context, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scene, ok := m.controller.CurrentScene()
	if !ok {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedChoice > 0 {
			m.selectedChoice--
		}
	case "down", "j":
		if m.selectedChoice < len(scene.Choices)-1 {
			m.selectedChoice++
		}
	case "enter":
		if m.selectedChoice < len(scene.Choices) {
			m.controller.ChooseOption(ctx, scene.Choices[m.selectedChoice].Next)
			m.enterCurrentScene()
		}
	case "y":
		m.copySceneText(scene)
	}

	m.refresh()
	return m, nil
}

func (m UI) handleQuestionKey(ctx context.Context, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scene, ok := m.controller.CurrentScene()
	if !ok || scene.Puzzle == nil {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		correct := answer.IsCorrect(text, scene.Puzzle.Answer)
		m.finishPuzzle(ctx, scene, correct)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

// finishPuzzle applies the outcome transition immediately and switches to the
// explanation overlay. Dismissing the overlay does not re-evaluate.
func (m *UI) finishPuzzle(ctx context.Context, scene *chapter.Scene, ok bool) {
	m.controller.ResolveScenePuzzle(ctx, scene, ok)
	m.outcomeOK = ok
	m.outcomeText = scene.Puzzle.Explanation
	m.mode = modeOutcome
	m.input.Blur()
}

// enterCurrentScene derives the panel mode from the controller's position.
func (m *UI) enterCurrentScene() {
	m.statusLine = ""
	m.selectedChoice = 0
	m.engine = nil

	if m.controller.AtEnd() {
		m.mode = modeEnd
		return
	}

	scene, ok := m.controller.CurrentScene()
	if !ok {
		// Unknown current scene renders as a dead end, never an error.
		m.mode = modeScene
		return
	}

	if scene.Puzzle != nil {
		// Puzzle takes precedence over any authored choices.
		if scene.Puzzle.Kind() == chapter.KindHarmonic {
			params, _ := harmonic.ParseParams(scene.Puzzle.Answer)
			m.engine = harmonic.New(params)
			m.mode = modeHarmonic
			return
		}
		m.mode = modeQuestion
		m.input.Reset()
		m.input.Focus()
		return
	}

	m.mode = modeScene
}

func (m *UI) copySceneText(scene *chapter.Scene) {
	if err := clipboard.WriteAll(scene.Text); err != nil {
		m.logger.Warn("Failed to copy scene text", "error", err)
		m.statusLine = "Clipboard unavailable."
		return
	}
	m.statusLine = "Scene text copied."
}

// refresh rebuilds both viewports from current state.
func (m *UI) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMain())
	if m.controller != nil {
		m.metaViewport.SetContent(m.renderMeta())
	}
}

func (m *UI) renderMain() string {
	width := m.viewport.Width - 6

	if m.controller == nil {
		if m.err != nil {
			return loadingStyle.Render("Loading chapter...") + "\n\n" +
				errorStyle.Render("Error: "+m.err.Error())
		}
		return loadingStyle.Render("Loading chapter...")
	}

	switch m.mode {
	case modeEnd:
		return m.renderEnd(width)
	case modeOutcome:
		return m.renderOutcome(width)
	}

	scene, ok := m.controller.CurrentScene()
	if !ok {
		return errorStyle.Render("Scene not found.") + "\n\n" +
			hintStyle.Render("This path leads nowhere. Ctrl+R restarts the chapter.")
	}

	var b strings.Builder
	b.WriteString(sceneTitleStyle.Render(scene.Title) + "\n\n")
	for _, para := range strings.Split(scene.Text, "\n\n") {
		b.WriteString(proseStyle.Render(wordwrap.String(para, width)) + "\n\n")
	}
	b.WriteString(separatorStyle.Render(strings.Repeat("─", max(1, width))) + "\n\n")

	switch m.mode {
	case modeQuestion:
		b.WriteString(proseStyle.Render(wordwrap.String(scene.Puzzle.Question, width)) + "\n\n")
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(hintStyle.Render("enter: submit answer"))
	case modeHarmonic:
		b.WriteString(m.renderHarmonic(scene, width))
	default:
		if !scene.Interactive() {
			b.WriteString(hintStyle.Render("This is where the trail ends. Ctrl+R restarts the chapter."))
			break
		}
		for i, c := range scene.Choices {
			line := "  " + c.Label
			if i == m.selectedChoice {
				line = selectedChoiceStyle.Render("> " + c.Label)
			} else {
				line = choiceStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + hintStyle.Render("↑/↓: select • enter: choose • y: copy text"))
	}

	if m.statusLine != "" {
		b.WriteString("\n\n" + hintStyle.Render(m.statusLine))
	}

	return b.String()
}

func (m *UI) renderOutcome(width int) string {
	var b strings.Builder
	if m.outcomeOK {
		b.WriteString(successStyle.Render("Correct!") + "\n\n")
	} else {
		b.WriteString(errorStyle.Render("Not quite.") + "\n\n")
	}
	if m.outcomeText != "" {
		b.WriteString(proseStyle.Render(wordwrap.String(m.outcomeText, width)) + "\n\n")
	}
	b.WriteString(hintStyle.Render("enter: continue"))
	return b.String()
}

func (m *UI) renderEnd(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("END OF CHAPTER") + "\n\n")
	b.WriteString(proseStyle.Render(wordwrap.String(
		"You have reached the end of this chapter.", width)) + "\n\n")
	b.WriteString(fmt.Sprintf("Progress: %d%%\n", m.controller.Percent()))
	if flags := m.controller.Store().Flags(); len(flags) > 0 {
		b.WriteString("Flags earned: " + strings.Join(flags, ", ") + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("ctrl+r: play again • esc: quit"))
	return b.String()
}

func (m *UI) renderMeta() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("RESONANCE") + "\n\n")

	ch := m.controller.Chapter()
	b.WriteString("Chapter:\n")
	b.WriteString(titleCaser.String(strings.ReplaceAll(ch.Title, "_", " ")) + "\n\n")

	b.WriteString("Scene:\n")
	b.WriteString(m.controller.Store().Current() + "\n\n")

	pct := m.controller.Percent()
	b.WriteString(fmt.Sprintf("Progress: %d%%\n", pct))
	b.WriteString(renderBar(pct, m.metaViewport.Width-2) + "\n\n")

	flags := m.controller.Store().Flags()
	b.WriteString("Flags:\n")
	if len(flags) == 0 {
		b.WriteString("None yet\n")
	} else {
		for _, f := range flags {
			b.WriteString("• " + f + "\n")
		}
	}

	b.WriteString("\nCommands:\n")
	b.WriteString("• Ctrl+C: Quit\n")
	b.WriteString("• Ctrl+R: Restart\n")

	return b.String()
}

func renderBar(pct, width int) string {
	if width < 4 {
		width = 4
	}
	filled := pct * width / 100
	return successStyle.Render(strings.Repeat("█", filled)) +
		hintStyle.Render(strings.Repeat("░", width-filled))
}

func (m UI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			return m, tea.Quit
		case "n", "N", "esc":
			m.showQuitModal = false
		}
	}
	return m, nil
}

func (m UI) updateChapterModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case chaptersLoadedMsg:
		m.loadingChapters = false
		if msg.err != nil {
			m.err = msg.err
			logger.WithError(m.logger, msg.err).Error("Failed to load chapter index")
		} else {
			m.entries = msg.entries
		}

	case chapterReadyMsg:
		// The player may still be staring at the modal while a load finishes.
		if msg.gen != m.loadGen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			logger.WithError(m.logger, msg.err).Error("Failed to load chapter", "file", m.chapterFile)
			return m, nil
		}
		m.controller = msg.controller
		m.showChapterModal = false
		m.enterCurrentScene()
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selectedEntry > 0 {
				m.selectedEntry--
			}
		case "down", "j":
			if m.selectedEntry < len(m.entries)-1 {
				m.selectedEntry++
			}
		case "enter":
			if m.loading || len(m.entries) == 0 {
				return m, nil
			}
			m.loadGen++
			m.loading = true
			m.err = nil
			m.chapterFile = m.entries[m.selectedEntry].File
			return m, m.loadChapter(m.loadGen, m.chapterFile)
		}
	}

	return m, nil
}

func (m UI) View() string {
	if m.showChapterModal {
		return m.viewChapterModal()
	}

	if !m.ready {
		return "Initializing..."
	}

	main := scenePanelStyle.Render(m.viewport.View())
	meta := metaPanelStyle.Render(m.metaViewport.View())
	screen := lipgloss.JoinHorizontal(lipgloss.Top, main, meta)

	if m.showQuitModal {
		modal := modalStyle.Render(
			modalTitleStyle.Render("Quit?") + "\n\n" +
				"Progress is saved automatically.\n\n" +
				hintStyle.Render("y: quit • n: keep playing"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	return screen
}

func (m UI) viewChapterModal() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("SELECT A CHAPTER") + "\n\n")

	switch {
	case m.loadingChapters:
		b.WriteString(loadingStyle.Render("Loading chapters..."))
	case m.err != nil:
		b.WriteString(loadingStyle.Render("Loading chapters...") + "\n\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case len(m.entries) == 0:
		b.WriteString("No chapters found.")
	default:
		for i, e := range m.entries {
			label := fmt.Sprintf("%s. %s", strconv.Itoa(i+1),
				titleCaser.String(strings.ReplaceAll(e.Title, "_", " ")))
			if i == m.selectedEntry {
				b.WriteString(selectedChoiceStyle.Render("> "+label) + "\n")
			} else {
				b.WriteString(choiceStyle.Render("  "+label) + "\n")
			}
		}
		if m.loading {
			b.WriteString("\n" + loadingStyle.Render("Loading "+m.chapterFile+"..."))
		}
		b.WriteString("\n" + hintStyle.Render("↑/↓: select • enter: play • q: quit"))
	}

	modal := modalStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return modal
}
