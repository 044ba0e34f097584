package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/lockedstudy/cli"
)

// msgBusy is shown when input arrives while a command is still running.
const msgBusy = "Still thinking…"

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the escape room.
type Model struct {
	game *cli.Game
	ctx  context.Context

	viewport viewport.Model
	input    textinput.Model
	recall   *recall

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)
	status   status

	width    int
	height   int
	ready    bool
	busy     bool // a game command is running
	quitting bool
}

// gameOutputMsg carries output from the game into the Update loop.
type gameOutputMsg struct {
	input  string // echoed player input (empty for intro)
	out    cli.Output
	status status
}

// New creates a TUI model wired to the given game.
func New(ctx context.Context, g *cli.Game) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		game:    g,
		ctx:     ctx,
		input:   ti,
		recall:  newRecall(100),
		status:  snapshot(g),
	}
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, g *cli.Game) error {
	p := tea.NewProgram(New(ctx, g), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	g := m.game
	return func() tea.Msg {
		lines := append([]string{g.Banner(), ""}, g.Intro()...)
		return gameOutputMsg{out: cli.Output{Lines: lines}, status: snapshot(g)}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.recall.older(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.recall.newer(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m.busy = false
		m.status = msg.status
		m = m.appendOutput(msg)
		if msg.out.Quit {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter submits the input line. Game commands run off the UI loop
// because the narrator may take seconds to answer.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}
	if m.busy {
		m = m.appendOutput(gameOutputMsg{out: cli.Output{Lines: []string{msgBusy}, System: true}, status: m.status})
		return m, nil
	}

	m.input.SetValue("")
	m.recall.add(input)
	m.busy = true

	g, ctx := m.game, m.ctx
	return m, func() tea.Msg {
		out := g.Play(ctx, input)
		return gameOutputMsg{input: input, out: out, status: snapshot(g)}
	}
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.out.Lines {
		rl := rawLine{text: line, isSystem: msg.out.System}
		switch {
		case msg.out.System:
		case msg.out.Rejected:
			rl.kind = kindError
		default:
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHint:
		return styleHint.Render(line)
	case kindWin:
		return styleWin.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps each paragraph of text to width display cells, breaking
// at word boundaries. Widths come from lipgloss so emoji and the ellipsis
// count as they render.
func wordWrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width && !strings.Contains(text, "\n") {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapParagraph(p, width)
	}
	return strings.Join(paragraphs, "\n")
}

func wrapParagraph(p string, width int) string {
	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(p) {
		w := lipgloss.Width(word)
		switch {
		case i == 0:
			lineLen = w
		case lineLen+1+w > width:
			b.WriteString("\n")
			lineLen = w
		default:
			b.WriteString(" ")
			lineLen += 1 + w
		}
		b.WriteString(word)
	}
	return b.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those to recall earlier commands).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
