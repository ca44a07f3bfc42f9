package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/stopwatch"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spotdemo4/mojo-chat/internal/stage"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
)

var (
	BodyStyle   = lipgloss.NewStyle().Padding(0, 1)
	FooterStyle = lipgloss.NewStyle().Align(lipgloss.Center)

	TextStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"})
	SubtextStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#a6adc8"})
	AltTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5c5f77", Dark: "#bac2de"})
	AccentTextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04a5e5", Dark: "#89dceb"})
	LinkStyle       = AccentTextStyle.Underline(true)

	UserStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1).
			Background(lipgloss.AdaptiveColor{Light: "#ccd0da", Dark: "#313244"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"})
	StageStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#bcc0cc", Dark: "#45475a"}).
			PaddingLeft(1).
			PaddingRight(1)
	FocusedStageStyle = StageStyle.
				BorderForeground(lipgloss.AdaptiveColor{Light: "#04a5e5", Dark: "#89dceb"})
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#bcc0cc", Dark: "#45475a"})
)

// maxInputRows caps how far the input grows with its content.
const maxInputRows = 5

// focusInput is the focus index of the input; stage blocks count from 0.
const focusInput = -1

var keys = struct {
	Send    key.Binding
	Newline key.Binding
	Next    key.Binding
	Prev    key.Binding
	Toggle  key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}{
	Send:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Newline: key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("alt+enter", "newline")),
	Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "stages")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab")),
	Toggle:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "fold")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

type measureMsg struct{}

type foldTickMsg struct{}

type closedMsg struct{}

type Tui struct {
	spinner    spinner.Model
	stopwatch  stopwatch.Model
	textarea   textarea.Model
	viewport   viewport.Model
	transcript *transcript.Transcript
	width      *int
	height     *int

	input        chan Input
	output       chan Msg
	version      string
	inputEnabled bool
	focus        int
	ran          bool
	folding      bool
}

func New(version string, input chan Input, output chan Msg) Tui {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = AccentTextStyle
	sw := stopwatch.New()

	ta := textarea.New()
	ta.Placeholder = "Ask me anything..."
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.MaxHeight = maxInputRows
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.Focus()

	return Tui{
		spinner:    s,
		stopwatch:  sw,
		textarea:   ta,
		viewport:   viewport.New(0, 0),
		transcript: transcript.New(),

		input:        input,
		output:       output,
		version:      version,
		inputEnabled: true,
		focus:        focusInput,
	}
}

// Transcript returns what has been shown so far.
func (m Tui) Transcript() *transcript.Transcript {
	return m.transcript
}

func (m Tui) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.stopwatch.Init(),
		textarea.Blink,
		m.pull(),
	)
}

func (m Tui) pull() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.output
		if !ok {
			return closedMsg{}
		}
		return msg
	}
}

func (m Tui) send(in Input) tea.Cmd {
	return func() tea.Msg {
		m.input <- in
		return nil
	}
}

func (m Tui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	cmds := []tea.Cmd{}

	switch msg := msg.(type) {

	case Msg:
		cmds = append(cmds, m.apply(msg), m.pull())
		m.refresh(msg.Type == MsgScroll)
		return m, tea.Batch(cmds...)

	case closedMsg:
		return m, nil

	case measureMsg:
		m.measure(false)
		m.refresh(false)
		return m, nil

	case foldTickMsg:
		moving := false
		for _, b := range m.transcript.StageBlocks() {
			if b.Fold.Step() {
				moving = true
			}
		}
		m.folding = moving
		m.refresh(false)
		if moving {
			return m, foldTick()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Cancel):
			return m, m.send(Input{Cancel: true})

		case key.Matches(msg, keys.Next):
			m.cycleFocus(1)
			m.refresh(false)
			return m, nil

		case key.Matches(msg, keys.Prev):
			m.cycleFocus(-1)
			m.refresh(false)
			return m, nil
		}

		// A stage block has focus
		if m.focus != focusInput {
			if key.Matches(msg, keys.Toggle) {
				blocks := m.transcript.StageBlocks()
				if m.focus < len(blocks) {
					blocks[m.focus].Fold.Toggle()
					m.refresh(false)
					if !m.folding {
						m.folding = true
						return m, foldTick()
					}
				}
				return m, nil
			}

			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if key.Matches(msg, keys.Send) {
			// Rejected turns are dropped by the receiving side
			return m, m.send(Input{Text: m.textarea.Value()})
		}

		switch msg.String() {
		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if m.inputEnabled {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			m.resize()
		}

	case tea.WindowSizeMsg:
		m.width = &msg.Width
		m.height = &msg.Height
		m.resize()
		m.measure(true)
		m.refresh(false)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.transcript.Waiting() {
			m.refresh(false)
		}

	default:
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.stopwatch, cmd = m.stopwatch.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// apply performs one view update from a running turn.
func (m *Tui) apply(msg Msg) tea.Cmd {
	switch msg.Type {

	case MsgMessage:
		m.transcript.AddMessage(transcript.Message{
			ID:   msg.ID,
			Role: msg.Role,
			Text: msg.Text,
			HTML: msg.HTML,
		})

	case MsgReveal:
		m.transcript.Reveal(msg.ID, msg.Text)

	case MsgFinalize:
		m.transcript.Finalize(msg.ID, msg.HTML)

	case MsgStageGroup:
		m.transcript.AddStageGroup(msg.ID, msg.Block)
		return measure()

	case MsgStageBlock:
		if m.transcript.AddStageBlock(msg.ID, msg.Block) {
			return measure()
		}

	case MsgIndicator:
		if msg.Enabled {
			m.transcript.ShowIndicator()
		} else {
			m.transcript.HideIndicator()
		}

	case MsgInput:
		m.inputEnabled = msg.Enabled
		if msg.Enabled {
			m.ran = true
			return m.stopwatch.Stop()
		}

		m.textarea.Blur()
		return tea.Sequence(m.stopwatch.Reset(), m.stopwatch.Start())

	case MsgResetInput:
		m.textarea.Reset()
		m.resize()

	case MsgFocus:
		m.focus = focusInput
		return m.textarea.Focus()
	}

	return nil
}

// measure lays out stage bodies and records their natural heights. Blocks
// added since the last layout are measured one tick after insertion, once the
// width they wrap to is known.
func (m *Tui) measure(all bool) {
	if m.width == nil {
		return
	}

	for _, b := range m.transcript.StageBlocks() {
		if all || !b.Fold.Measured() {
			b.Fold.Measure(lipgloss.Height(m.stageBody(b)))
		}
	}
}

func (m *Tui) cycleFocus(delta int) {
	n := len(m.transcript.StageBlocks())
	if n == 0 {
		m.focus = focusInput
		return
	}

	// Positions 0..n-1 are blocks, n is the input
	pos := m.focus
	if pos == focusInput {
		pos = n
	}
	pos = (pos + delta + n + 1) % (n + 1)

	if pos == n {
		m.focus = focusInput
		if m.inputEnabled {
			m.textarea.Focus()
		}
		return
	}

	m.focus = pos
	m.textarea.Blur()
}

func (m *Tui) resize() {
	if m.width == nil || m.height == nil {
		return
	}

	m.textarea.SetWidth(*m.width - 2)
	m.textarea.SetHeight(min(max(m.textarea.LineCount(), 1), maxInputRows))

	// input + its border + footer
	reserved := m.textarea.Height() + 1 + 1
	m.viewport.Width = *m.width
	m.viewport.Height = max(*m.height-reserved, 1)
}

// refresh re-renders the transcript into the viewport, following the bottom
// when asked to or when the view was already there.
func (m *Tui) refresh(follow bool) {
	if m.width == nil {
		return
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}

func (m Tui) contentWidth() int {
	if m.width == nil {
		return 80
	}
	return max(*m.width-2, 10)
}

func (m Tui) renderTranscript() string {
	width := m.contentWidth()
	parts := []string{}

	index := 0
	for _, e := range m.transcript.Entries() {
		switch e := e.(type) {

		case *transcript.Message:
			parts = append(parts, m.renderMessage(e, width))

		case *transcript.StageGroup:
			blocks := []string{}
			for _, b := range e.Blocks {
				blocks = append(blocks, m.renderStage(b, index == m.focus, width))
				index++
			}
			parts = append(parts, lipgloss.JoinVertical(lipgloss.Left, blocks...))

		case transcript.Indicator:
			parts = append(parts, m.spinner.View())
		}
	}

	return BodyStyle.Width(*m.width).Render(strings.Join(parts, "\n\n"))
}

func (m Tui) renderMessage(msg *transcript.Message, width int) string {
	switch {
	case msg.Role == transcript.RoleUser:
		text := Printable(msg.Text)
		user := UserStyle.MaxWidth(width).Render(lipgloss.NewStyle().Width(min(lipgloss.Width(text), width-2)).Render(text))
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, user)

	case msg.HTML != "":
		return lipgloss.NewStyle().Width(width).Render(RenderFragment(msg.HTML))

	default:
		return TextStyle.Width(width).Render(Printable(msg.Revealed))
	}
}

func (m Tui) stageBody(b *transcript.StageBlock) string {
	// border + padding
	return lipgloss.NewStyle().Width(m.contentWidth() - 4).Render(RenderNode(b.Body))
}

func (m Tui) renderStage(b *transcript.StageBlock, focused bool, width int) string {
	header := fmt.Sprintf("%s %s %s", b.Icon, AccentTextStyle.Bold(true).Render(b.Title), SubtextStyle.Render(b.Fold.Indicator()))

	content := header
	lines := strings.Split(m.stageBody(b), "\n")
	if visible := b.Fold.Visible(); visible != 0 {
		if visible > 0 && visible < len(lines) {
			lines = lines[:visible]
		}
		content += "\n" + strings.Join(lines, "\n")
	}

	style := StageStyle
	if focused {
		style = FocusedStageStyle
	}

	return style.Width(width - 2).Render(content)
}

func (m Tui) View() string {
	if m.width == nil || m.height == nil {
		return ""
	}

	body := m.viewport.View()
	if len(m.transcript.Entries()) == 0 {
		body = lipgloss.Place(*m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			SubtextStyle.Render("Ask a question to get started"))
	}

	input := InputStyle.Width(*m.width).Render(m.textarea.View())

	return lipgloss.JoinVertical(lipgloss.Left, body, input, FooterStyle.Width(*m.width).Render(m.footer()))
}

func (m Tui) footer() string {
	var status string
	switch {
	case !m.inputEnabled:
		status = fmt.Sprintf("%s elapsed", m.stopwatch.View())
	case m.ran:
		status = fmt.Sprintf("took %s", m.stopwatch.View())
	default:
		status = fmt.Sprintf("mojo chat v%s", m.version)
	}

	help := []string{}
	for _, b := range []key.Binding{keys.Send, keys.Newline, keys.Next, keys.Cancel, keys.Quit} {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	return AltTextStyle.Render(status) + SubtextStyle.Render("  ·  "+strings.Join(help, " · "))
}

func measure() tea.Cmd {
	return func() tea.Msg {
		return measureMsg{}
	}
}

func foldTick() tea.Cmd {
	return tea.Tick(time.Second/stage.FPS, func(time.Time) tea.Msg {
		return foldTickMsg{}
	})
}
