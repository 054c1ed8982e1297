// Package tui provides a terminal rendering of a transient label built on
// BubbleTea. Typed text is shown and hidden again after the label delay.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/transientlabel/internal/label"
	"github.com/jmylchreest/transientlabel/internal/visibility"
)

// countdownInterval is how often the remaining time is redrawn.
const countdownInterval = 100 * time.Millisecond

// Model is the main TUI model.
type Model struct {
	label   *label.Label
	changes chan struct{}
	cancel  func()

	now          func() time.Time
	random       func() int
	clipboardCmd string

	input textinput.Model
	help  help.Model
	keys  KeyMap

	state    visibility.State
	style    lipgloss.Style
	width    int
	height   int
	ready    bool
	showHelp bool

	statusMsg string
	statusErr bool
}

// Options configures a Model.
type Options struct {
	Now              func() time.Time // Defaults to time.Now
	Random           func() int       // Defaults to a random number in [100, 999]
	ClipboardCommand string           // Empty auto-detects wl-copy, xclip or xsel
}

type stateMsg struct {
	state visibility.State
}

type tickMsg struct {
	seq uint64
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// New creates a model rendering l. Close must be called when the model is
// no longer used.
func New(l *label.Label, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Random == nil {
		opts.Random = func() int { return 100 + rand.IntN(900) }
	}

	input := textinput.New()
	input.Placeholder = "Type a label and press enter..."
	input.CharLimit = 200
	input.Focus()

	// One pending signal is enough: the receiver reads the latest state.
	changes := make(chan struct{}, 1)
	cancel := l.Observe(func(visibility.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	return Model{
		label:        l,
		changes:      changes,
		cancel:       cancel,
		now:          opts.Now,
		random:       opts.Random,
		clipboardCmd: opts.ClipboardCommand,
		input:        input,
		help:         help.New(),
		keys:         DefaultKeyMap(),
		state:        l.State(),
		style:        LabelStyle(l.Style()),
	}
}

// Close detaches the model from its label.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.waitForChange,
	)
}

// waitForChange blocks until the label changes.
func (m Model) waitForChange() tea.Msg {
	<-m.changes
	return stateMsg{state: m.label.State()}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case stateMsg:
		cmd := m.applyState(msg.state)
		return m, tea.Batch(m.waitForChange, cmd)

	case tickMsg:
		if msg.seq != m.state.Seq || !m.state.Visible {
			return m, nil
		}
		return m, m.tick()

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Copy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, func() tea.Msg {
			return statusMsg{text: "Copied to clipboard"}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyState takes a snapshot newer than the current one and starts the
// countdown redraw for a visible label. A snapshot already applied is
// ignored so that only one tick chain runs per Seq.
func (m *Model) applyState(s visibility.State) tea.Cmd {
	if s.Seq <= m.state.Seq {
		return nil
	}
	m.state = s
	if s.Visible {
		return m.tick()
	}
	return nil
}

func (m Model) tick() tea.Cmd {
	seq := m.state.Seq
	return tea.Tick(countdownInterval, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Display):
		m.label.Display(m.input.Value())
		return m, m.applyState(m.label.State())

	case key.Matches(msg, m.keys.Appear):
		m.label.Appear()
		return m, m.applyState(m.label.State())

	case key.Matches(msg, m.keys.Random):
		m.label.Display(fmt.Sprintf("%d", m.random()))
		return m, m.applyState(m.label.State())

	case key.Matches(msg, m.keys.Copy):
		if m.state.Text == "" {
			return m, nil
		}
		return m, m.copyToClipboard(m.state.Text)

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.clipboardCmd
	return func() tea.Msg {
		return copyResultMsg{err: copyText(context.Background(), text, command)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Transient Label"))
	b.WriteString("\n")
	b.WriteString(m.viewLabel())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.viewStatus()))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		b.WriteString(statusStyle.Render(m.statusMsg))
	} else {
		b.WriteString(m.help.View(m.keys))
	}

	return b.String()
}

// viewLabel renders the label, or blank lines of the same height while it
// is hidden so the layout does not jump.
func (m Model) viewLabel() string {
	rendered := m.style.Render(m.state.Text)
	if !m.state.Visible {
		rendered = strings.Repeat("\n", lipgloss.Height(rendered)-1)
	}
	if m.width > 0 {
		rendered = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, rendered)
	}
	return rendered
}

func (m Model) viewStatus() string {
	if !m.state.Visible {
		return fmt.Sprintf("hidden (delay %s)", m.label.Delay())
	}
	remaining := m.state.Remaining(m.now()).Round(10 * time.Millisecond)
	return fmt.Sprintf("visible, hides in %s", remaining)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Delay            time.Duration
	Style            label.Style
	ClipboardCommand string
	Logger           *slog.Logger
}

// Run starts the TUI and blocks until the user quits.
func Run(opts RunOptions) error {
	l, err := label.New(label.Options{
		Delay:  opts.Delay,
		Style:  opts.Style,
		Logger: opts.Logger,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	m := New(l, Options{ClipboardCommand: opts.ClipboardCommand})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
