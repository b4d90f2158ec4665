package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/voicekind/companion-core/core"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	interimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type (
	userMsg      string
	assistantMsg string
	interimMsg   string
	errorMsg     struct {
		kind    orchestration.ErrorKind
		message string
	}
	listeningMsg  bool
	muteMsg       bool
	speakingMsg   bool
	connectionMsg bool
	turnDoneMsg   struct{}
	closedMsg     struct{}
)

// uiBridge forwards session callbacks into the bubbletea program. Callbacks
// can fire before the program is attached; those events are queued.
type uiBridge struct {
	mu      sync.Mutex
	program *tea.Program
	pending []tea.Msg
}

func newUIBridge() *uiBridge {
	return &uiBridge{}
}

func (b *uiBridge) attach(program *tea.Program) {
	b.mu.Lock()
	b.program = program
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	for _, msg := range pending {
		program.Send(msg)
	}
}

func (b *uiBridge) send(msg tea.Msg) {
	b.mu.Lock()
	program := b.program
	if program == nil {
		b.pending = append(b.pending, msg)
	}
	b.mu.Unlock()
	if program != nil {
		program.Send(msg)
	}
}

func (b *uiBridge) sessionOptions() []orchestration.SessionOption {
	return []orchestration.SessionOption{
		orchestration.WithUserMessageCallback(func(text string) {
			b.send(userMsg(text))
		}),
		orchestration.WithInterimTranscriptionCallback(func(transcript string) {
			b.send(interimMsg(transcript))
		}),
		orchestration.WithAssistantMessageCallback(func(text string) {
			b.send(assistantMsg(text))
		}),
		orchestration.WithTurnCompletedCallback(func() {
			b.send(turnDoneMsg{})
		}),
		orchestration.WithListeningStateCallback(func(listening bool) {
			b.send(listeningMsg(listening))
		}),
		orchestration.WithMuteStateCallback(func(muted bool) {
			b.send(muteMsg(muted))
		}),
		orchestration.WithSpeakingStateCallback(func(speaking bool) {
			b.send(speakingMsg(speaking))
		}),
		orchestration.WithConnectionStateCallback(func(connected bool) {
			b.send(connectionMsg(connected))
		}),
		orchestration.WithErrorCallback(func(kind orchestration.ErrorKind, message string) {
			b.send(errorMsg{kind: kind, message: message})
		}),
		orchestration.WithClosedCallback(func() {
			b.send(closedMsg{})
		}),
	}
}

type transcriptLine struct {
	speaker string
	text    string
}

type model struct {
	session *orchestration.Session
	bridge  *uiBridge
	name    string

	viewport viewport.Model
	ready    bool

	transcript []transcriptLine
	interim    string

	connected bool
	listening bool
	speaking  bool
	muted     bool
	lastError string
}

func newModel(session *orchestration.Session, bridge *uiBridge, name string) model {
	if name == "" {
		name = "you"
	}
	return model{
		session: session,
		bridge:  bridge,
		name:    name,
		muted:   session.IsMuted(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.session.Close()
			return m, tea.Quit
		case "m":
			m.session.SetMuted(!m.session.IsMuted())
		case "l":
			if m.listening {
				m.session.StopListening()
			} else {
				go m.session.StartListening(context.Background())
			}
		}

	case tea.WindowSizeMsg:
		headerHeight := 3
		footerHeight := 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.refreshTranscript()

	case userMsg:
		m.transcript = append(m.transcript, transcriptLine{speaker: m.name, text: string(msg)})
		m.interim = ""
		m.refreshTranscript()

	case assistantMsg:
		m.transcript = append(m.transcript, transcriptLine{speaker: "companion", text: string(msg)})
		m.refreshTranscript()

	case interimMsg:
		m.interim = string(msg)

	case listeningMsg:
		m.listening = bool(msg)
		if !m.listening {
			m.interim = ""
		}

	case muteMsg:
		m.muted = bool(msg)

	case speakingMsg:
		m.speaking = bool(msg)

	case connectionMsg:
		m.connected = bool(msg)

	case errorMsg:
		m.lastError = fmt.Sprintf("%s: %s", msg.kind, msg.message)

	case turnDoneMsg:
		// Nothing to update; the listening state change follows on its own.

	case closedMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) refreshTranscript() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, line := range m.transcript {
		style := assistantStyle
		if line.speaker == m.name {
			style = userStyle
		}
		wrapped := wordwrap.String(line.text, max(m.viewport.Width-4, 20))
		b.WriteString(style.Render(line.speaker+":") + " " + wrapped + "\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Companion"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.interim != "" {
		b.WriteString(interimStyle.Render("... " + m.interim))
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("l: toggle listening  m: toggle mute  q: quit"))

	return b.String()
}

func (m model) renderStatus() string {
	var parts []string

	if m.connected {
		parts = append(parts, activeStyle.Render("connected"))
	} else {
		parts = append(parts, statusStyle.Render("disconnected"))
	}

	switch state := m.session.State(); state {
	case orchestration.TurnStateListening:
		label := "listening"
		if m.speaking {
			label = "listening (speech detected)"
		}
		parts = append(parts, activeStyle.Render(label))
	default:
		parts = append(parts, statusStyle.Render(string(state)))
	}

	if m.muted {
		parts = append(parts, statusStyle.Render("muted"))
	}
	if m.lastError != "" {
		parts = append(parts, errorStyle.Render(m.lastError))
	}

	return strings.Join(parts, "  |  ")
}
