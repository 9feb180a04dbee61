package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"lanchat/internal/history"
	"lanchat/internal/transport"
)

const (
	// historyCap bounds the message panel buffer; oldest lines are evicted
	// first.
	historyCap = 500

	// maxNickname is the nickname length limit in runes.
	maxNickname = 50

	nickPrompt = "nick: "
	chatPrompt = ">> "
)

// broadcaster is the sender surface the UI needs; tests substitute a stub.
type broadcaster interface {
	Send(text string) error
}

// --- Messages ---

// inboundMsg carries one formatted line from the listener goroutine.
type inboundMsg string

type tickMsg time.Time

// --- Key bindings ---

type keyMap struct {
	Submit key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Quit}}
}

// --- Modes ---

type mode int

const (
	modeNickname mode = iota // waiting for the user to pick a nickname
	modeChatting
)

func (m mode) String() string {
	switch m {
	case modeNickname:
		return "nickname"
	case modeChatting:
		return "chatting"
	}
	return "?"
}

// --- Styles ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))

	messagePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#6C7086"))

	inputPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A6E3A1"))

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))
)

// --- Model ---

// chatModel is the single-threaded interactive loop: it drains inbound
// lines, applies keystrokes, and renders the header, message, and input
// panels. All session state lives here.
type chatModel struct {
	endpoint transport.Endpoint
	sender   broadcaster
	logger   *log.Logger

	mode     mode
	nickname string
	status   string
	statusOK bool
	hist     *history.History

	input textinput.Model
	vp    viewport.Model
	help  help.Model

	width  int
	height int
	ready  bool
}

func newChatModel(ep transport.Endpoint, sender broadcaster, logger *log.Logger) chatModel {
	ti := textinput.New()
	ti.Prompt = nickPrompt
	ti.Focus()

	return chatModel{
		endpoint: ep,
		sender:   sender,
		logger:   logger,
		status:   "listening on " + ep.String(),
		statusOK: true,
		hist:     history.New(historyCap),
		input:    ti,
		vp:       viewport.New(80, 20),
		help:     help.New(),
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickEvery())
}

// tickEvery is the render heartbeat; every other update is event-driven.
func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Header (1) + message panel border (2) + input panel (3) + help (1).
		m.vp.Width = msg.Width - 2
		m.vp.Height = msg.Height - 7
		if m.vp.Height < 1 {
			m.vp.Height = 1
		}
		m.input.Width = msg.Width - 8
		m.ready = true
		m.syncViewport()

	case inboundMsg:
		m.hist.Push(string(msg))
		m.syncViewport()

	case tickMsg:
		return m, tickEvery()
	}

	return m, nil
}

// submit handles Enter for both modes. In nickname mode a non-empty trimmed
// buffer becomes the session nickname; in chat mode the buffer is composed
// with the nickname and broadcast. Send failures become status text, never a
// crash.
func (m chatModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	switch m.mode {
	case modeNickname:
		if text == "" {
			return m, nil
		}
		if utf8.RuneCountInString(text) > maxNickname {
			m.setStatus(fmt.Sprintf("nickname too long (max %d characters)", maxNickname), false)
			return m, nil
		}
		m.nickname = text
		m.mode = modeChatting
		m.input.Reset()
		m.input.Prompt = chatPrompt
		m.setStatus("chatting as "+text, true)
		m.logger.Info("nickname set", "nick", text)

	case modeChatting:
		if text == "" {
			return m, nil
		}
		if text == "/quit" || text == "/exit" {
			return m, tea.Quit
		}
		m.input.Reset()
		m.broadcast(text)
	}

	return m, nil
}

// broadcast sends one composed line. The sent line is not echoed into the
// history; it shows up only if the host receives its own broadcast.
func (m *chatModel) broadcast(text string) {
	line := m.nickname + ": " + text
	err := m.sender.Send(line)

	var le *transport.LengthError
	switch {
	case err == nil:
		m.setStatus("sent", true)
		m.logger.Debug("broadcast sent", "bytes", len(line))
	case errors.As(err, &le):
		m.setStatus(le.Error(), false)
		m.logger.Warn("message rejected", "bytes", le.Size)
	default:
		m.setStatus("send failed: "+err.Error(), false)
		m.logger.Error("send failed", "err", err)
	}
}

func (m *chatModel) setStatus(s string, ok bool) {
	m.status = s
	m.statusOK = ok
}

func (m *chatModel) syncViewport() {
	m.vp.SetContent(strings.Join(m.hist.Lines(), "\n"))
	m.vp.GotoBottom()
}

// --- View rendering ---

func (m chatModel) View() string {
	if !m.ready {
		return "Starting lanchat..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteRune('\n')
	b.WriteString(messagePanelStyle.Width(m.width - 2).Render(m.vp.View()))
	b.WriteRune('\n')
	b.WriteString(inputPanelStyle.Width(m.width - 2).Render(m.input.View()))
	b.WriteRune('\n')
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m chatModel) renderHeader() string {
	nick := m.nickname
	if nick == "" {
		nick = "-"
	}

	style := statusOKStyle
	if !m.statusOK {
		style = statusErrStyle
	}
	line := fmt.Sprintf("iface=%s | nick=%s | status=%s", m.endpoint, nick, style.Render(m.status))

	return headerStyle.Width(m.width).Render(ansi.Truncate(line, m.width, "…"))
}
