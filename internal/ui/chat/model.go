// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/helpdesk-tui/internal/chatclient"
	"github.com/jeranaias/helpdesk-tui/internal/config"
	"github.com/jeranaias/helpdesk-tui/internal/transcript"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

// continuationBuffer bounds how many resolved requests can wait for the
// Bubble Tea loop before their goroutines block.
const continuationBuffer = 64

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures New.
type Options struct {
	Backend    chatclient.Backend
	BackendURL string
	Theme      *styles.Theme
	UI         config.UIConfig
	Logger     *zerolog.Logger
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	theme  *styles.Theme
	keys   KeyMap
	ui     config.UIConfig
	url    string
	logger zerolog.Logger

	screen *screen
	client *chatclient.Client
	md     *markdown

	// Continuations posted by the controller, drained by listen.
	pending chan func()
	done    chan struct{}
	once    *sync.Once

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model

	width    int
	height   int
	ready    bool
	spinning bool
	showHelp bool

	// selected is the ID of the selected reply; "" follows the latest.
	selected string
	notice   string
}

// New creates the chat model and its controller.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(opts.UI.Theme)
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	input := textinput.New()
	input.Placeholder = "Type a message and press Enter..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := Model{
		theme:   theme,
		keys:    DefaultKeyMap(),
		ui:      opts.UI,
		url:     opts.BackendURL,
		logger:  logger,
		screen:  newScreen(),
		md:      newMarkdown(theme.Glamour()),
		pending: make(chan func(), continuationBuffer),
		done:    make(chan struct{}),
		once:    &sync.Once{},
		input:   input,
		spinner: sp,
		help:    newHelp(theme),
	}

	pending, done := m.pending, m.done
	m.client = chatclient.New(chatclient.Options{
		Backend: opts.Backend,
		View:    m.screen,
		Post: func(fn func()) {
			select {
			case pending <- fn:
			case <-done:
			}
		},
		Logger: &logger,
	})
	return m
}

// Transcript returns the transcript shown by the view.
func (m Model) Transcript() *transcript.Transcript {
	return m.screen.tr
}

// Client returns the chat controller driving the view.
func (m Model) Client() *chatclient.Client {
	return m.client
}

// Shutdown releases goroutines still waiting to post continuations.
// Call it after the program exits.
func (m Model) Shutdown() {
	m.once.Do(func() { close(m.done) })
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the continuation listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listen())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ContinuationMsg:
		if msg.Run != nil {
			msg.Run()
		}
		m.applyEffects()
		return m, m.listen()

	case spinner.TickMsg:
		if m.client.InFlight() == 0 {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.notice = m.theme.RenderError("copy failed")
			m.logger.Warn().Err(msg.err).Msg("CLIPBOARD_WRITE_FAILED")
		} else {
			m.notice = m.theme.RenderSuccess("reply copied")
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// listen waits for the next continuation.
func (m Model) listen() tea.Cmd {
	pending, done := m.pending, m.done
	return func() tea.Msg {
		select {
		case fn := <-pending:
			return ContinuationMsg{Run: fn}
		case <-done:
			return nil
		}
	}
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// header + input block (border + line) + status bar
	const (
		headerHeight = 1
		inputHeight  = 2
		statusHeight = 1
	)
	vpHeight := m.height - headerHeight - inputHeight - statusHeight
	if m.showHelp {
		vpHeight -= m.helpHeight()
	}
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 4
	m.help.Width = m.width

	atBottom := m.viewport.AtBottom()
	m.refreshViewport()
	if atBottom {
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) helpHeight() int {
	return len(m.keys.FullHelp()[0]) + 2
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Reset):
		m.client.ResetConversation()
		return m, m.startSpinner()

	case key.Matches(msg, m.keys.NextReply):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevReply):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.RateUp):
		return m.rate(transcript.RatingUp)

	case key.Matches(msg, m.keys.RateDown):
		return m.rate(transcript.RatingDown)

	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		if m.ready {
			return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input, or runs it as a slash command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	m.notice = ""

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "/reset":
		m.input.Reset()
		m.client.ResetConversation()
		return m, m.startSpinner()
	case "/help":
		m.input.Reset()
		m.showHelp = true
		if m.ready {
			return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		return m, nil
	case "/quit", "/exit":
		return m, tea.Quit
	}

	if !m.client.SubmitMessage(raw) {
		return m, nil
	}
	m.applyEffects()
	return m, m.startSpinner()
}

// rate submits feedback for the selected reply.
func (m Model) rate(r transcript.Rating) (tea.Model, tea.Cmd) {
	msg := m.selectedReply()
	if msg == nil || msg.Feedback == nil {
		return m, nil
	}
	if !m.client.Rate(msg.Feedback, r) {
		return m, nil
	}
	return m, m.startSpinner()
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// =============================================================================
// SELECTION
// =============================================================================

// selectedReply returns the selected reply, falling back to the latest.
func (m Model) selectedReply() *transcript.Message {
	if m.selected != "" {
		for _, r := range m.screen.tr.Replies() {
			if r.ID == m.selected {
				return r
			}
		}
	}
	return m.screen.tr.LastBotReply()
}

// moveSelection steps through replies; delta is +1 (newer) or -1 (older).
func (m *Model) moveSelection(delta int) {
	replies := m.screen.tr.Replies()
	if len(replies) == 0 {
		m.selected = ""
		return
	}

	idx := len(replies) - 1
	if cur := m.selectedReply(); cur != nil {
		for i, r := range replies {
			if r.ID == cur.ID {
				idx = i
				break
			}
		}
	}
	idx = (idx + delta + len(replies)) % len(replies)
	m.selected = replies[idx].ID
	m.refreshViewport()
}

func (m Model) copySelected() tea.Cmd {
	msg := m.selectedReply()
	if msg == nil {
		return nil
	}
	text := msg.Text
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.notice = m.theme.RenderError("config reload failed")
		m.logger.Warn().Err(msg.Err).Msg("CONFIG_RELOAD_FAILED")
		return m, nil
	}

	m.ui = config.Global().UI
	m.theme = styles.NewTheme(m.ui.Theme)
	m.input.PromptStyle = m.theme.InputPrompt
	m.spinner.Style = m.theme.Spinner
	m.help = newHelp(m.theme)
	m.help.Width = m.width
	m.md.setStyle(m.theme.Glamour())
	m.notice = m.theme.RenderSuccess("config reloaded")
	m.logger.Info().Str("theme", m.ui.Theme).Msg("CONFIG_RELOADED")

	m.refreshViewport()
	return m, nil
}

// =============================================================================
// VIEWPORT UPDATE
// =============================================================================

// applyEffects carries out what the controller asked the view to do.
func (m *Model) applyEffects() {
	dirty, clearInput, scrollToEnd := m.screen.effects()
	if clearInput {
		m.input.Reset()
	}
	if dirty {
		m.pruneSelection()
		m.refreshViewport()
	}
	if scrollToEnd {
		m.viewport.GotoBottom()
	}
}

// pruneSelection drops a selection whose reply was cleared.
func (m *Model) pruneSelection() {
	if m.selected != "" && m.screen.tr.IndexOf(m.selected) < 0 {
		m.selected = ""
	}
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}
