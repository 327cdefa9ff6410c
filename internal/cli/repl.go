// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/jeranaias/helpdesk-tui/internal/chatclient"
	"github.com/jeranaias/helpdesk-tui/internal/dispatch"
	"github.com/jeranaias/helpdesk-tui/internal/transcript"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
	"github.com/jeranaias/helpdesk-tui/internal/util"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads one line of user input.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides input history and line editing for line mode.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor, loading history from historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return c
}

// ReadInput reads a line with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (c *ChatCLI) Close() {
	if c.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err == nil {
			if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				_, _ = c.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	c.line.Close()
}

// =============================================================================
// LINE VIEW
// =============================================================================

// lineView renders the transcript as scrolling terminal output.
// Replies are numbered from 1 within the current conversation so they can
// be rated with /up N and /down N.
type lineView struct {
	out      io.Writer
	theme    *styles.Theme
	tr       *transcript.Transcript
	width    int
	markdown func(text string) string
}

func newLineView(out io.Writer, theme *styles.Theme, width int) *lineView {
	return &lineView{
		out:   out,
		theme: theme,
		tr:    transcript.New(),
		width: width,
	}
}

func (v *lineView) AppendMessage(msg *transcript.Message) {
	v.tr.Append(msg)

	switch {
	case msg.IsUser():
		fmt.Fprintln(v.out, v.theme.Muted.Render(msg.Display()))
	case v.markdown != nil:
		fmt.Fprintln(v.out, msg.Sender.Prefix()+strings.TrimSpace(v.markdown(msg.Text)))
	default:
		fmt.Fprintln(v.out, strings.Join(util.Wrap(msg.Display(), v.width), "\n"))
	}
}

func (v *lineView) AttachFeedback(msg *transcript.Message, pair *transcript.FeedbackPair) {
	if !v.tr.AttachFeedback(msg, pair) {
		return
	}
	n := v.replyNumber(pair)
	fmt.Fprintf(v.out, "   %s %s /up %d   %s /down %d\n",
		v.theme.Muted.Render(fmt.Sprintf("[#%d] Feedback:", n)),
		transcript.RatingUp.Glyph(), n,
		transcript.RatingDown.Glyph(), n)
}

func (v *lineView) FeedbackChanged(pair *transcript.FeedbackPair) {
	r, ok := pair.Activated()
	if !ok {
		return
	}
	fmt.Fprintf(v.out, "   %s\n", v.theme.RenderSuccess(fmt.Sprintf("feedback for #%d recorded %s", v.replyNumber(pair), r.Glyph())))
}

func (v *lineView) ClearInput() {}

func (v *lineView) ClearTranscript() {
	v.tr.Clear()
	fmt.Fprintln(v.out, v.theme.Muted.Render(strings.Repeat("─", min(v.width, 40))))
}

func (v *lineView) ScrollToEnd() {}

// replyNumber returns the 1-based position of pair among replies.
func (v *lineView) replyNumber(pair *transcript.FeedbackPair) int {
	for i, r := range v.tr.Replies() {
		if r.Feedback == pair {
			return i + 1
		}
	}
	return 0
}

// reply returns reply number n, or the latest reply when n is 0.
func (v *lineView) reply(n int) (*transcript.Message, error) {
	replies := v.tr.Replies()
	if len(replies) == 0 {
		return nil, errors.New("no replies to rate yet")
	}
	if n == 0 {
		return replies[len(replies)-1], nil
	}
	if n < 1 || n > len(replies) {
		return nil, fmt.Errorf("no reply #%d (have %d)", n, len(replies))
	}
	return replies[n-1], nil
}

// =============================================================================
// REPL
// =============================================================================

const replHelp = `Commands:
  /up [N]     rate reply #N (default: latest) 👍
  /down [N]   rate reply #N (default: latest) 👎
  /reset      start a new conversation
  /help       show this help
  /quit       exit
Anything else is sent to the support bot.`

// REPL runs a line-mode conversation.
//
// Controller calls and their continuations run on a dispatch.Queue. After
// each command the REPL waits for outstanding requests so output does not
// interleave with the prompt.
type REPL struct {
	in     LineReader
	out    io.Writer
	view   *lineView
	queue  *dispatch.Queue
	client *chatclient.Client
	log    zerolog.Logger
}

// REPLOptions configures NewREPL.
type REPLOptions struct {
	Backend  chatclient.Backend
	In       LineReader
	Out      io.Writer
	Theme    *styles.Theme
	Width    int
	Markdown func(text string) string
	Logger   *zerolog.Logger
}

// NewREPL wires a line view to a chat controller. Callers must Close it.
func NewREPL(opts REPLOptions) *REPL {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	view := newLineView(opts.Out, theme, width)
	view.markdown = opts.Markdown
	queue := dispatch.NewQueue()

	return &REPL{
		in:    opts.In,
		out:   opts.Out,
		view:  view,
		queue: queue,
		log:   logger,
		client: chatclient.New(chatclient.Options{
			Backend: opts.Backend,
			View:    view,
			Post:    func(fn func()) { queue.Post(fn) },
			Logger:  &logger,
		}),
	}
}

// Run reads commands until /quit, Ctrl+C or end of input.
func (r *REPL) Run() error {
	fmt.Fprintln(r.out, r.view.theme.Muted.Render("Type a message, or /help for commands."))

	for {
		input, err := r.in.ReadInput("helpdesk> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if quit := r.handle(input); quit {
			return nil
		}
	}
}

// handle runs one line of input and reports whether to quit.
func (r *REPL) handle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "/") {
		fields := strings.Fields(trimmed)
		r.log.Debug().Str("command", fields[0]).Msg("REPL_COMMAND")
		switch strings.ToLower(fields[0]) {
		case "/quit", "/exit":
			return true
		case "/help":
			fmt.Fprintln(r.out, replHelp)
			return false
		case "/reset":
			r.onLoop(r.client.ResetConversation)
			return false
		case "/up", "/down":
			r.rate(fields)
			return false
		}
	}

	r.onLoop(func() { r.client.SubmitMessage(input) })
	return false
}

func (r *REPL) rate(fields []string) {
	rating, err := transcript.ParseRating(strings.ToLower(strings.TrimPrefix(fields[0], "/")))
	if err != nil {
		fmt.Fprintln(r.out, r.view.theme.RenderError(err.Error()))
		return
	}

	n := 0
	if len(fields) > 1 {
		v, err := strconv.Atoi(strings.TrimPrefix(fields[1], "#"))
		if err != nil {
			fmt.Fprintln(r.out, r.view.theme.RenderError(fmt.Sprintf("not a reply number: %s", fields[1])))
			return
		}
		n = v
	}

	r.onLoop(func() {
		msg, err := r.view.reply(n)
		if err != nil {
			fmt.Fprintln(r.out, r.view.theme.RenderError(err.Error()))
			return
		}
		pair := msg.Feedback
		if !pair.Enabled() {
			fmt.Fprintln(r.out, r.view.theme.Muted.Render(fmt.Sprintf("feedback for #%d already recorded", r.view.replyNumber(pair))))
			return
		}
		r.client.Rate(pair, rating)
	})
}

// onLoop runs fn on the queue, then waits for the requests it started.
// Line mode does not print while liner is prompting, so the next prompt
// appears only after every reply for this command has been shown.
func (r *REPL) onLoop(fn func()) {
	r.queue.Post(fn)
	r.queue.Sync()
	r.client.Wait()
	r.queue.Sync()
}

// Transcript returns the transcript shown so far.
func (r *REPL) Transcript() *transcript.Transcript {
	return r.view.tr
}

// Close stops the queue and the line reader.
func (r *REPL) Close() {
	r.client.Wait()
	r.queue.Close()
	r.in.Close()
}
