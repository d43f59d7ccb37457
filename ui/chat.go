package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

const (
	inputHeight = 3
	// title, separator, status line and the textarea.
	chromeHeight = inputHeight + 3
)

// Chat is the single-screen chat front-end. One turn runs at a time; input
// is ignored while busy.
type Chat struct {
	ctx     context.Context
	backend Backend

	sessionID string
	entries   []entry
	actions   []contractx.Action

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	steps  chan string
	busy   bool
	status string

	width  int
	height int
	ready  bool
}

func NewChat(ctx context.Context, backend Backend) *Chat {
	ta := textarea.New()
	ta.Placeholder = "پیام خود را بنویسید... (/1 برای دکمه‌ها، /new، /quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.SetWidth(80)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Chat{
		ctx:      ctx,
		backend:  backend,
		viewport: viewport.New(0, 0),
		textarea: ta,
		spinner:  sp,
		steps:    make(chan string, 16),
		busy:     true,
	}
}

func (c *Chat) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		c.spinner.Tick,
		waitForStep(c.steps),
		startSessionCmd(c.ctx, c.backend, c.steps),
	)
}

func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.viewport.Width = msg.Width
		c.viewport.Height = max(msg.Height-chromeHeight, 1)
		c.textarea.SetWidth(msg.Width)
		c.ready = true
		c.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return c, tea.Quit
		case "enter":
			if cmd := c.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}
			return c, tea.Batch(cmds...)
		case "pgup", "pgdown":
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case stepMsg:
		if c.busy {
			c.status = string(msg)
		}
		return c, waitForStep(c.steps)

	case sessionStartedMsg:
		c.busy = false
		c.status = ""
		if msg.err != nil {
			c.entries = append(c.entries, entry{role: roleError, text: fmt.Sprintf("شروع گفتگو ناموفق بود: %v", msg.err)})
		} else {
			c.sessionID = msg.sessionID
			c.entries = nil
			c.actions = nil
			c.appendOutbound(msg.msgs)
		}
		c.refresh()
		return c, nil

	case replyMsg:
		c.busy = false
		c.status = ""
		if msg.err != nil {
			c.entries = append(c.entries, entry{role: roleError, text: msg.err.Error()})
		}
		c.appendOutbound(msg.msgs)
		c.refresh()
		return c, nil
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// submit handles the textarea content and returns the command for the
// backend call, if any.
func (c *Chat) submit() tea.Cmd {
	if c.busy {
		return nil
	}
	in := parseInput(c.textarea.Value())
	c.textarea.Reset()

	switch in.kind {
	case cmdQuit:
		if c.sessionID == "" {
			return tea.Quit
		}
		return endSessionCmd(c.ctx, c.backend, c.sessionID)
	case cmdNew:
		if c.sessionID != "" {
			_ = c.backend.EndSession(c.ctx, c.sessionID)
		}
		c.sessionID = ""
		c.busy = true
		return startSessionCmd(c.ctx, c.backend, c.steps)
	case cmdAction:
		if in.action >= len(c.actions) || c.sessionID == "" {
			c.entries = append(c.entries, entry{role: roleError, text: "دکمه‌ای با این شماره وجود ندارد."})
			c.refresh()
			return nil
		}
		c.busy = true
		return pressActionCmd(c.ctx, c.backend, c.sessionID, c.actions[in.action])
	default:
		if in.text == "" || c.sessionID == "" {
			return nil
		}
		c.entries = append(c.entries, entry{role: roleUser, text: in.text})
		c.busy = true
		c.refresh()
		return sendMessageCmd(c.ctx, c.backend, c.sessionID, in.text, c.steps)
	}
}

func (c *Chat) refresh() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(c.renderTranscript())
	c.viewport.GotoBottom()
}

func (c *Chat) View() string {
	if !c.ready {
		return "Loading ChatFood..."
	}

	status := StatusStyle.Render(FormatFooter("Enter", "ارسال", "/N", "دکمه", "Ctrl+C", "خروج"))
	if c.busy {
		label := c.status
		if label == "" {
			label = "لطفاً صبر کنید..."
		}
		status = c.spinner.View() + " " + StatusStyle.Render(label)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("🍕 ChatFood"),
		DimStyle.Render(strings.Repeat("─", c.width)),
		c.viewport.View(),
		status,
		c.textarea.View(),
	)
}
