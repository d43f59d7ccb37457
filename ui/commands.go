package ui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tanpawarit/chatfood/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

// Backend is the slice of the orchestrator the chat screen drives.
type Backend interface {
	StartSession(ctx context.Context, opts ...orchestrator.TurnOption) (string, []contractx.OutboundMessage, error)
	HandleMessage(ctx context.Context, sessionID, text string, opts ...orchestrator.TurnOption) ([]contractx.OutboundMessage, error)
	HandleAction(ctx context.Context, sessionID string, ev contractx.ActionEvent) ([]contractx.OutboundMessage, error)
	EndSession(ctx context.Context, sessionID string) error
}

type sessionStartedMsg struct {
	sessionID string
	msgs      []contractx.OutboundMessage
	err       error
}

type replyMsg struct {
	msgs []contractx.OutboundMessage
	err  error
}

type stepMsg string

// reporter forwards step labels to the UI without ever blocking a turn.
func reporter(steps chan<- string) orchestrator.TurnOption {
	return orchestrator.WithStepReporter(func(label string) {
		select {
		case steps <- label:
		default:
		}
	})
}

func waitForStep(steps <-chan string) tea.Cmd {
	return func() tea.Msg {
		return stepMsg(<-steps)
	}
}

func startSessionCmd(ctx context.Context, b Backend, steps chan<- string) tea.Cmd {
	return func() tea.Msg {
		id, msgs, err := b.StartSession(ctx, reporter(steps))
		return sessionStartedMsg{sessionID: id, msgs: msgs, err: err}
	}
}

func sendMessageCmd(ctx context.Context, b Backend, sessionID, text string, steps chan<- string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := b.HandleMessage(ctx, sessionID, text, reporter(steps))
		return replyMsg{msgs: msgs, err: err}
	}
}

func pressActionCmd(ctx context.Context, b Backend, sessionID string, action contractx.Action) tea.Cmd {
	return func() tea.Msg {
		msgs, err := b.HandleAction(ctx, sessionID, contractx.ActionEvent{Name: action.Name, Payload: action.Payload})
		return replyMsg{msgs: msgs, err: err}
	}
}

func endSessionCmd(ctx context.Context, b Backend, sessionID string) tea.Cmd {
	return func() tea.Msg {
		_ = b.EndSession(ctx, sessionID)
		return tea.Quit()
	}
}

type commandKind int

const (
	cmdText commandKind = iota
	cmdAction
	cmdNew
	cmdQuit
)

type command struct {
	kind   commandKind
	action int
	text   string
}

// parseInput recognises "/N" button presses, "/new" and "/quit". Anything
// else is a chat message.
func parseInput(in string) command {
	in = strings.TrimSpace(in)
	if !strings.HasPrefix(in, "/") {
		return command{kind: cmdText, text: in}
	}
	arg := strings.TrimPrefix(in, "/")
	switch arg {
	case "new":
		return command{kind: cmdNew}
	case "quit", "exit":
		return command{kind: cmdQuit}
	}
	if n, err := strconv.Atoi(arg); err == nil && n > 0 {
		return command{kind: cmdAction, action: n - 1}
	}
	return command{kind: cmdText, text: in}
}
