package ui

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

type role int

const (
	roleUser role = iota
	roleAssistant
	roleError
)

// entry is one block of the transcript. Actions index into Chat.actions so
// the user can press them by number.
type entry struct {
	role    role
	text    string
	actions []int
}

// renderMarkdown turns the bold and list markup our replies use into
// terminal styling.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	ext := markdown.Extensions() &^ parser.Autolink
	doc := parser.NewWithExtensions(ext).Parse([]byte(content))
	out := gomarkdown.Render(doc, markdown.NewRenderer(width, 0))
	return strings.TrimRight(string(out), "\n")
}

func (c *Chat) renderTranscript() string {
	if len(c.entries) == 0 {
		return DimStyle.Render("در حال شروع گفتگو...")
	}

	var b strings.Builder
	for i, e := range c.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch e.role {
		case roleUser:
			b.WriteString(UserStyle.Render("شما: "))
			b.WriteString(e.text)
		case roleError:
			b.WriteString(ErrorStyle.Render(e.text))
		default:
			b.WriteString(AssistantStyle.Render("ChatFood:"))
			b.WriteString("\n")
			b.WriteString(renderMarkdown(e.text, c.width-4))
		}
		for _, idx := range e.actions {
			b.WriteString("\n")
			b.WriteString(ActionStyle.Render(fmt.Sprintf("  [%d] %s", idx+1, c.actions[idx].Label)))
		}
	}
	return b.String()
}

// appendOutbound adds assistant messages and registers their buttons.
func (c *Chat) appendOutbound(msgs []contractx.OutboundMessage) {
	for _, m := range msgs {
		e := entry{role: roleAssistant, text: m.Text}
		for _, a := range m.Actions {
			c.actions = append(c.actions, a)
			e.actions = append(e.actions, len(c.actions)-1)
		}
		c.entries = append(c.entries, e)
	}
}
