package prompt

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

func TestLoadPromptSetCoversEveryAgent(t *testing.T) {
	t.Parallel()

	p := LoadPromptSet()
	for _, name := range contractx.AgentNames {
		if _, err := p.Agent(name); err != nil {
			t.Fatalf("Agent(%s) error = %v", name, err)
		}
	}
	if _, err := p.Agent("Unknown"); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("Agent(Unknown) error = %v, want ErrPromptMissing", err)
	}
}

func TestRouterPromptListsDestinations(t *testing.T) {
	t.Parallel()

	p := LoadPromptSet()
	for _, name := range contractx.AgentNames {
		if !strings.Contains(p.Router, string(name)) {
			t.Fatalf("router prompt does not mention %s", name)
		}
	}
	for _, v := range []string{"{history}", "{input}"} {
		if !strings.Contains(p.RouterInput, v) {
			t.Fatalf("router input template missing %s", v)
		}
	}
	if !strings.Contains(p.Recommender, "{offers}") {
		t.Fatal("recommender template missing {offers}")
	}
}
