package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	openrouterx "github.com/tanpawarit/chatfood/pkg/openrouter"
)

// Role selects which model override applies. Agents use their AgentName.
type Role string

const (
	RoleRouter      Role = "router"
	RoleRecommender Role = "recommender"
)

func AgentRole(name contractx.AgentName) Role {
	return Role(name)
}

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-4o-mini"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	RouterModel       string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	RecommenderModel  string  `envconfig:"RECOMMENDER_MODEL" split_words:"true"`
	AgentModel        string  `envconfig:"AGENT_MODEL" split_words:"true"`
	RouterTemperature float32 `envconfig:"ROUTER_TEMPERATURE" split_words:"true" default:"0"`

	RecommenderTemperature float32 `envconfig:"RECOMMENDER_TEMPERATURE" split_words:"true" default:"0.7"`
	// -1 keeps the shared temperature.
	AgentTemperature float32 `envconfig:"AGENT_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// Base returns the shared connection settings with no role override. The
// embedding client is built from it.
func (c Config) Base() openrouterx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

// OpenRouterFor resolves the model settings for role, falling back to the
// shared model and temperature.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	out := c.Base()

	override := func(m string, t float32) {
		if v := strings.TrimSpace(m); v != "" {
			out.Model = v
		}
		if t >= 0 {
			out.Temperature = t
		}
	}

	switch role {
	case RoleRouter:
		override(c.RouterModel, c.RouterTemperature)
	case RoleRecommender:
		override(c.RecommenderModel, c.RecommenderTemperature)
	default:
		override(c.AgentModel, c.AgentTemperature)
	}
	return out
}
