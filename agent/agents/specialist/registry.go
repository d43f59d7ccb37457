package specialist

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	llmx "github.com/tanpawarit/chatfood/agent/llm"
	promptx "github.com/tanpawarit/chatfood/agent/prompt"
	toolx "github.com/tanpawarit/chatfood/agent/tool"
)

// ModelProvider builds the chat model for a role.
type ModelProvider func(ctx context.Context, role llmx.Role) (einomodel.ToolCallingChatModel, error)

type Options struct {
	MaxIterations        int
	RecommendationUserID string
}

type registryImpl struct {
	router      contractx.Router
	recommender contractx.Recommender
	agents      map[contractx.AgentName]contractx.Agent
}

func (r *registryImpl) Router() contractx.Router {
	return r.router
}

func (r *registryImpl) Recommender() contractx.Recommender {
	return r.recommender
}

func (r *registryImpl) Agent(name contractx.AgentName) (contractx.Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// NewRegistry builds the router, the recommender and the five agents on
// OpenRouter models resolved from cfg.
func NewRegistry(ctx context.Context, cfg llmx.Config, deps toolx.Deps, opts Options) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	provider := func(ctx context.Context, role llmx.Role) (einomodel.ToolCallingChatModel, error) {
		modelCfg := cfg.OpenRouterFor(role)
		return modelCfg.New(ctx)
	}
	return NewRegistryWithProvider(ctx, provider, deps, opts)
}

func NewRegistryWithProvider(ctx context.Context, provider ModelProvider, deps toolx.Deps, opts Options) (contractx.Registry, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: model provider is required", contractx.ErrValidation)
	}
	if deps.Catalog == nil || deps.Knowledge == nil {
		return nil, fmt.Errorf("%w: catalog and knowledge are required", contractx.ErrValidation)
	}

	prompts := promptx.LoadPromptSet()

	routerModel, err := provider(ctx, llmx.RoleRouter)
	if err != nil {
		return nil, fmt.Errorf("%w: create router model: %v", contractx.ErrModelInvoke, err)
	}
	router, err := newRouter(ctx, routerModel, prompts.Router, prompts.RouterInput)
	if err != nil {
		return nil, err
	}

	recommenderModel, err := provider(ctx, llmx.RoleRecommender)
	if err != nil {
		return nil, fmt.Errorf("%w: create recommender model: %v", contractx.ErrModelInvoke, err)
	}
	recommender, err := newRecommender(ctx, recommenderModel, prompts.Recommender, deps.Catalog, opts.RecommendationUserID)
	if err != nil {
		return nil, err
	}

	agents := make(map[contractx.AgentName]contractx.Agent, len(contractx.AgentNames))
	for _, name := range contractx.AgentNames {
		systemPrompt, err := prompts.Agent(name)
		if err != nil {
			return nil, err
		}
		chatModel, err := provider(ctx, llmx.AgentRole(name))
		if err != nil {
			return nil, fmt.Errorf("%w: create model for agent=%s: %v", contractx.ErrModelInvoke, name, err)
		}
		agent, err := newSpecialist(ctx, name, chatModel, systemPrompt, deps, opts.MaxIterations)
		if err != nil {
			return nil, err
		}
		agents[name] = agent
	}

	return &registryImpl{
		router:      router,
		recommender: recommender,
		agents:      agents,
	}, nil
}
