package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tanpawarit/chatfood/agent/agents/orchestrator"
	"github.com/tanpawarit/chatfood/agent/agents/specialist"
	"github.com/tanpawarit/chatfood/agent/catalog"
	"github.com/tanpawarit/chatfood/agent/knowledge"
	llmx "github.com/tanpawarit/chatfood/agent/llm"
	statex "github.com/tanpawarit/chatfood/agent/state"
	toolx "github.com/tanpawarit/chatfood/agent/tool"
	configx "github.com/tanpawarit/chatfood/pkg/config"
	databasex "github.com/tanpawarit/chatfood/pkg/database"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
	_ "github.com/tanpawarit/chatfood/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/chatfood/pkg/openrouter"
	redisx "github.com/tanpawarit/chatfood/pkg/redis"
	websearchx "github.com/tanpawarit/chatfood/pkg/websearch"
	"github.com/tanpawarit/chatfood/ui"
)

const (
	sessionBackendMemory = "memory"
	sessionBackendRedis  = "redis"
)

type AppConfig struct {
	SessionBackend       string        `split_words:"true" default:"memory"`
	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	RecommendationRate   float64       `split_words:"true" default:"1.0"`
	RecommendationUserID string        `envconfig:"RECOMMENDATION_USER_ID" default:"user123"`
	AgentMaxIterations   int           `split_words:"true" default:"10"`
	KnowledgeTopK        int           `split_words:"true" default:"4"`
	EmbeddingModel       string        `split_words:"true" default:"openai/text-embedding-3-small"`
	LogFile              string        `split_words:"true" default:"chatfood.log"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	// The TUI owns stdout, so logs go to a file unless LOG_FILE says otherwise.
	logCfg := configx.MustNew[logx.Config]("LOG")
	if logCfg.File == "" {
		logCfg.File = appCfg.LogFile
	}
	logx.Init(*logCfg)

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")

	dbCfg := configx.MustNew[databasex.Config]("DATABASE")
	db := dbCfg.MustNew()
	defer db.Close()

	if err := catalog.Migrate(ctx, db); err != nil {
		logx.Fatal().Err(err).Msg("catalog migrate failed")
	}
	if seeded, err := catalog.SeedFoods(ctx, db); err != nil {
		logx.Fatal().Err(err).Msg("catalog seed failed")
	} else if seeded {
		logx.Info().Msg("catalog: sample menu inserted")
	}
	if err := knowledge.Migrate(ctx, db); err != nil {
		logx.Fatal().Err(err).Msg("knowledge migrate failed")
	}

	menu, err := catalog.New(db, catalog.WithOffers(catalog.DefaultOffers()))
	if err != nil {
		logx.Fatal().Err(err).Msg("catalog init failed")
	}

	embedder, err := openrouterx.NewEmbedder(openrouterx.NewClient(llmCfg.Base()), appCfg.EmbeddingModel)
	if err != nil {
		logx.Fatal().Err(err).Msg("embedder init failed")
	}

	webCfg := configx.MustNew[websearchx.Config]("WEB_SEARCH")
	web := websearchx.MustNew(*webCfg)

	retriever, err := knowledge.NewRetriever(db, embedder, web, knowledge.RetrieverConfig{TopK: appCfg.KnowledgeTopK})
	if err != nil {
		logx.Fatal().Err(err).Msg("retriever init failed")
	}

	registry, err := specialist.NewRegistry(ctx, *llmCfg, toolx.Deps{Catalog: menu, Knowledge: retriever}, specialist.Options{
		MaxIterations:        appCfg.AgentMaxIterations,
		RecommendationUserID: appCfg.RecommendationUserID,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("agent registry init failed")
	}

	store, closeStore, err := newSessionStore(ctx, appCfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("session store init failed")
	}
	defer closeStore()

	orch, err := orchestrator.New(store, registry, orchestrator.Config{
		RecommendationRate: appCfg.RecommendationRate,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("orchestrator init failed")
	}

	logx.Info().
		Str("session_backend", appCfg.SessionBackend).
		Str("database", dbCfg.Driver).
		Float64("recommendation_rate", appCfg.RecommendationRate).
		Msg("chatfood ready")

	p := tea.NewProgram(ui.NewChat(ctx, orch), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running chatfood: %v\n", err)
		os.Exit(1)
	}
}

func newSessionStore(ctx context.Context, cfg *AppConfig) (statex.Store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionBackend)) {
	case sessionBackendMemory, "":
		return statex.NewMemoryStore(), func() {}, nil
	case sessionBackendRedis:
		redisCfg := configx.MustNew[redisx.Config]("REDIS")
		client, err := redisCfg.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		store, err := statex.NewRedisStore(client, statex.WithTTL(cfg.SessionTTL))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, closeRedis(client), nil
	default:
		return nil, nil, fmt.Errorf("unsupported session backend %q", cfg.SessionBackend)
	}
}

func closeRedis(client *goredis.Client) func() {
	return func() {
		if err := client.Close(); err != nil {
			logx.Warn().Err(err).Msg("redis close failed")
		}
	}
}
