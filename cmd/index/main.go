package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/tanpawarit/chatfood/agent/knowledge"
	llmx "github.com/tanpawarit/chatfood/agent/llm"
	configx "github.com/tanpawarit/chatfood/pkg/config"
	databasex "github.com/tanpawarit/chatfood/pkg/database"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
	_ "github.com/tanpawarit/chatfood/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/chatfood/pkg/openrouter"
)

type IndexConfig struct {
	File           string `envconfig:"KNOWLEDGE_FILE" default:"food_knowledge.txt"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"openai/text-embedding-3-small"`
	ChunkSize      int    `envconfig:"KNOWLEDGE_CHUNK_SIZE" default:"500"`
	ChunkOverlap   int    `envconfig:"KNOWLEDGE_CHUNK_OVERLAP" default:"50"`
}

// index rebuilds the food_rag table from a plain-text knowledge file.
func main() {
	ctx := context.Background()

	cfg := configx.MustNew[IndexConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	dbCfg := configx.MustNew[databasex.Config]("DATABASE")

	raw, err := os.ReadFile(cfg.File)
	if err != nil {
		logx.Fatal().Err(err).Str("file", cfg.File).Msg("read knowledge file failed")
	}

	db := dbCfg.MustNew()
	defer db.Close()
	if err := knowledge.Migrate(ctx, db); err != nil {
		logx.Fatal().Err(err).Msg("knowledge migrate failed")
	}

	embedder, err := openrouterx.NewEmbedder(openrouterx.NewClient(llmCfg.Base()), cfg.EmbeddingModel)
	if err != nil {
		logx.Fatal().Err(err).Msg("embedder init failed")
	}

	splitter := knowledge.NewSplitter()
	splitter.ChunkSize = cfg.ChunkSize
	splitter.Overlap = cfg.ChunkOverlap

	indexer, err := knowledge.NewIndexer(db, embedder, splitter)
	if err != nil {
		logx.Fatal().Err(err).Msg("indexer init failed")
	}

	n, err := indexer.Build(ctx, filepath.Base(cfg.File), string(raw))
	if err != nil {
		logx.Fatal().Err(err).Msg("build index failed")
	}
	logx.Info().Int("chunks", n).Str("file", cfg.File).Msg("knowledge index built")
}
