package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
)

const DefaultTopK = 4

var _ contractx.Knowledge = (*Retriever)(nil)

// WebSearcher is satisfied by pkg/websearch.Client.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type Retriever struct {
	db       *bun.DB
	embedder embedding.Embedder
	web      WebSearcher
	topK     int
}

type RetrieverConfig struct {
	TopK int `split_words:"true" default:"4"`
}

func NewRetriever(db *bun.DB, embedder embedding.Embedder, web WebSearcher, cfg RetrieverConfig) (*Retriever, error) {
	if db == nil {
		return nil, errors.New("knowledge: db is required")
	}
	if embedder == nil {
		return nil, errors.New("knowledge: embedder is required")
	}
	if web == nil {
		return nil, errors.New("knowledge: web searcher is required")
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{db: db, embedder: embedder, web: web, topK: topK}, nil
}

// RetrieveLocal embeds query and returns the nearest passages from food_rag.
func (r *Retriever) RetrieveLocal(ctx context.Context, query string) ([]contractx.Passage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: retrieval query is empty", contractx.ErrValidation)
	}

	vecs, err := r.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("knowledge: embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("knowledge: expected 1 query embedding, got %d", len(vecs))
	}

	var chunks []Chunk
	if err := r.db.NewSelect().Model(&chunks).Scan(ctx); err != nil {
		return nil, fmt.Errorf("knowledge: load index: %w", err)
	}

	ranked := rank(vecs[0], chunks, r.topK)
	passages := make([]contractx.Passage, 0, len(ranked))
	for _, s := range ranked {
		passages = append(passages, contractx.Passage{Content: s.chunk.Content, Score: s.score})
	}

	logx.Debug().Str("query", query).Int("indexed", len(chunks)).Int("returned", len(passages)).Msg("knowledge: local retrieval")
	return passages, nil
}

func (r *Retriever) SearchWeb(ctx context.Context, query string) (string, error) {
	return r.web.Search(ctx, query)
}
