package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/uptrace/bun"

	logx "github.com/tanpawarit/chatfood/pkg/logger"
)

const defaultBatchSize = 32

// Indexer rebuilds the food_rag table from a plain-text knowledge document.
type Indexer struct {
	db        *bun.DB
	embedder  embedding.Embedder
	splitter  Splitter
	batchSize int
}

func NewIndexer(db *bun.DB, embedder embedding.Embedder, splitter Splitter) (*Indexer, error) {
	if db == nil {
		return nil, errors.New("knowledge: db is required")
	}
	if embedder == nil {
		return nil, errors.New("knowledge: embedder is required")
	}
	return &Indexer{db: db, embedder: embedder, splitter: splitter, batchSize: defaultBatchSize}, nil
}

// Build splits text, embeds every chunk and replaces the rows previously
// indexed for source. It returns the number of chunks written.
func (ix *Indexer) Build(ctx context.Context, source, text string) (int, error) {
	parts := ix.splitter.Split(text)
	if len(parts) == 0 {
		return 0, fmt.Errorf("knowledge: %s has no indexable text", source)
	}

	chunks := make([]Chunk, 0, len(parts))
	for start := 0; start < len(parts); start += ix.batchSize {
		end := min(start+ix.batchSize, len(parts))
		vecs, err := ix.embedder.EmbedStrings(ctx, parts[start:end])
		if err != nil {
			return 0, fmt.Errorf("knowledge: embed chunks %d-%d: %w", start, end, err)
		}
		if len(vecs) != end-start {
			return 0, fmt.Errorf("knowledge: expected %d embeddings, got %d", end-start, len(vecs))
		}
		for i, v := range vecs {
			chunks = append(chunks, Chunk{
				Source:     source,
				ChunkIndex: start + i,
				Content:    parts[start+i],
				Embedding:  v,
			})
		}
		logx.Debug().Str("source", source).Int("embedded", end).Int("total", len(parts)).Msg("knowledge: embedding batch")
	}

	err := ix.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := Migrate(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*Chunk)(nil)).Where("source = ?", source).Exec(ctx); err != nil {
			return fmt.Errorf("knowledge: clear %s: %w", source, err)
		}
		if _, err := tx.NewInsert().Model(&chunks).Exec(ctx); err != nil {
			return fmt.Errorf("knowledge: insert chunks: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logx.Info().Str("source", source).Int("chunks", len(chunks)).Msg("knowledge: index rebuilt")
	return len(chunks), nil
}
