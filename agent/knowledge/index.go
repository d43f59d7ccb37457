package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/uptrace/bun"
)

// Chunk is one row of the food_rag vector index.
type Chunk struct {
	bun.BaseModel `bun:"table:food_rag,alias:r"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Source     string    `bun:"source,notnull"`
	ChunkIndex int       `bun:"chunk_index,notnull"`
	Content    string    `bun:"content,notnull"`
	Embedding  []float64 `bun:"embedding,notnull"`
}

func Migrate(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().Model((*Chunk)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("knowledge: create table food_rag: %w", err)
	}
	return nil
}

type scored struct {
	chunk Chunk
	score float64
}

// rank orders chunks by cosine similarity to query, highest first, and keeps
// at most k. Chunks whose dimension differs from the query are skipped.
func rank(query []float64, chunks []Chunk, k int) []scored {
	out := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) != len(query) {
			continue
		}
		out = append(out, scored{chunk: c, score: cosine(query, c.Embedding)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
