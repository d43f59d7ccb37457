package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	openaisdk "github.com/openai/openai-go"
)

var _ embedding.Embedder = (*Embedder)(nil)

// Embedder produces vectors through an OpenAI-compatible /embeddings endpoint.
type Embedder struct {
	client *openaisdk.Client
	model  string
}

func NewEmbedder(client *openaisdk.Client, model string) (*Embedder, error) {
	if client == nil {
		return nil, errors.New("openrouter: embedding client is nil")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("openrouter: embedding model is required")
	}
	return &Embedder{client: client, model: model}, nil
}

// EmbedStrings returns one vector per input text, in input order.
func (e *Embedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openaisdk.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openrouter: create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openrouter: expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("openrouter: embedding index %d out of range", d.Index)
		}
		out[idx] = d.Embedding
	}
	return out, nil
}
