package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedderOrdersByIndex(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %q, want /embeddings", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"object": "list",
			"model": "test-embed",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0, 1]},
				{"object": "embedding", "index": 0, "embedding": [1, 0]}
			],
			"usage": {"prompt_tokens": 2, "total_tokens": 2}
		}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	emb, err := NewEmbedder(client, "test-embed")
	if err != nil {
		t.Fatalf("NewEmbedder() error = %v", err)
	}

	vecs, err := emb.EmbedStrings(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedStrings() error = %v", err)
	}
	if len(vecs) != 2 || vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Fatalf("unexpected vectors: %#v", vecs)
	}
	if gotBody["model"] != "test-embed" {
		t.Fatalf("model = %v", gotBody["model"])
	}
}

func TestNewEmbedderValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewEmbedder(nil, "m"); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewEmbedder(NewClient(Config{APIKey: "k"}), " "); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestNewClientWithoutKey(t *testing.T) {
	t.Parallel()

	if NewClient(Config{}) != nil {
		t.Fatal("expected nil client without api key")
	}
}
