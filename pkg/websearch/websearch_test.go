package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchFlattensInstantAnswer(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format = %q, want json", r.URL.Query().Get("format"))
		}
		fmt.Fprint(w, `{
			"AbstractText": "Kebab is a grilled meat dish.",
			"RelatedTopics": [
				{"Text": "Chelow kebab", "FirstURL": "https://x/1"},
				{"Name": "See also", "Topics": [{"Text": "Joojeh kabab"}, {"Text": "Koobideh"}]}
			]
		}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL, MaxResults: 2})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	out, err := client.Search(context.Background(), "  kebab  ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotQuery != "kebab" {
		t.Fatalf("query = %q, want kebab", gotQuery)
	}
	want := "Kebab is a grilled meat dish.\nChelow kebab\nJoojeh kabab"
	if out != want {
		t.Fatalf("Search() = %q, want %q", out, want)
	}
}

func TestSearchEmptyAnswer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"AbstractText":"","RelatedTopics":[]}`)
	}))
	t.Cleanup(server.Close)

	client := MustNew(Config{URL: server.URL})
	out, err := client.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out != NoResult {
		t.Fatalf("Search() = %q, want NoResult", out)
	}
}

func TestSearchPropagatesHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := MustNew(Config{URL: server.URL})
	_, err := client.Search(context.Background(), "kebab")
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClientRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "  "}); err == nil {
		t.Fatal("expected error for empty url")
	}
}
