package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NoResult is returned as the search text when the provider has nothing for the query.
const NoResult = "No good search result was found"

const maxResponseSizeBytes = 2 << 20

type Config struct {
	URL        string        `split_words:"true" default:"https://api.duckduckgo.com/"`
	Timeout    time.Duration `split_words:"true" default:"10s"`
	MaxResults int           `split_words:"true" default:"5"`
	UserAgent  string        `split_words:"true" default:"chatfood/1.0"`
}

// Client queries the DuckDuckGo Instant Answer API and flattens the answer
// into a short text block.
type Client struct {
	baseURL    string
	maxResults int
	userAgent  string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("web search url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid web search url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &Client{
		baseURL:    baseURL,
		maxResults: maxResults,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type instantAnswer struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	Answer        string         `json:"Answer"`
	Definition    string         `json:"Definition"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

type relatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Topics   []relatedTopic `json:"Topics"`
}

// Search runs one query. Transport and decoding failures are returned as errors;
// an empty answer yields NoResult.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("web search query is empty")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse web search url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build web search request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute web search request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("read web search response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("web search http status=%d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.Unmarshal(raw, &answer); err != nil {
		return "", fmt.Errorf("decode web search response: %w", err)
	}

	text := c.flatten(answer)
	if text == "" {
		return NoResult, nil
	}
	return text, nil
}

func (c *Client) flatten(a instantAnswer) string {
	parts := make([]string, 0, c.maxResults+3)
	for _, s := range []string{a.Answer, a.AbstractText, a.Definition} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	topics := 0
	var walk func([]relatedTopic)
	walk = func(list []relatedTopic) {
		for _, t := range list {
			if topics >= c.maxResults {
				return
			}
			if len(t.Topics) > 0 {
				walk(t.Topics)
				continue
			}
			if text := strings.TrimSpace(t.Text); text != "" {
				parts = append(parts, text)
				topics++
			}
		}
	}
	walk(a.RelatedTopics)

	return strings.Join(parts, "\n")
}
