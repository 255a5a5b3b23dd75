package websearch

import (
	"context"
	"fmt"
	"strings"
)

// Request describes one search call. MaxChars bounds the text excerpt per
// result; NumHighlights bounds highlight sentences.
type Request struct {
	Query         string `json:"query"`
	NumResults    int    `json:"num_results"`
	MaxChars      int    `json:"max_chars"`
	NumHighlights int    `json:"num_highlights"`
}

type Result struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Text          string   `json:"text,omitempty"`
	Highlights    []string `json:"highlights,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Author        string   `json:"author,omitempty"`
	Score         float64  `json:"score,omitempty"`
}

type Response struct {
	Results []Result `json:"results"`
}

type Client interface {
	Search(ctx context.Context, req Request) (Response, error)
}

// New builds a client by provider name ("exa" or "mock"). An optional
// ":alias" suffix picks a key alias, mirroring the embed provider spec.
func New(spec string) (Client, error) {
	name, alias, _ := strings.Cut(strings.TrimSpace(spec), ":")
	switch strings.ToLower(name) {
	case "", "mock":
		return NewMockClient(nil), nil
	case "exa":
		return NewExaClient(alias), nil
	default:
		return nil, fmt.Errorf("unsupported web search provider: %s", name)
	}
}
