package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ExaClient calls the Exa neural search REST API.
type ExaClient struct {
	keyName string
	apiKey  string
	client  *http.Client
}

func NewExaClient(keyName string) *ExaClient {
	return &ExaClient{
		keyName: keyName,
		apiKey:  resolveExaKey(keyName),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *ExaClient) Search(ctx context.Context, req Request) (Response, error) {
	if e.apiKey == "" {
		return Response{}, fmt.Errorf("exa key missing for alias %q", e.keyName)
	}
	numResults := req.NumResults
	if numResults <= 0 {
		numResults = 4
	}
	contents := map[string]any{}
	if req.MaxChars > 0 {
		contents["text"] = map[string]any{"maxCharacters": req.MaxChars}
	}
	if req.NumHighlights > 0 {
		contents["highlights"] = map[string]any{"numSentences": 1, "highlightsPerUrl": req.NumHighlights}
	}
	payload, _ := json.Marshal(map[string]any{
		"query":      req.Query,
		"numResults": numResults,
		"type":       "auto",
		"contents":   contents,
	})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.exa.ai/search", bytes.NewReader(payload))
	httpReq.Header.Set("x-api-key", e.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("exa search request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return Response{}, fmt.Errorf("exa search error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Results []struct {
			ID            string   `json:"id"`
			URL           string   `json:"url"`
			Title         string   `json:"title"`
			Text          string   `json:"text"`
			Highlights    []string `json:"highlights"`
			PublishedDate string   `json:"publishedDate"`
			Author        string   `json:"author"`
			Score         float64  `json:"score"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Response{}, fmt.Errorf("decode exa response: %w", err)
	}
	out := Response{Results: make([]Result, 0, len(parsed.Results))}
	for _, r := range parsed.Results {
		out.Results = append(out.Results, Result{
			ID:            r.ID,
			URL:           r.URL,
			Title:         r.Title,
			Text:          r.Text,
			Highlights:    r.Highlights,
			PublishedDate: r.PublishedDate,
			Author:        r.Author,
			Score:         r.Score,
		})
	}
	return out, nil
}

func resolveExaKey(alias string) string {
	if alias != "" {
		if k := os.Getenv("DEALFLOW_EXA_KEY_" + strings.ToUpper(alias)); k != "" {
			return k
		}
	}
	return os.Getenv("EXA_API_KEY")
}
