package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// JinaReranker calls the Jina rerank API, a hosted cross-encoder scoring
// query/document pairs.
type JinaReranker struct {
	keyName string
	apiKey  string
	client  *http.Client
}

func NewJinaReranker(keyName string) *JinaReranker {
	return &JinaReranker{
		keyName: keyName,
		apiKey:  resolveKey("JINA", keyName),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (j *JinaReranker) Rerank(ctx context.Context, req RerankRequest) ([]RankedDoc, ProviderInfo, error) {
	model := "jina-reranker-v2-base-multilingual"
	info := ProviderInfo{Name: "jina", Model: model, Key: j.keyName}
	if j.apiKey == "" {
		return nil, info, fmt.Errorf("jina key missing for alias %q", j.keyName)
	}
	payload, _ := json.Marshal(map[string]any{
		"model":     model,
		"query":     req.Query,
		"documents": req.Documents,
		"top_n":     req.TopK,
	})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.jina.ai/v1/rerank", bytes.NewReader(payload))
	httpReq.Header.Set("Authorization", "Bearer "+j.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := j.client.Do(httpReq)
	if err != nil {
		return nil, info, fmt.Errorf("jina rerank request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, info, fmt.Errorf("jina rerank error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Results []struct {
			Index          int     `json:"index"`
			RelevanceScore float64 `json:"relevance_score"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, info, fmt.Errorf("decode rerank response: %w", err)
	}
	out := make([]RankedDoc, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		out = append(out, RankedDoc{Index: r.Index, Score: r.RelevanceScore})
	}
	return out, info, nil
}
