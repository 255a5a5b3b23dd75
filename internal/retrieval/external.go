package retrieval

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"dealflow/internal/models"
	"dealflow/internal/util"
	"dealflow/internal/websearch"
)

const (
	maxExternalQueries     = 5
	defaultResultsPerQuery = 4
	maxExcerptChars        = 1500
	highlightsPerResult    = 5
	maxExternalSources     = 10
)

// ExternalRetriever issues bounded, targeted web queries and keeps only
// results the relevance filter corroborates.
type ExternalRetriever struct {
	client       websearch.Client
	queryTimeout time.Duration
	queryCap     int
	perQuery     int
	resultCap    int
}

// NewExternalRetriever builds a retriever with the given limits. Zero or
// negative limits fall back to the defaults (5 queries, 4 results each, 10
// sources total).
func NewExternalRetriever(client websearch.Client, queryTimeout time.Duration, queryCap, resultsPerQuery, resultCap int) *ExternalRetriever {
	if queryTimeout <= 0 {
		queryTimeout = 15 * time.Second
	}
	if queryCap <= 0 {
		queryCap = maxExternalQueries
	}
	if resultsPerQuery <= 0 {
		resultsPerQuery = defaultResultsPerQuery
	}
	if resultCap <= 0 {
		resultCap = maxExternalSources
	}
	return &ExternalRetriever{
		client:       client,
		queryTimeout: queryTimeout,
		queryCap:     queryCap,
		perQuery:     resultsPerQuery,
		resultCap:    resultCap,
	}
}

// EntityQuery carries everything known about the company being researched.
type EntityQuery struct {
	CompanyName        string
	CompanyWebsite     string
	CompanyDescription string
	FounderName        string
	Message            string
}

// BuildQueries constructs search strings in priority order, capped at five.
func BuildQueries(e EntityQuery) []string {
	queries := make([]string, 0, maxExternalQueries)
	add := func(q string) {
		if len(queries) < maxExternalQueries && strings.TrimSpace(q) != "" {
			queries = append(queries, q)
		}
	}
	name := strings.TrimSpace(e.CompanyName)

	if domain := ParseDomain(e.CompanyWebsite); domain != "" {
		add("site:" + domain)
		if name != "" {
			add(fmt.Sprintf("%q site:%s", name, domain))
		}
	}
	if name != "" {
		if keywords := ExtractKeywords(e.CompanyDescription); len(keywords) > 0 {
			top := keywords
			if len(top) > 3 {
				top = top[:3]
			}
			joined := strings.Join(top, " ")
			add(fmt.Sprintf("%q %s", name, joined))
			add(fmt.Sprintf("%q %s company startup", name, joined))
		}
		if founder := strings.TrimSpace(e.FounderName); founder != "" {
			add(fmt.Sprintf("%q %q founder", name, founder))
		}
		add(fmt.Sprintf("%q funding round investment 2024", name))
		add(fmt.Sprintf("%q company startup news", name))
	}
	return queries
}

// ParseDomain extracts the registrable host from a website value, with or
// without a scheme. Returns "" when nothing usable can be parsed.
func ParseDomain(website string) string {
	w := strings.TrimSpace(website)
	if w == "" {
		return ""
	}
	if !strings.Contains(w, "://") {
		w = "https://" + w
	}
	u, err := url.Parse(w)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}

// Retrieve fans the queries out with a concurrency cap and a per-query
// timeout, then filters and dedupes results in query order so the output is
// deterministic regardless of completion order.
func (er *ExternalRetriever) Retrieve(ctx context.Context, e EntityQuery, entity Entity) []models.Source {
	queries := BuildQueries(e)
	if len(queries) > er.queryCap {
		queries = queries[:er.queryCap]
	}
	if len(queries) == 0 {
		return nil
	}

	perQuery := make([][]websearch.Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(er.queryCap)
	for i, q := range queries {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, er.queryTimeout)
			defer cancel()
			resp, err := er.client.Search(qctx, websearch.Request{
				Query:         q,
				NumResults:    er.perQuery,
				MaxChars:      maxExcerptChars,
				NumHighlights: highlightsPerResult,
			})
			if err != nil {
				// One failed query must not sink the rest.
				log.Printf("external retrieval: query failed q=%q err=%v", q, err)
				return nil
			}
			perQuery[i] = resp.Results
			return nil
		})
	}
	_ = g.Wait()

	deduper := NewDeduper()
	sources := make([]models.Source, 0, er.resultCap)
	for qi, results := range perQuery {
		for _, r := range results {
			if len(sources) >= er.resultCap {
				return sources
			}
			candidate := WebCandidate{URL: r.URL, Title: r.Title, Text: candidateText(r)}
			verdict := CheckRelevance(candidate, entity)
			if !verdict.Accepted {
				log.Printf("external retrieval: rejected url=%s rule=%s", r.URL, verdict.Rule)
				continue
			}
			if !deduper.Admit(r.URL, r.Title) {
				continue
			}
			id := r.ID
			if id == "" {
				id = util.SHA256Hex([]byte(r.URL))[:12]
			}
			sources = append(sources, models.Source{
				ID:         fmt.Sprintf("web-%d-%s", qi, id),
				Origin:     models.OriginWeb,
				SourceKind: "web_page",
				Title:      r.Title,
				Content:    candidateText(r),
				URL:        r.URL,
				Date:       r.PublishedDate,
				Score:      r.Score,
			})
		}
	}
	return sources
}

// candidateText combines the excerpt and highlight sentences into the body
// the relevance filter and formatter see.
func candidateText(r websearch.Result) string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(r.Text) != "" {
		parts = append(parts, strings.TrimSpace(r.Text))
	}
	if len(r.Highlights) > 0 {
		parts = append(parts, strings.Join(r.Highlights, " "))
	}
	return strings.Join(parts, " ")
}
