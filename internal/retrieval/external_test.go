package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"dealflow/internal/websearch"
)

func TestParseDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.acme.io":       "acme.io",
		"http://acme.io/about":      "acme.io",
		"acme.io":                   "acme.io",
		"https://docs.acme.io:8443": "docs.acme.io",
		"":                          "",
		"not a url":                 "",
		"https://localhost":         "",
	}
	for in, want := range cases {
		if got := ParseDomain(in); got != want {
			t.Fatalf("ParseDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildQueriesPriorityOrder(t *testing.T) {
	queries := BuildQueries(EntityQuery{
		CompanyName:        "Acme",
		CompanyWebsite:     "https://acme.io",
		CompanyDescription: "Builds climate data pipelines for utilities",
		FounderName:        "Jordan Reyes",
	})
	if len(queries) != 5 {
		t.Fatalf("expected cap at 5 queries, got %d: %v", len(queries), queries)
	}
	if queries[0] != "site:acme.io" {
		t.Fatalf("domain query must come first, got %q", queries[0])
	}
	if queries[1] != `"Acme" site:acme.io` {
		t.Fatalf("unexpected second query: %q", queries[1])
	}
	if !strings.Contains(queries[2], "builds climate data") {
		t.Fatalf("keyword query missing top-3 keywords: %q", queries[2])
	}
	if queries[4] != `"Acme" "Jordan Reyes" founder` {
		t.Fatalf("founder query expected in slot 5, got %q", queries[4])
	}
}

func TestBuildQueriesFallback(t *testing.T) {
	queries := BuildQueries(EntityQuery{CompanyName: "Acme"})
	if len(queries) != 2 {
		t.Fatalf("expected 2 generic queries, got %v", queries)
	}
	if queries[0] != `"Acme" funding round investment 2024` {
		t.Fatalf("unexpected fallback query: %q", queries[0])
	}
}

func TestBuildQueriesNothingKnown(t *testing.T) {
	if queries := BuildQueries(EntityQuery{}); len(queries) != 0 {
		t.Fatalf("expected no queries, got %v", queries)
	}
}

func TestExternalRetrieveFiltersAndDedupes(t *testing.T) {
	mock := websearch.NewMockClient([]websearch.Result{
		{ID: "1", URL: "https://acme.io/about", Title: "About Acme", Text: "irrelevant body"},
		{ID: "2", URL: "https://acme.io/about", Title: "About Acme Again", Text: "irrelevant body"},
		{ID: "3", URL: "https://pharma.example/old", Title: "Acme Therapeutics", Text: "Acme Therapeutics acquired in 1998 by a pharmaceutical group"},
	})
	er := NewExternalRetriever(mock, time.Second, 0, 0, 0)
	entity := Entity{CompanyName: "Acme", Domain: "acme.io", Description: "climate data", Keywords: []string{"climate", "data"}}
	sources := er.Retrieve(context.Background(), EntityQuery{CompanyName: "Acme", CompanyWebsite: "https://acme.io"}, entity)

	for _, s := range sources {
		if s.URL == "https://pharma.example/old" {
			t.Fatal("name-collision result must be rejected")
		}
	}
	seen := map[string]bool{}
	for _, s := range sources {
		if seen[s.URL] {
			t.Fatalf("duplicate URL in output: %s", s.URL)
		}
		seen[s.URL] = true
	}
	if len(sources) == 0 {
		t.Fatal("domain-matching results must be accepted")
	}
}

func TestExternalRetrieveCapsTotal(t *testing.T) {
	results := make([]websearch.Result, 0, 4)
	for i := 0; i < 4; i++ {
		results = append(results, websearch.Result{
			ID:    fmt.Sprintf("r%d", i),
			URL:   fmt.Sprintf("https://acme.io/p%d", i),
			Title: fmt.Sprintf("Acme Update Number %d Milestone Report", i),
			Text:  "Acme climate data update",
		})
	}
	mock := websearch.NewMockClient(nil)
	// Different results per query so URL dedup does not shrink the pool.
	for qi, fragment := range []string{"site:acme.io", `"Acme" site`, "builds", "startup", "founder"} {
		qr := make([]websearch.Result, 0, 4)
		for i := 0; i < 4; i++ {
			qr = append(qr, websearch.Result{
				ID:    fmt.Sprintf("q%d-%d", qi, i),
				URL:   fmt.Sprintf("https://acme.io/q%d/p%d", qi, i),
				Title: fmt.Sprintf("Acme Milestone Quarter%d Report Number%d", qi, i),
				Text:  "Acme climate data update",
			})
		}
		mock.On(fragment, qr)
	}
	er := NewExternalRetriever(mock, time.Second, 0, 0, 0)
	entity := Entity{CompanyName: "Acme", Domain: "acme.io", Keywords: []string{"climate", "data"}}
	sources := er.Retrieve(context.Background(), EntityQuery{
		CompanyName:        "Acme",
		CompanyWebsite:     "https://acme.io",
		CompanyDescription: "Acme builds climate data pipelines",
		FounderName:        "Jordan Reyes",
	}, entity)
	if len(sources) > 10 {
		t.Fatalf("external sources must be capped at 10, got %d", len(sources))
	}
	if len(sources) != 10 {
		t.Fatalf("expected the cap to be reached, got %d", len(sources))
	}
}

func TestExternalRetrieveSurvivesQueryFailure(t *testing.T) {
	mock := websearch.NewMockClient(nil).Fail(errors.New("upstream 500"))
	er := NewExternalRetriever(mock, time.Second, 0, 0, 0)
	sources := er.Retrieve(context.Background(), EntityQuery{CompanyName: "Acme"}, Entity{CompanyName: "Acme"})
	if sources == nil {
		// Empty is fine; panicking or erroring is not. Nil slice is also empty.
		return
	}
	if len(sources) != 0 {
		t.Fatalf("expected no sources from failing backend, got %d", len(sources))
	}
}

func TestExternalRetrieveHonorsConfiguredLimits(t *testing.T) {
	mock := websearch.NewMockClient([]websearch.Result{
		{ID: "1", URL: "https://acme.io/a", Title: "Acme Customer Stories Overview", Text: "Acme climate data"},
		{ID: "2", URL: "https://acme.io/b", Title: "Acme Platform Launch Details", Text: "Acme climate data"},
		{ID: "3", URL: "https://acme.io/c", Title: "Acme Hiring Engineers Announcement", Text: "Acme climate data"},
	})
	er := NewExternalRetriever(mock, time.Second, 1, 2, 2)
	entity := Entity{CompanyName: "Acme", Domain: "acme.io"}
	sources := er.Retrieve(context.Background(), EntityQuery{CompanyName: "Acme", CompanyWebsite: "https://acme.io"}, entity)

	if got := mock.Queries(); len(got) != 1 {
		t.Fatalf("query cap of 1 must issue a single query, saw %v", got)
	}
	if len(sources) != 2 {
		t.Fatalf("per-query and total caps of 2 must yield 2 sources, got %d", len(sources))
	}
}
