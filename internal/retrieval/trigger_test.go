package retrieval

import "testing"

func TestShouldSearchWebPatternOverridesFloor(t *testing.T) {
	if !ShouldSearchWeb("What's their pricing?", 10) {
		t.Fatal("pricing question should trigger web search despite enough internal sources")
	}
}

func TestShouldSearchWebNoPatternEnoughSources(t *testing.T) {
	if ShouldSearchWeb("ok thanks", 10) {
		t.Fatal("smalltalk with enough internal sources should not trigger web search")
	}
}

func TestShouldSearchWebFloor(t *testing.T) {
	if !ShouldSearchWeb("ok thanks", 3) {
		t.Fatal("thin internal knowledge should trigger web search")
	}
	if !ShouldSearchWeb("ok thanks", 5) {
		t.Fatal("5 internal sources is below the floor")
	}
	if ShouldSearchWeb("ok thanks", 6) {
		t.Fatal("6 internal sources meets the floor")
	}
}

func TestMatchedIntents(t *testing.T) {
	names := MatchedIntents("any news on their latest funding round?")
	if len(names) < 2 {
		t.Fatalf("expected news and funding intents, got %v", names)
	}
}

func TestIntentRuleTableCoverage(t *testing.T) {
	cases := map[string]string{
		"what does this company actually do": "what_entity_does",
		"do they have a website":             "website",
		"how much does it cost":              "pricing",
		"who are their customers":            "customers",
		"have they raised money":             "funding",
		"anything announced recently":        "news",
		"who are the competitors here":       "competitors",
		"walk me through the product":        "product",
	}
	for msg, want := range cases {
		found := false
		for _, name := range MatchedIntents(msg) {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("message %q should match rule %s, matched %v", msg, want, MatchedIntents(msg))
		}
	}
}
