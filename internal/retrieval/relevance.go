package retrieval

import (
	"regexp"
	"strings"
)

// Entity describes the company a retrieval call is about. Keywords come from
// ExtractKeywords over the company description.
type Entity struct {
	CompanyName string
	Domain      string
	Description string
	Keywords    []string
	FounderName string
}

// WebCandidate is one raw web result under consideration.
type WebCandidate struct {
	URL   string
	Title string
	Text  string
}

// Verdict is the outcome of the relevance filter for one candidate.
type Verdict struct {
	Accepted   bool
	Rule       string
	Confidence string // "high" or "low" for accepts, "" for rejects
}

// RejectPattern flags text that likely concerns a different company that
// happens to share the entity's name. A pattern is suppressed when the
// entity's own description also matches it.
type RejectPattern struct {
	Name        string
	Description string
	Pattern     *regexp.Regexp
}

var RejectPatterns = []RejectPattern{
	{
		Name:        "stale_acquisition",
		Description: "acquisition dated before the startup era cutoff",
		Pattern:     regexp.MustCompile(`(?i)\bacquired\b[^.]*\b(19\d{2}|200\d|201[0-5])\b`),
	},
	{
		Name:        "unrelated_industry",
		Description: "pharma/biotech/medical wording absent from the entity's own description",
		Pattern:     regexp.MustCompile(`(?i)\b(pharmaceutical[s]?|pharma|therapeutics|biotech(nology)?|medical device[s]?|clinical trial[s]?)\b`),
	},
	{
		Name:        "stale_funding",
		Description: "a funding amount tied to a stale year",
		Pattern:     regexp.MustCompile(`(?i)\$\s?\d+(\.\d+)?\s?(million|billion|m|b)\b[^.]*\b(19\d{2}|200\d|201[0-5])\b`),
	},
}

// CheckRelevance decides whether a web result truly concerns the entity.
// Rules are evaluated in order; the first applicable rule wins. Company
// names collide across unrelated startups, so acceptance requires
// corroboration (domain, founder, or description keywords) before falling
// back to low-confidence name matches.
func CheckRelevance(c WebCandidate, e Entity) Verdict {
	combined := strings.ToLower(c.Title + " " + c.Text)
	name := strings.ToLower(strings.TrimSpace(e.CompanyName))
	founderFirst := firstName(e.FounderName)

	if e.Domain != "" && strings.Contains(strings.ToLower(c.URL), strings.ToLower(e.Domain)) {
		return Verdict{Accepted: true, Rule: "domain_match", Confidence: "high"}
	}
	if name != "" && founderFirst != "" &&
		strings.Contains(combined, name) && strings.Contains(combined, founderFirst) {
		return Verdict{Accepted: true, Rule: "name_and_founder", Confidence: "high"}
	}
	if name != "" && strings.Contains(combined, name) && keywordMatches(combined, e.Keywords) >= 2 {
		return Verdict{Accepted: true, Rule: "name_and_keywords", Confidence: "high"}
	}
	ownDescription := strings.ToLower(e.Description)
	for _, rp := range RejectPatterns {
		if rp.Pattern.MatchString(combined) && !rp.Pattern.MatchString(ownDescription) {
			return Verdict{Accepted: false, Rule: rp.Name}
		}
	}
	if name != "" && strings.Contains(combined, name) {
		return Verdict{Accepted: true, Rule: "name_only", Confidence: "low"}
	}
	if founderFirst != "" && strings.Contains(combined, founderFirst) {
		return Verdict{Accepted: true, Rule: "founder_only", Confidence: "low"}
	}
	return Verdict{Accepted: false, Rule: "no_signal"}
}

func keywordMatches(combined string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(combined, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}

func firstName(full string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(full)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
