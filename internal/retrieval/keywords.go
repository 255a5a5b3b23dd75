package retrieval

import "strings"

const (
	maxKeywords      = 10
	minKeywordLength = 4
)

// stopWords holds common English function words plus nouns so generic in
// startup descriptions that they carry no disambiguating signal.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "for": {},
	"with": {}, "from": {}, "into": {}, "onto": {}, "that": {}, "this": {},
	"these": {}, "those": {}, "they": {}, "their": {}, "them": {}, "its": {},
	"are": {}, "was": {}, "were": {}, "been": {}, "being": {}, "have": {},
	"has": {}, "had": {}, "will": {}, "would": {}, "can": {}, "could": {},
	"should": {}, "about": {}, "over": {}, "under": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "than": {}, "then": {}, "also": {},
	"using": {}, "used": {}, "uses": {}, "based": {}, "make": {}, "makes": {},
	"making": {}, "help": {}, "helps": {}, "helping": {}, "enable": {},
	"enables": {}, "enabling": {}, "allow": {}, "allows": {}, "provide": {},
	"provides": {}, "providing": {}, "offer": {}, "offers": {}, "offering": {},

	"company": {}, "companies": {}, "platform": {}, "platforms": {},
	"solution": {}, "solutions": {}, "startup": {}, "startups": {},
	"business": {}, "businesses": {}, "service": {}, "services": {},
	"technology": {}, "technologies": {}, "software": {}, "tool": {},
	"tools": {}, "world": {}, "leading": {}, "innovative": {}, "customers": {},
	"users": {}, "teams": {}, "people": {},
}

// ExtractKeywords pulls up to ten disambiguating terms from a free-text
// description. Order follows position in the source text; no frequency
// ranking is applied.
func ExtractKeywords(description string) []string {
	normalized := normalizeToWords(description)
	out := make([]string, 0, maxKeywords)
	for _, token := range strings.Fields(normalized) {
		if len(token) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		out = append(out, token)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

// normalizeToWords lowercases and maps every non-alphanumeric rune to a
// space so the result splits cleanly on whitespace.
func normalizeToWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
