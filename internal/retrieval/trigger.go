package retrieval

import "regexp"

// internalSourceFloor is the number of internal hits below which internal
// knowledge is presumed insufficient and web search runs anyway.
const internalSourceFloor = 6

// IntentRule is one named trigger pattern. Rules are independent; any match
// means web search is warranted.
type IntentRule struct {
	Name        string
	Description string
	Pattern     *regexp.Regexp
}

var IntentRules = []IntentRule{
	{
		Name:        "what_entity_does",
		Description: "asking what the company does or is about",
		Pattern:     regexp.MustCompile(`(?i)\bwhat\b.*\b(do|does|doing|about|is)\b`),
	},
	{
		Name:        "website",
		Description: "asking about the company site or landing page",
		Pattern:     regexp.MustCompile(`(?i)\b(web\s?site|home\s?page|landing\s?page)\b`),
	},
	{
		Name:        "pricing",
		Description: "asking about pricing or cost",
		Pattern:     regexp.MustCompile(`(?i)\b(pricing|price[sd]?|cost[s]?|how much)\b`),
	},
	{
		Name:        "customers",
		Description: "asking who the customers or users are",
		Pattern:     regexp.MustCompile(`(?i)\b(customer[s]?|client[s]?|user base|who uses|who buys)\b`),
	},
	{
		Name:        "funding",
		Description: "asking about raises, rounds, investors or valuation",
		Pattern:     regexp.MustCompile(`(?i)\b(funding|raised?|round|investor[s]?|valuation)\b`),
	},
	{
		Name:        "news",
		Description: "asking for recent news or announcements",
		Pattern:     regexp.MustCompile(`(?i)\b(news|latest|recent(ly)?|announce(d|ment)?)\b`),
	},
	{
		Name:        "competitors",
		Description: "asking about the competitive landscape",
		Pattern:     regexp.MustCompile(`(?i)\b(competitor[s]?|competition|compete[s]?|alternative[s]?|similar (compan|startup)\w*)\b`),
	},
	{
		Name:        "product",
		Description: "asking about the product or its features",
		Pattern:     regexp.MustCompile(`(?i)\b(product[s]?|feature[s]?|offering[s]?|roadmap)\b`),
	},
}

// ShouldSearchWeb reports whether external retrieval is warranted for the
// message given how many internal sources were already found.
func ShouldSearchWeb(message string, internalCount int) bool {
	for _, rule := range IntentRules {
		if rule.Pattern.MatchString(message) {
			return true
		}
	}
	return internalCount < internalSourceFloor
}

// MatchedIntents returns the names of the trigger rules that fire for a
// message, for audit logging.
func MatchedIntents(message string) []string {
	out := make([]string, 0, 2)
	for _, rule := range IntentRules {
		if rule.Pattern.MatchString(message) {
			out = append(out, rule.Name)
		}
	}
	return out
}
