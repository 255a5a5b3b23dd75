package retrieval

import (
	"fmt"
	"strings"

	"dealflow/internal/models"
)

// contentCharBudget is the per-source excerpt budget in the context text.
const contentCharBudget = 500

const truncationMarker = "..."

// CitationRules is prepended to the LLM system prompt. It documents the
// contract the formatter's [S#] keys rely on; enforcement is on the model,
// not in-process.
const CitationRules = `Citation rules:
- Every factual claim in your answer must cite a source with its [S#] tag.
- Only cite sources listed below; never invent a source or a tag.
- If no listed source supports a claim, say you could not find it instead of guessing.`

// FormatContext assigns citation keys across internal then external sources
// and renders the citation list and context text. Keys are S1..Sn, 1-based,
// contiguous, never reused within a pack.
func FormatContext(internal, external []models.Source) models.ContextPack {
	all := make([]models.Source, 0, len(internal)+len(external))
	all = append(all, internal...)
	all = append(all, external...)

	citationMap := make(map[string]models.Source, len(all))
	citationLines := make([]string, 0, len(all))
	contextBlocks := make([]string, 0, len(all))

	for i, src := range all {
		key := fmt.Sprintf("S%d", i+1)
		citationMap[key] = src
		citationLines = append(citationLines, citationLine(key, src))
		contextBlocks = append(contextBlocks, fmt.Sprintf("[%s] %s", key, truncateContent(src.Content)))
	}

	return models.ContextPack{
		InternalSources: internal,
		ExternalSources: external,
		CitationMap:     citationMap,
		CitationList:    strings.Join(citationLines, "\n"),
		ContextText:     strings.Join(contextBlocks, "\n\n"),
	}
}

func citationLine(key string, src models.Source) string {
	line := fmt.Sprintf("%s: [%s/%s] %s", key, src.Origin, src.SourceKind, src.Title)
	if src.Date != "" {
		line += fmt.Sprintf(" (%s)", src.Date)
	}
	if src.Origin == models.OriginWeb && src.URL != "" {
		line += " - " + src.URL
	}
	return line
}

func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= contentCharBudget {
		return content
	}
	return string(runes[:contentCharBudget]) + truncationMarker
}
