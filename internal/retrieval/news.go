package retrieval

import "dealflow/internal/models"

// CollapseNews removes near-duplicate feed entries in a single left-to-right
// pass: an item is dropped when its URL was already seen, or when its title
// fingerprint is non-empty and already seen. Input order is preserved.
func CollapseNews(items []models.NewsItem) []models.NewsItem {
	d := NewDeduper()
	out := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		if !d.Admit(item.URL, item.Title) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// DedupeSources applies the same pass to retrieved sources.
func DedupeSources(sources []models.Source) []models.Source {
	d := NewDeduper()
	out := make([]models.Source, 0, len(sources))
	for _, s := range sources {
		if !d.Admit(s.URL, s.Title) {
			continue
		}
		out = append(out, s)
	}
	return out
}
