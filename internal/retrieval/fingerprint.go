package retrieval

import (
	"sort"
	"strings"
)

const (
	fingerprintMinWordLen = 5
	fingerprintWordCount  = 4
	fingerprintSeparator  = "|"
)

// Fingerprint normalizes a title into a comparable signature. Two titles
// with the same fingerprint are treated as the same underlying story even
// when wording or word order differs.
func Fingerprint(title string) string {
	words := strings.Fields(normalizeToWords(title))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) >= fingerprintMinWordLen {
			kept = append(kept, w)
		}
	}
	sort.Strings(kept)
	if len(kept) > fingerprintWordCount {
		kept = kept[:fingerprintWordCount]
	}
	return strings.Join(kept, fingerprintSeparator)
}

// Deduper tracks URLs and title fingerprints seen so far in one pass.
// First occurrence wins; the zero value is not usable, call NewDeduper.
type Deduper struct {
	seenURLs         map[string]struct{}
	seenFingerprints map[string]struct{}
}

func NewDeduper() *Deduper {
	return &Deduper{
		seenURLs:         map[string]struct{}{},
		seenFingerprints: map[string]struct{}{},
	}
}

// Admit reports whether a document with the given URL and title has not
// been seen before, recording it when admitted.
func (d *Deduper) Admit(url, title string) bool {
	if url != "" {
		if _, dup := d.seenURLs[url]; dup {
			return false
		}
	}
	fp := Fingerprint(title)
	if fp != "" {
		if _, dup := d.seenFingerprints[fp]; dup {
			return false
		}
	}
	if url != "" {
		d.seenURLs[url] = struct{}{}
	}
	if fp != "" {
		d.seenFingerprints[fp] = struct{}{}
	}
	return true
}
