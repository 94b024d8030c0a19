// Package locator extracts the text of a single article of a law by its
// citation number, independently of any search index.
package locator

import (
	"strings"

	"legalrag/internal/domain"
	"legalrag/internal/segmenter"
)

// Locator finds article spans in a read-only corpus.
type Locator struct {
	corpus domain.Corpus
}

func New(corpus domain.Corpus) *Locator {
	return &Locator{corpus: corpus}
}

// Locate returns the text of article number in lawName, with the marker
// rewritten to a readable heading. ok is false when no chunk of that law
// carries the article's marker. number must be a plain decimal string.
func (l *Locator) Locate(lawName, number string) (text string, ok bool) {
	if number == "" {
		return "", false
	}
	marker := segmenter.Marker(number)
	var spans []string
	for _, ch := range l.corpus {
		if ch.LawName != lawName {
			continue
		}
		start := strings.Index(ch.Content, marker)
		if start < 0 {
			continue
		}
		span := ch.Content[start:]
		rest := span[len(marker):]
		if next := segmenter.MarkerPattern.FindStringIndex(rest); next != nil {
			span = span[:len(marker)+next[0]]
		}
		span = strings.Replace(span, marker, segmenter.Label(number, ch.Script), 1)
		spans = append(spans, strings.TrimSpace(span))
	}
	if len(spans) == 0 {
		return "", false
	}
	return strings.Join(spans, " "), true
}

// NormalizeArticleNumber converts Arabic-Indic digits to ASCII and drops
// every other non-digit character.
func NormalizeArticleNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		if d, ok := segmenter.Digit(r); ok {
			b.WriteRune(d)
		}
	}
	return b.String()
}
