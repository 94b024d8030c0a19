// Package extractor turns PDF files into page-delimited text and detects the
// law name and script of each document.
package extractor

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"legalrag/internal/domain"
)

// PageDelimiterPattern matches the delimiter written before each page.
var PageDelimiterPattern = regexp.MustCompile(`===== Page (\d+) =====`)

// minTitleLen is the rune count a line must exceed to count as a title.
const minTitleLen = 5

// PageDelimiter renders the delimiter for a 1-based page number.
func PageDelimiter(page int) string {
	return fmt.Sprintf("===== Page %d =====", page)
}

// Assemble builds a document from per-page text.
func Assemble(path string, pages []string) domain.Document {
	var b strings.Builder
	for i := range pages {
		pages[i] = norm.NFKC.String(pages[i])
		b.WriteString("\n")
		b.WriteString(PageDelimiter(i + 1))
		b.WriteString("\n")
		b.WriteString(pages[i])
	}
	text := b.String()

	lawName := lawNameFromPath(path)
	if len(pages) > 0 {
		if title := titleLine(pages[0]); title != "" {
			lawName = title
		}
	}
	return domain.Document{
		Source:  path,
		LawName: lawName,
		Text:    text,
		Pages:   len(pages),
		Script:  DetectScript(text),
	}
}

// DetectScript reports Arabic when any rune falls in the Arabic block.
func DetectScript(text string) domain.Script {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return domain.ScriptArabic
		}
	}
	return domain.ScriptLatin
}

func lawNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// titleLine returns the first line of page one long enough to be a heading.
func titleLine(page string) string {
	for _, line := range strings.Split(page, "\n") {
		line = strings.TrimFunc(line, unicode.IsSpace)
		if utf8.RuneCountInString(line) > minTitleLen {
			return line
		}
	}
	return ""
}
