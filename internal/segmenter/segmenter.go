// Package segmenter rewrites legal numbering conventions into uniform
// article markers that later stages can find by exact match.
package segmenter

import (
	"regexp"
	"strconv"
	"strings"

	"legalrag/internal/domain"
)

// digits matches ASCII, Arabic-Indic and Extended Arabic-Indic digit runs.
const digits = `([0-9٠-٩۰-۹]+)`

// Patterns in priority order. Each captures the article number.
var articlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Article\s+` + digits),
	regexp.MustCompile(`المادة\s+` + digits),
	regexp.MustCompile(`Art\.?\s*` + digits),
	regexp.MustCompile(`Section\s+` + digits),
	regexp.MustCompile(`القسم\s+` + digits),
}

// MarkerPattern matches any article marker produced by Segment.
var MarkerPattern = regexp.MustCompile(`\[ARTICLE_(\d+)\]`)

// Marker returns the marker token for an article number.
func Marker(number string) string {
	return "[ARTICLE_" + number + "]"
}

// Segment replaces every recognized article or section declaration with
// its marker. Numbers without a recognized keyword are left alone. Marker
// numbers are always written in ASCII digits.
func Segment(text string) string {
	out := text
	for _, re := range articlePatterns {
		out = re.ReplaceAllStringFunc(out, func(m string) string {
			return Marker(ASCIIDigits(re.FindStringSubmatch(m)[1]))
		})
	}
	return out
}

// Digit maps an ASCII, Arabic-Indic (U+0660-0669) or Extended Arabic-Indic
// (U+06F0-06F9) digit to its ASCII form.
func Digit(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r, true
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠'), true
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰'), true
	}
	return 0, false
}

// ASCIIDigits rewrites every digit of s in ASCII and keeps other runes.
func ASCIIDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := Digit(r); ok {
			return d
		}
		return r
	}, s)
}

// Label renders the human-readable heading for an article number.
func Label(number string, script domain.Script) string {
	if script == domain.ScriptArabic {
		return "المادة " + number
	}
	return "Article " + number
}

// Numbers lists the article numbers marked in text, in order of appearance.
func Numbers(text string) []int {
	var out []int
	for _, m := range MarkerPattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out = append(out, n)
		}
	}
	return out
}
