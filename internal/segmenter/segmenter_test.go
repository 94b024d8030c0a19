package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"legalrag/internal/domain"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"article", "Article 5 applies.", "[ARTICLE_5] applies."},
		{"article multiple spaces", "Article   12\nText", "[ARTICLE_12]\nText"},
		{"abbreviated with dot", "see Art. 7", "see [ARTICLE_7]"},
		{"abbreviated no dot no space", "Art7 and Art 8", "[ARTICLE_7] and [ARTICLE_8]"},
		{"section", "Section 3 - Scope", "[ARTICLE_3] - Scope"},
		{"arabic article", "المادة 4 العمل حق", "[ARTICLE_4] العمل حق"},
		{"arabic section", "القسم 9", "[ARTICLE_9]"},
		{"arabic-indic digits", "المادة ٥ العمل حق للمواطن", "[ARTICLE_5] العمل حق للمواطن"},
		{"extended arabic-indic digits", "القسم ۱۲ أحكام", "[ARTICLE_12] أحكام"},
		{"mixed digit systems", "Article ١0", "[ARTICLE_10]"},
		{"plain numbers untouched", "fined 500 rials within 30 days", "fined 500 rials within 30 days"},
		{"case sensitive", "article 5 and ARTICLE 6", "article 5 and ARTICLE 6"},
		{"keyword without number", "Article of faith", "Article of faith"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.in))
		})
	}
}

func TestSegmentIdempotent(t *testing.T) {
	inputs := []string{
		"Article 1 Employment is a right. Article 2 No forced work.",
		"Art. 3, Section 4, المادة 5, القسم 6",
		"المادة ٧ والمادة ۸",
		"Article Article 7",
		"[ARTICLE_8] already marked",
		"",
	}
	for _, in := range inputs {
		once := Segment(in)
		assert.Equal(t, once, Segment(once), in)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Article 5", Label("5", domain.ScriptLatin))
	assert.Equal(t, "المادة 5", Label("5", domain.ScriptArabic))
}

func TestNumbers(t *testing.T) {
	text := Segment("Article 2 x Article 10 y Section 3")
	assert.Equal(t, []int{2, 10, 3}, Numbers(text))
	assert.Equal(t, "[ARTICLE_10]", Marker("10"))
}

func TestASCIIDigits(t *testing.T) {
	assert.Equal(t, "12", ASCIIDigits("١٢"))
	assert.Equal(t, "article 34", ASCIIDigits("article ۳۴"))
	_, ok := Digit('x')
	assert.False(t, ok)
}
