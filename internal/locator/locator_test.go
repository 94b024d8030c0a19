package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"legalrag/internal/domain"
	"legalrag/internal/segmenter"
)

func labor(content string, script domain.Script) domain.Chunk {
	return domain.Chunk{Content: content, LawName: "Labor Law", Source: "labor.pdf", Script: script, TotalInDocument: 1}
}

func TestLocateStopsAtNextArticle(t *testing.T) {
	corpus := domain.Corpus{
		labor(segmenter.Segment("Article 1 Employment is a right. Article 2 No forced work."), domain.ScriptLatin),
	}
	l := New(corpus)

	text, ok := l.Locate("Labor Law", "1")
	assert.True(t, ok)
	assert.Contains(t, text, "Employment is a right")
	assert.NotContains(t, text, "No forced work")
	assert.Equal(t, "Article 1 Employment is a right.", text)

	text, ok = l.Locate("Labor Law", "2")
	assert.True(t, ok)
	assert.Equal(t, "Article 2 No forced work.", text)
}

func TestLocateNotFound(t *testing.T) {
	l := New(domain.Corpus{labor("[ARTICLE_5] text", domain.ScriptLatin)})

	_, ok := l.Locate("Labor Law", "6")
	assert.False(t, ok)
	_, ok = l.Locate("Penal Code", "5")
	assert.False(t, ok)
	_, ok = l.Locate("Labor Law", "")
	assert.False(t, ok)

	text, ok := l.Locate("Labor Law", "5")
	assert.True(t, ok)
	assert.Contains(t, text, "5")
}

func TestLocateDoesNotMatchLongerNumbers(t *testing.T) {
	l := New(domain.Corpus{labor("[ARTICLE_15] fifteen", domain.ScriptLatin)})
	_, ok := l.Locate("Labor Law", "1")
	assert.False(t, ok)
}

func TestLocateJoinsStraddlingChunks(t *testing.T) {
	corpus := domain.Corpus{
		labor("intro [ARTICLE_3] The employer shall", domain.ScriptLatin),
		{Content: "[ARTICLE_3] unrelated law", LawName: "Other", Source: "o.pdf", TotalInDocument: 1},
		labor("[ARTICLE_3] pay wages monthly. [ARTICLE_4] next", domain.ScriptLatin),
	}
	text, ok := New(corpus).Locate("Labor Law", "3")
	assert.True(t, ok)
	assert.Equal(t, "Article 3 The employer shall Article 3 pay wages monthly.", text)
	assert.NotContains(t, text, "unrelated")
}

func TestLocateArabicLabel(t *testing.T) {
	corpus := domain.Corpus{labor(segmenter.Segment("المادة 2 العمل حق لكل مواطن المادة 3 أخرى"), domain.ScriptArabic)}
	text, ok := New(corpus).Locate("Labor Law", "2")
	assert.True(t, ok)
	assert.Equal(t, "المادة 2 العمل حق لكل مواطن", text)
}

func TestLocateArabicIndicSource(t *testing.T) {
	corpus := domain.Corpus{labor(segmenter.Segment("المادة ٥ العمل حق للمواطن المادة ٦ أخرى"), domain.ScriptArabic)}
	text, ok := New(corpus).Locate("Labor Law", NormalizeArticleNumber("٥"))
	assert.True(t, ok)
	assert.Equal(t, "المادة 5 العمل حق للمواطن", text)
}

func TestNormalizeArticleNumber(t *testing.T) {
	tests := map[string]string{
		"5":          "5",
		"٥":          "5",
		"١٢":         "12",
		"۱۲":         "12",
		"Article 7":  "7",
		" 0 3 ":      "03",
		"المادة ٤٠": "40",
		"abc":        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeArticleNumber(in), in)
	}
}
