package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"legalrag/internal/domain"
	"legalrag/internal/llm"
	"legalrag/internal/locator"
)

// maxLawContext bounds the characters of each law sent for comparison.
const maxLawContext = 8000

// Request is a free-text legal question.
type Request struct {
	Query string
	Lang  domain.Lang
	// Law restricts retrieval to one law when set.
	Law string
}

// Answer is the user-facing outcome of a request. Failures are already
// converted to a localized Text; Degraded marks them.
type Answer struct {
	Text     string
	Sources  []domain.SearchResult
	Degraded bool
}

// Ask retrieves context for the question and has the answerer respond.
func (a *Assistant) Ask(ctx context.Context, req Request) Answer {
	s := a.snap()
	results, err := a.search(ctx, s, req.Query, req.Law, a.topK)
	if err != nil {
		a.logger.Error("search failed", "query", req.Query, "law", req.Law, "error", err)
		return Answer{Text: llm.Apology(req.Lang), Degraded: true}
	}
	var relevant []domain.SearchResult
	for _, r := range results {
		if r.Score > a.floor {
			relevant = append(relevant, r)
		}
	}
	if len(relevant) == 0 {
		return Answer{Text: llm.NoResults(req.Lang)}
	}

	blocks := make([]domain.Section, len(relevant))
	for i, r := range relevant {
		blocks[i] = ContextBlock(r.Chunk)
	}
	text, err := a.answerer.Answer(ctx, llm.QuestionPrompt(req.Lang, req.Query, blocks))
	if err != nil {
		a.logger.Error("answer failed", "answerer", a.answerer.Name(), "error", err)
		return Answer{Text: llm.Apology(req.Lang), Sources: relevant, Degraded: true}
	}
	return Answer{Text: text, Sources: relevant}
}

// ContextBlock renders a chunk as attributed answer context.
func ContextBlock(ch domain.Chunk) domain.Section {
	return domain.Section{
		Title: fmt.Sprintf("From %s (%s)", ch.LawName, filepath.Base(ch.Source)),
		Text:  ch.Content,
	}
}

// Article is the outcome of an article lookup.
type Article struct {
	Number  string
	Text    string
	Summary string
	Found   bool
}

// SummarizeArticle locates an article and summarises it. A missing article
// is reported in Summary with Found false.
func (a *Assistant) SummarizeArticle(ctx context.Context, law, rawNumber string, lang domain.Lang) Article {
	number := normalizeOrRaw(rawNumber)
	text, ok := a.Locate(law, rawNumber)
	if !ok {
		return Article{Number: number, Summary: llm.ArticleNotFound(lang, law, number)}
	}
	summary, err := a.answerer.Answer(ctx, llm.ArticleSummaryPrompt(lang, text))
	if err != nil {
		a.logger.Error("article summary failed", "law", law, "article", number, "error", err)
		summary = llm.Apology(lang)
	}
	return Article{Number: number, Text: text, Summary: summary, Found: true}
}

// CompareLaws asks for a comparison of two laws of the current corpus.
func (a *Assistant) CompareLaws(ctx context.Context, lawA, lawB, focus string, lang domain.Lang) Answer {
	if lawA == lawB {
		return Answer{Text: llm.SameLaw(lang), Degraded: true}
	}
	s := a.snap()
	texts := make([]string, 2)
	for i, law := range []string{lawA, lawB} {
		chunks := s.corpus.ByLaw(law)
		if len(chunks) == 0 {
			return Answer{Text: llm.LawNotFound(lang, law), Degraded: true}
		}
		parts := make([]string, len(chunks))
		for j, ch := range chunks {
			parts[j] = ch.Content
		}
		texts[i] = truncate(strings.Join(parts, "\n"), maxLawContext)
	}
	text, err := a.answerer.Answer(ctx, llm.ComparisonPrompt(lang, lawA, texts[0], lawB, texts[1], focus))
	if err != nil {
		a.logger.Error("comparison failed", "a", lawA, "b", lawB, "error", err)
		return Answer{Text: llm.Apology(lang), Degraded: true}
	}
	return Answer{Text: text}
}

// AskAudio transcribes a spoken question and answers it. The transcript is
// returned alongside so callers can show what was heard.
func (a *Assistant) AskAudio(ctx context.Context, filename string, audio []byte, req Request) (string, Answer) {
	if a.transcriber == nil {
		return "", Answer{Text: llm.TranscriptionFailed(req.Lang), Degraded: true}
	}
	transcript, err := a.transcriber.Transcribe(ctx, filename, audio, req.Lang)
	if err != nil || strings.TrimSpace(transcript) == "" {
		a.logger.Error("transcription failed", "file", filename, "error", err)
		return "", Answer{Text: llm.TranscriptionFailed(req.Lang), Degraded: true}
	}
	req.Query = transcript
	return transcript, a.Ask(ctx, req)
}

// Readable rewrites extracted chunk text for display, falling back to the
// original on failure.
func (a *Assistant) Readable(ctx context.Context, text string, lang domain.Lang) string {
	out, err := a.answerer.Answer(ctx, llm.ReadabilityPrompt(lang, text))
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			a.logger.Warn("readability rewrite failed", "error", err)
		}
		return text
	}
	return out
}

// truncate cuts s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func normalizeOrRaw(raw string) string {
	if n := locator.NormalizeArticleNumber(raw); n != "" {
		return n
	}
	return strings.TrimSpace(raw)
}
