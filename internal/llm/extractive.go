package llm

import (
	"context"
	"sort"
	"strings"

	"legalrag/internal/domain"
	"legalrag/internal/summarizer"
)

// ExtractiveAnswerer answers without a language model by quoting source
// sentences: those sharing the most terms with the question, or the most
// representative ones when there is no question.
type ExtractiveAnswerer struct {
	summarizer   *summarizer.FrequencySummarizer
	maxSentences int
}

func NewExtractiveAnswerer(maxSentences int) *ExtractiveAnswerer {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	return &ExtractiveAnswerer{summarizer: summarizer.NewFrequencySummarizer(), maxSentences: maxSentences}
}

func (a *ExtractiveAnswerer) Name() string { return "extractive" }

func (a *ExtractiveAnswerer) Answer(_ context.Context, prompt domain.Prompt) (string, error) {
	switch prompt.Task {
	case domain.TaskQuestion:
		return a.quote(prompt.Question, sectionText(prompt.Sections))
	case domain.TaskComparison:
		t := textFor(prompt.Lang)
		headings := []string{t.firstLaw, t.secondLaw}
		var parts []string
		for i, s := range prompt.Sections {
			summary, err := a.quote(prompt.Question, s.Text)
			if err != nil {
				return "", err
			}
			parts = append(parts, headings[min(i, 1)]+s.Title+":\n"+summary)
		}
		return strings.Join(parts, "\n\n"), nil
	case domain.TaskReadability:
		return strings.Join(strings.Fields(sectionText(prompt.Sections)), " "), nil
	default:
		return a.summarizer.Summarize(sectionText(prompt.Sections), a.maxSentences)
	}
}

// quote returns up to maxSentences sentences of text in source order.
func (a *ExtractiveAnswerer) quote(question, text string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return a.summarizer.Summarize(text, a.maxSentences)
	}
	sentences := a.summarizer.Sentences(text)
	scores := a.summarizer.Score(question, sentences)
	var picked []int
	for i, s := range scores {
		if s > 0 {
			picked = append(picked, i)
		}
	}
	if len(picked) == 0 {
		return a.summarizer.Summarize(text, a.maxSentences)
	}
	sort.SliceStable(picked, func(i, j int) bool { return scores[picked[i]] > scores[picked[j]] })
	if len(picked) > a.maxSentences {
		picked = picked[:a.maxSentences]
	}
	sort.Ints(picked)
	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

func sectionText(sections []domain.Section) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n")
}
