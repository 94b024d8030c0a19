package llm

import (
	"strings"

	"legalrag/internal/domain"
)

type promptText struct {
	question    string
	summary     string
	comparison  string
	focus       string
	readability string

	contextHeading  string
	questionHeading string
	answerHeading   string
	articleHeading  string
	summaryHeading  string
	firstLaw        string
	secondLaw       string
	compareHeading  string
	textHeading     string
	improvedHeading string
}

var englishPrompts = promptText{
	question: "You are an expert legal assistant specializing in Omani law. Answer the following question based ONLY on the legal information provided.\n" +
		"If you cannot find a clear answer in the context, state that you cannot provide a definitive answer based on the available information.\n" +
		"Do not invent or assume any legal information that is not in the context.",
	summary: "Summarize the following legal article in 3-5 concise lines. Focus on the main legal provisions and implications.",
	comparison: "You are an expert in Omani law. Compare the following two laws, highlighting key similarities and differences in their provisions, scope, and legal implications.\n" +
		"Structure your comparison with clear sections for similarities, differences, and a brief conclusion.",
	focus:       "Pay particular attention to this aspect: ",
	readability: "Rewrite the following legal text so it is easy to read. Fix broken line breaks and spacing left by PDF extraction, keep every provision and number, and do not add anything.",

	contextHeading:  "LEGAL CONTEXT:",
	questionHeading: "QUESTION:",
	answerHeading:   "ANSWER:",
	articleHeading:  "ARTICLE:",
	summaryHeading:  "SUMMARY:",
	firstLaw:        "FIRST LAW - ",
	secondLaw:       "SECOND LAW - ",
	compareHeading:  "COMPARISON:",
	textHeading:     "TEXT:",
	improvedHeading: "IMPROVED TEXT:",
}

var arabicPrompts = promptText{
	question: "أنت مساعد قانوني خبير متخصص في القانون العماني. أجب على السؤال التالي استنادًا فقط إلى المعلومات القانونية المقدمة.\n" +
		"إذا لم تتمكن من العثور على إجابة واضحة في السياق، اذكر أنك لا تستطيع تقديم إجابة حاسمة بناءً على المعلومات المتاحة.\n" +
		"لا تخترع أو تفترض أي معلومات قانونية غير موجودة في السياق.",
	summary: "لخص المادة القانونية التالية في 3-5 أسطر موجزة. ركز على الأحكام والآثار القانونية الرئيسية.",
	comparison: "أنت خبير في القانون العماني. قارن بين القانونين التاليين، مع تسليط الضوء على أوجه التشابه والاختلاف الرئيسية في أحكامهما ونطاقهما وآثارهما القانونية.\n" +
		"قم بهيكلة المقارنة بأقسام واضحة لأوجه التشابه والاختلاف وخاتمة موجزة.",
	focus:       "ركز بشكل خاص على هذا الجانب: ",
	readability: "أعد صياغة النص القانوني التالي ليكون سهل القراءة. أصلح فواصل الأسطر والمسافات المكسورة الناتجة عن استخراج PDF، واحتفظ بكل حكم ورقم، ولا تضف شيئًا.",

	contextHeading:  "السياق القانوني:",
	questionHeading: "السؤال:",
	answerHeading:   "الإجابة:",
	articleHeading:  "المادة:",
	summaryHeading:  "الملخص:",
	firstLaw:        "القانون الأول - ",
	secondLaw:       "القانون الثاني - ",
	compareHeading:  "المقارنة:",
	textHeading:     "النص:",
	improvedHeading: "النص المحسن:",
}

func textFor(lang domain.Lang) promptText {
	if lang == domain.LangArabic {
		return arabicPrompts
	}
	return englishPrompts
}

// QuestionPrompt asks for an answer grounded in the given context blocks.
func QuestionPrompt(lang domain.Lang, question string, blocks []domain.Section) domain.Prompt {
	return domain.Prompt{Task: domain.TaskQuestion, Lang: lang, Question: question, Sections: blocks}
}

// ArticleSummaryPrompt asks for a 3-5 line summary of one article.
func ArticleSummaryPrompt(lang domain.Lang, article string) domain.Prompt {
	return domain.Prompt{Task: domain.TaskArticleSummary, Lang: lang, Sections: []domain.Section{{Text: article}}}
}

// ComparisonPrompt asks for a structured comparison of two laws. focus may be empty.
func ComparisonPrompt(lang domain.Lang, lawA, textA, lawB, textB, focus string) domain.Prompt {
	return domain.Prompt{
		Task:     domain.TaskComparison,
		Lang:     lang,
		Question: focus,
		Sections: []domain.Section{{Title: lawA, Text: textA}, {Title: lawB, Text: textB}},
	}
}

// ReadabilityPrompt asks for a cleaned-up rendition of extracted text.
func ReadabilityPrompt(lang domain.Lang, text string) domain.Prompt {
	return domain.Prompt{Task: domain.TaskReadability, Lang: lang, Sections: []domain.Section{{Text: text}}}
}

// Render produces the model-facing text of p.
func Render(p domain.Prompt) string {
	t := textFor(p.Lang)
	var b strings.Builder
	block := func(heading, body string) {
		b.WriteString("\n\n")
		b.WriteString(heading)
		if body != "" {
			b.WriteString("\n")
			b.WriteString(body)
		}
	}
	switch p.Task {
	case domain.TaskQuestion:
		b.WriteString(t.question)
		block(t.contextHeading, joinSections(p.Sections))
		block(t.questionHeading, p.Question)
		block(t.answerHeading, "")
	case domain.TaskArticleSummary:
		b.WriteString(t.summary)
		block(t.articleHeading, joinSections(p.Sections))
		block(t.summaryHeading, "")
	case domain.TaskComparison:
		b.WriteString(t.comparison)
		if p.Question != "" {
			b.WriteString("\n")
			b.WriteString(t.focus)
			b.WriteString(p.Question)
		}
		headings := []string{t.firstLaw, t.secondLaw}
		for i, s := range p.Sections {
			if i < len(headings) {
				block(headings[i]+s.Title+":", s.Text)
			}
		}
		block(t.compareHeading, "")
	case domain.TaskReadability:
		b.WriteString(t.readability)
		block(t.textHeading, joinSections(p.Sections))
		block(t.improvedHeading, "")
	}
	return b.String()
}

// joinSections renders titled blocks separated by blank lines.
func joinSections(sections []domain.Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Title == "" {
			parts = append(parts, s.Text)
			continue
		}
		parts = append(parts, s.Title+":\n"+s.Text)
	}
	return strings.Join(parts, "\n\n")
}
