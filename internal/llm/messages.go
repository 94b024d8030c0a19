package llm

import (
	"fmt"

	"legalrag/internal/domain"
)

// Apology is shown in place of an answer when a collaborator fails.
func Apology(lang domain.Lang) string {
	if lang == domain.LangArabic {
		return "أعتذر، لكنني واجهت خطأ أثناء إنشاء استجابة. يرجى المحاولة مرة أخرى أو الاتصال بالدعم إذا استمرت المشكلة."
	}
	return "I apologize, but I encountered an error while generating a response. Please try again or contact support if the issue persists."
}

// NoResults is shown when retrieval found nothing relevant.
func NoResults(lang domain.Lang) string {
	if lang == domain.LangArabic {
		return "لم يتم العثور على معلومات ذات صلة في الوثائق القانونية. يرجى إعادة صياغة سؤالك."
	}
	return "No relevant information found in the legal documents. Please try rephrasing your question."
}

// TranscriptionFailed is shown when spoken input could not be read.
func TranscriptionFailed(lang domain.Lang) string {
	if lang == domain.LangArabic {
		return "تعذر نسخ الملف الصوتي. يرجى المحاولة مرة أخرى أو كتابة سؤالك."
	}
	return "The audio could not be transcribed. Please try again or type your question."
}

// ArticleNotFound reports a missing article of a law.
func ArticleNotFound(lang domain.Lang, law, number string) string {
	if lang == domain.LangArabic {
		return fmt.Sprintf("لم يتم العثور على المادة %s في %s.", number, law)
	}
	return fmt.Sprintf("Article %s was not found in %s.", number, law)
}

// SameLaw is shown when a comparison names one law twice.
func SameLaw(lang domain.Lang) string {
	if lang == domain.LangArabic {
		return "يرجى اختيار قانونين مختلفين للمقارنة."
	}
	return "Please select two different laws to compare."
}

// LawNotFound reports a law name absent from the corpus.
func LawNotFound(lang domain.Lang, law string) string {
	if lang == domain.LangArabic {
		return fmt.Sprintf("لم يتم العثور على القانون %s.", law)
	}
	return fmt.Sprintf("Law %s was not found.", law)
}
