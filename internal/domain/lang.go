package domain

import (
	"fmt"
	"strings"
)

// Lang is the request-scoped interface language.
type Lang string

const (
	LangEnglish Lang = "en"
	LangArabic  Lang = "ar"
)

// ParseLang accepts ISO codes and the English language names.
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en", "english":
		return LangEnglish, nil
	case "ar", "arabic":
		return LangArabic, nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}
