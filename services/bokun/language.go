package bokun

import "strings"

// Language is the two-letter uppercase code the provider expects in the lang query parameter
type Language string

const (
	LanguageEnglish Language = "EN"
	LanguageSpanish Language = "ES"
)

// LanguageFromLocale maps a site locale tag such as "es" or "es-ES"; unknown tags fall back to English
func LanguageFromLocale(locale string) Language {
	tag := strings.ToLower(strings.TrimSpace(locale))
	if tag == "es" || strings.HasPrefix(tag, "es-") || strings.HasPrefix(tag, "es_") {
		return LanguageSpanish
	}
	return LanguageEnglish
}

// Locale is the lowercase site locale belonging to the language
func (l Language) Locale() string {
	return strings.ToLower(string(l))
}
