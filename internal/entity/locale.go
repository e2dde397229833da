package entity

import "strings"

type Locale uint8

const (
	LocaleEnglish Locale = 0
	LocaleSpanish Locale = 1
)

// Locales lists every supported locale; phrase and template tables are indexed by it.
var Locales = []Locale{LocaleEnglish, LocaleSpanish}

var LocaleCodeMap = map[Locale]string{
	LocaleEnglish: "en",
	LocaleSpanish: "es",
}

var LocaleTagMap = map[Locale]string{
	LocaleEnglish: "en-US",
	LocaleSpanish: "es-US",
}

func (l Locale) String() string {
	return LocaleCodeMap[l]
}

func (l Locale) Tag() string {
	return LocaleTagMap[l]
}

func (l Locale) Value() uint8 {
	return uint8(l)
}

// ParseLocale accepts language codes, BCP 47 tags and the language names
// returned by speech recognition ("english", "spanish").
func ParseLocale(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}

	switch s {
	case "en", "english":
		return LocaleEnglish, true
	case "es", "spanish", "español", "espanol":
		return LocaleSpanish, true
	}
	return LocaleEnglish, false
}
