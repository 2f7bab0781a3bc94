package intent

import (
	"strings"

	"shopsage/app/api/chat/internal/engine/text"
)

type Language string

const (
	LangEnglish Language = "en"
	LangGerman  Language = "de"
)

// germanCues are ASCII-folded German words common in shopping messages.
var germanCues = []string{
	"bitte", "danke", "kaufen", "geschenk", "sohn", "tochter", "preis",
	"versand", "rueckgabe", "umtausch", "warenkorb", "brauche", "suche",
	"empfehlung", "guenstig", "billiger",
}

// DetectLanguage guesses the response language from the message. The shop
// serves English and German; two or more German cue hits flip to German.
func DetectLanguage(message string) Language {
	t := text.Normalize(message)
	hits := 0
	for _, w := range germanCues {
		if strings.Contains(t, w) {
			hits++
		}
	}
	if hits >= 2 {
		return LangGerman
	}
	return LangEnglish
}

// ParseLanguage maps a configured override to a Language, empty meaning none.
func ParseLanguage(v string) Language {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "de", "german":
		return LangGerman
	case "en", "english":
		return LangEnglish
	default:
		return ""
	}
}
