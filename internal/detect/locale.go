// Package detect implements the local, network-free half of the detection
// pipeline: locale detection, amount and currency extraction, service
// identification and the first-stage gate classifier.
package detect

import (
	"strings"
	"unicode"

	"github.com/recurhq/recur/internal/lexicon"
)

// Locale is a detected (language, region) pair used to select which keyword
// tables and currency patterns apply to a message.
type Locale struct {
	Language string
	Region   string
}

// DetectLocale inspects raw message text and picks a working locale. Script
// ranges win outright; otherwise language-specific billing nouns anchor the
// language and currency or domain hints refine the region. Total: always
// returns a locale, defaulting to en/US.
func DetectLocale(text string) Locale {
	lower := strings.ToLower(text)

	// Strongly distinguishing scripts first.
	if containsScript(text, unicode.Arabic) {
		return Locale{Language: lexicon.LangArabic, Region: arabicRegion(text)}
	}
	if containsScript(text, unicode.Hiragana) || containsScript(text, unicode.Katakana) {
		return Locale{Language: lexicon.LangJapanese, Region: "JP"}
	}

	// Lexical anchors for Latin-script languages.
	if containsAny(lower, lexicon.Anchors[lexicon.LangFrench]) {
		return Locale{Language: lexicon.LangFrench, Region: frenchRegion(lower)}
	}
	if containsAny(lower, lexicon.Anchors[lexicon.LangSpanish]) {
		return Locale{Language: lexicon.LangSpanish, Region: "ES"}
	}
	if containsAny(lower, lexicon.Anchors[lexicon.LangGerman]) {
		return Locale{Language: lexicon.LangGerman, Region: germanRegion(lower)}
	}

	return Locale{Language: lexicon.DefaultLanguage, Region: englishRegion(lower)}
}

// arabicRegion refines the region inside already-detected Arabic text.
func arabicRegion(text string) string {
	if strings.Contains(text, "درهم") {
		return "MA"
	}
	if strings.Contains(text, "ريال") {
		return "SA"
	}
	return "SA"
}

func frenchRegion(lower string) string {
	switch {
	case strings.Contains(lower, "درهم") || strings.Contains(lower, "dirham"):
		return "MA"
	case strings.Contains(lower, "chf") || strings.Contains(lower, "franc suisse"):
		return "CH"
	}
	return "FR"
}

func germanRegion(lower string) string {
	if strings.Contains(lower, "chf") {
		return "CH"
	}
	return "DE"
}

func englishRegion(lower string) string {
	switch {
	case strings.Contains(lower, "£") || strings.Contains(lower, "gbp"):
		return "GB"
	case strings.Contains(lower, "cad"):
		return "CA"
	}
	return lexicon.DefaultRegion
}

func containsScript(text string, table *unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
