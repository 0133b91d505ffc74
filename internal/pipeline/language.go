package pipeline

// Language selects the default stop-word set and stemmer for a pipeline.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
)

// englishStopWords is a representative (not exhaustive) English stop list.
var englishStopWords = []string{
	"a", "an", "the", "and", "or", "but", "if", "of", "at", "by", "for",
	"with", "about", "against", "between", "into", "through", "during",
	"before", "after", "above", "below", "to", "from", "up", "down", "in",
	"out", "on", "off", "over", "under", "again", "further", "then", "once",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "should", "can", "could", "this",
	"that", "these", "those", "it", "its", "as", "not", "no",
}

var spanishStopWords = []string{
	"el", "la", "los", "las", "un", "una", "unos", "unas", "y", "o", "pero",
	"si", "de", "en", "por", "para", "con", "sin", "sobre", "entre", "es",
	"son", "era", "eran", "ser", "estar", "que", "se", "lo", "su", "no",
}

var frenchStopWords = []string{
	"le", "la", "les", "un", "une", "des", "et", "ou", "mais", "si", "de",
	"en", "par", "pour", "avec", "sans", "sur", "entre", "est", "sont",
	"etait", "etre", "que", "se", "son", "sa", "ne", "pas",
}

// resolveLanguage normalizes a language tag, falling back to English for
// anything unrecognized (including the empty string).
func resolveLanguage(lang string) Language {
	switch lang {
	case "es":
		return LanguageSpanish
	case "fr":
		return LanguageFrench
	case "en", "english", "":
		return LanguageEnglish
	default:
		return LanguageEnglish
	}
}

// defaultStopWords returns the built-in stop-word set for a language.
func defaultStopWords(lang Language) []string {
	switch lang {
	case LanguageSpanish:
		return spanishStopWords
	case LanguageFrench:
		return frenchStopWords
	default:
		return englishStopWords
	}
}

// defaultStemmer returns the built-in stemmer for a language: English gets
// the suffix stripper, everything else a pass-through no-op.
func defaultStemmer(lang Language) Stemmer {
	if lang == LanguageEnglish {
		return EnglishStemmer{}
	}
	return PassthroughStemmer{}
}

func toStopWordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
