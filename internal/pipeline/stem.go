package pipeline

import "strings"

// EnglishStemmer strips a small set of common suffixes under length guards.
// It is deliberately not a full Porter stemmer, just a simple English
// suffix stripper; the narrow doubled-consonant rule below (covering
// only b,d,f,g,l,m,n,p,r,s,t) is the intended behavior, not an
// approximation to be later swapped out.
type EnglishStemmer struct{}

// cvcDoubledConsonants is the alphabet the doubled-consonant heuristic
// applies to (e.g. "running" -> "run").
var cvcDoubledConsonants = map[byte]struct{}{
	'b': {}, 'd': {}, 'f': {}, 'g': {}, 'l': {}, 'm': {},
	'n': {}, 'p': {}, 'r': {}, 's': {}, 't': {},
}

// Stem implements Stemmer.
func (EnglishStemmer) Stem(value string) string {
	if len(value) < 4 {
		return value
	}

	switch {
	case strings.HasSuffix(value, "ing") && len(value) > 5:
		stem := value[:len(value)-3]
		return undoubleConsonant(stem)
	case strings.HasSuffix(value, "ed") && len(value) > 4:
		stem := value[:len(value)-2]
		return undoubleConsonant(stem)
	case strings.HasSuffix(value, "s") && !strings.HasSuffix(value, "ss") && len(value) > 3:
		return value[:len(value)-1]
	default:
		return value
	}
}

// undoubleConsonant collapses a trailing doubled consonant left by
// stripping -ing/-ed (e.g. "runn" -> "run", "stopp" -> "stop"), restricted
// to the fixed consonant set above. The stem's length and vowel pattern
// are not checked, so "fall" (from "falling") also becomes "fal".
func undoubleConsonant(stem string) string {
	n := len(stem)
	if n < 3 {
		return stem
	}
	last := stem[n-1]
	secondLast := stem[n-2]
	if last != secondLast {
		return stem
	}
	if _, ok := cvcDoubledConsonants[last]; !ok {
		return stem
	}
	return stem[:n-1]
}
