package match

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/agnivade/levenshtein"
)

// Scorer computes a similarity score in [0, 1] between two normalized keys.
// 1.0 means identical strings.
type Scorer func(a, b string) float64

// Scorer names accepted by ScorerByName.
const (
	ScorerJaroWinkler = "jaro-winkler"
	ScorerDice        = "dice"
	ScorerLevenshtein = "levenshtein"
)

// ScorerByName returns the scorer registered under name.
func ScorerByName(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScorerJaroWinkler:
		return JaroWinkler, nil
	case ScorerDice:
		return Dice, nil
	case ScorerLevenshtein:
		return LevenshteinRatio, nil
	default:
		return nil, fmt.Errorf("unknown similarity scorer %q (want %s, %s or %s)",
			name, ScorerJaroWinkler, ScorerDice, ScorerLevenshtein)
	}
}

// Metrics only read their configuration, so shared instances are safe for
// concurrent use.
var (
	jaroMetric        = metrics.NewJaro()
	jaroWinklerMetric = metrics.NewJaroWinkler()
	diceMetric        = &metrics.SorensenDice{CaseSensitive: true, NgramSize: 2}
)

// JaroWinkler computes the Jaro-Winkler similarity. Shared prefixes of up to
// four characters are rewarded, which makes abbreviations ("temp" vs
// "temperature") score high.
func JaroWinkler(a, b string) float64 {
	return strutil.Similarity(a, b, jaroWinklerMetric)
}

// Jaro computes the Jaro similarity between two strings.
func Jaro(a, b string) float64 {
	return strutil.Similarity(a, b, jaroMetric)
}

// Dice computes the Sørensen-Dice coefficient over character bigrams, with
// the conventions of the string-similarity compareTwoStrings function:
// whitespace is ignored, identical strings score 1 and otherwise strings
// shorter than two characters score 0.
func Dice(a, b string) float64 {
	a, b = stripSpace(a), stripSpace(b)
	if a == b {
		return 1.0
	}

	if utf8.RuneCountInString(a) < 2 || utf8.RuneCountInString(b) < 2 {
		return 0
	}

	return strutil.Similarity(a, b, diceMetric)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}

// Levenshtein returns the edit distance between two strings, counted in runes.
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// LevenshteinRatio computes a normalized similarity score between 0 and 1.
// The score is: 1 - (distance / max(len(a), len(b))).
func LevenshteinRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(max(la, lb))
}
