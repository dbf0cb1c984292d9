package textproc

import "strings"

// Small function-word sets per language. A full detector is overkill for
// advisory metadata on news copy.
var stopwords = map[string][]string{
	"en": {"the", "and", "is", "of", "to", "in", "that", "for", "with", "was"},
	"es": {"el", "la", "de", "que", "los", "una", "por", "con", "para", "las"},
	"fr": {"le", "la", "les", "des", "est", "dans", "que", "pour", "une", "sur"},
	"de": {"der", "die", "das", "und", "ist", "ein", "nicht", "mit", "für", "auf"},
}

// DetectLanguage guesses the dominant language from function-word frequency.
// Returns "unknown" when no language stands out.
func DetectLanguage(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 5 {
		return "unknown"
	}

	best, bestHits := "unknown", 0
	for lang, markers := range stopwords {
		set := make(map[string]struct{}, len(markers))
		for _, m := range markers {
			set[m] = struct{}{}
		}
		hits := 0
		for _, w := range words {
			if _, ok := set[strings.Trim(w, ".,!?;:\"'()")]; ok {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = lang, hits
		}
	}

	// Require at least a few marker hits before committing to a guess.
	if bestHits < 2 {
		return "unknown"
	}
	return best
}
