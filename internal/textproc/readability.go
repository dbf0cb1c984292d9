package textproc

import "strings"

// FleschReadingEase computes the classic readability score; higher is easier.
func FleschReadingEase(text string) float64 {
	words, sentences, syllables := textCounts(text)
	if words == 0 || sentences == 0 {
		return 0
	}
	return 206.835 - 1.015*(float64(words)/float64(sentences)) - 84.6*(float64(syllables)/float64(words))
}

// FleschKincaidGrade maps the same counts onto a US school grade level.
func FleschKincaidGrade(text string) float64 {
	words, sentences, syllables := textCounts(text)
	if words == 0 || sentences == 0 {
		return 0
	}
	return 0.39*(float64(words)/float64(sentences)) + 11.8*(float64(syllables)/float64(words)) - 15.59
}

func textCounts(text string) (words, sentences, syllables int) {
	fields := strings.Fields(text)
	words = len(fields)
	sentences = len(SplitSentences(text))
	for _, w := range fields {
		syllables += countSyllables(w)
	}
	return words, sentences, syllables
}

// countSyllables approximates by counting vowel groups, discounting a
// trailing silent e. Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
