// Package textproc holds the text heuristics shared by the services:
// input normalization, sentence scoring, subtitle slicing, summary quality
// scoring, readability metrics and a small language guesser.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reURL   = regexp.MustCompile(`https?://\S+`)
	reJunk  = regexp.MustCompile(`[^\w\s.,!?;:\-()"']+`)
	reSpace = regexp.MustCompile(`\s+`)
)

// Normalize cleans text before it is hashed or passed downstream: URLs and
// control characters stripped, special characters removed (punctuation kept),
// whitespace collapsed. Normalize is idempotent, so requests differing only
// in incidental whitespace share a cache entry.
func Normalize(text string) string {
	text = reURL.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
	text = reJunk.ReplaceAllString(text, "")
	return strings.TrimSpace(reSpace.ReplaceAllString(text, " "))
}

// speechExpansions spell out abbreviations the synthesis engines mispronounce.
var speechExpansions = [][2]string{
	{" Dr.", " Doctor"},
	{" Mr.", " Mister"},
	{" Mrs.", " Missus"},
	{" Ms.", " Miss"},
	{" vs.", " versus"},
	{" etc.", " etcetera"},
	{" i.e.", " that is"},
	{" e.g.", " for example"},
}

var rePausePunct = regexp.MustCompile(`([.,;:!?])(\S)`)

// NormalizeSpeech prepares text for synthesis: whitespace collapsed,
// abbreviations expanded, a breathing space enforced after pause punctuation.
func NormalizeSpeech(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	for _, pair := range speechExpansions {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}
	text = rePausePunct.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}
