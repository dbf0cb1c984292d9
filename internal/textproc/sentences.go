package textproc

import (
	"sort"
	"strings"

	"newsreel/internal/domain/entity"
)

const (
	positionWeight = 0.7
	lengthWeight   = 0.3
	// Sentences shorter than this many words carry too little signal to rank.
	minScoredWords = 5
	// Sentences around this many words are favored by the length score.
	optimalWords = 20
)

// SplitSentences breaks text on terminal punctuation. Good enough for news
// copy; abbreviation-aware tokenization is not worth the dependency here.
func SplitSentences(text string) []string {
	replacer := strings.NewReplacer("!", ".", "?", ".")
	var sentences []string
	for _, part := range strings.Split(replacer.Replace(text), ".") {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// ScoredSentence pairs a sentence with its heuristic score.
type ScoredSentence struct {
	Sentence string
	Score    float64
}

// ScoreSentences ranks sentences by 0.7*position + 0.3*length. Earlier
// sentences score higher (news articles front-load the lede); sentences near
// 20 words score higher, capped at 1.0. Sentences under 5 words are excluded
// entirely. The result is ordered best-first.
func ScoreSentences(text string) []ScoredSentence {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var scored []ScoredSentence
	for i, sentence := range sentences {
		words := len(strings.Fields(sentence))
		if words < minScoredWords {
			continue
		}
		positionScore := 1.0 - (float64(i)/float64(len(sentences)))*0.3
		lengthScore := float64(words) / optimalWords
		if lengthScore > 1.0 {
			lengthScore = 1.0
		}
		scored = append(scored, ScoredSentence{
			Sentence: sentence,
			Score:    positionScore*positionWeight + lengthScore*lengthWeight,
		})
	}

	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })
	return scored
}

// KeyPoints returns the top-n sentences in score order. An empty result is
// fine; key points are cosmetic, not critical path.
func KeyPoints(text string, n int) []string {
	scored := ScoreSentences(text)
	points := make([]string, 0, n)
	for _, s := range scored {
		if len(points) == n {
			break
		}
		points = append(points, s.Sentence)
	}
	return points
}

// SliceSubtitles time-slices sentences evenly across the audio duration in
// original document order. Sentences of 3 characters or fewer are dropped but
// still occupy their time slot, matching the upstream numbering.
func SliceSubtitles(text string, duration float64) []entity.SubtitleSegment {
	sentences := SplitSentences(text)
	if len(sentences) == 0 || duration <= 0 {
		return nil
	}

	slot := duration / float64(len(sentences))
	var segments []entity.SubtitleSegment
	for i, sentence := range sentences {
		if len(sentence) <= 3 {
			continue
		}
		end := float64(i+1) * slot
		if end > duration {
			end = duration
		}
		segments = append(segments, entity.SubtitleSegment{
			Index: i + 1,
			Text:  sentence,
			Start: float64(i) * slot,
			End:   end,
		})
	}
	return segments
}
