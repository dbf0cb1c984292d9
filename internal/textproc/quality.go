package textproc

import (
	"math"
	"strings"
	"unicode"
)

// neutralQuality is returned whenever the overlap computation cannot run;
// the quality score is advisory metadata, never a gate.
const neutralQuality = 0.5

// QualityScore rates a summary against its source in [0,1]:
// 0.7 * rouge blend + 0.3 * length penalty. The rouge blend averages the
// unigram and longest-common-subsequence F1 between summary and original;
// the penalty is clamp(1 - 2*|ratio - 0.1|, 0, 1), targeting summaries around
// 10% of the original word count.
func QualityScore(original, summary string) float64 {
	origTokens := tokenize(original)
	sumTokens := tokenize(summary)
	if len(origTokens) == 0 || len(sumTokens) == 0 {
		return neutralQuality
	}

	rouge := (unigramF1(origTokens, sumTokens) + lcsF1(origTokens, sumTokens)) / 2

	ratio := float64(len(strings.Fields(summary))) / float64(len(strings.Fields(original)))
	penalty := clamp01(1.0 - math.Abs(ratio-0.1)*2)

	return clamp01(rouge*0.7 + penalty*0.3)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// unigramF1 computes the clipped unigram overlap F-measure.
func unigramF1(reference, candidate []string) float64 {
	refCounts := make(map[string]int, len(reference))
	for _, tok := range reference {
		refCounts[tok]++
	}

	overlap := 0
	for _, tok := range candidate {
		if refCounts[tok] > 0 {
			refCounts[tok]--
			overlap++
		}
	}

	return f1(overlap, len(candidate), len(reference))
}

// lcsF1 computes the F-measure over the longest common token subsequence.
func lcsF1(reference, candidate []string) float64 {
	prev := make([]int, len(candidate)+1)
	curr := make([]int, len(candidate)+1)
	for i := 1; i <= len(reference); i++ {
		for j := 1; j <= len(candidate); j++ {
			if reference[i-1] == candidate[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return f1(prev[len(candidate)], len(candidate), len(reference))
}

func f1(overlap, candidateLen, referenceLen int) float64 {
	if overlap == 0 || candidateLen == 0 || referenceLen == 0 {
		return 0
	}
	precision := float64(overlap) / float64(candidateLen)
	recall := float64(overlap) / float64(referenceLen)
	return 2 * precision * recall / (precision + recall)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
