package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityScoreBounds(t *testing.T) {
	pairs := [][2]string{
		{"the quick brown fox jumps over the lazy dog", "quick fox jumps"},
		{wordsSentence(200), "a completely unrelated set of tokens entirely"},
		{"short original", strings.Repeat("very long summary ", 50)},
		{"one", "one"},
	}
	for _, p := range pairs {
		score := QualityScore(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestQualityScoreIdenticalTextMaximalOverlap(t *testing.T) {
	text := "The central bank raised interest rates again this quarter amid inflation concerns."

	origTokens := tokenize(text)
	assert.InDelta(t, 1.0, unigramF1(origTokens, origTokens), 1e-9)
	assert.InDelta(t, 1.0, lcsF1(origTokens, origTokens), 1e-9)

	// Identical text has ratio 1.0, so the length penalty clamps to 0 and the
	// overall score is exactly the rouge weight.
	assert.InDelta(t, 0.7, QualityScore(text, text), 1e-9)
}

func TestQualityScoreDegenerateInputsNeutral(t *testing.T) {
	assert.InDelta(t, neutralQuality, QualityScore("", "summary"), 1e-9)
	assert.InDelta(t, neutralQuality, QualityScore("original", ""), 1e-9)
	assert.InDelta(t, neutralQuality, QualityScore("...", "!!!"), 1e-9)
}

func TestQualityScoreFavorsTenPercentSummaries(t *testing.T) {
	original := wordsSentence(200)
	// Disjoint tokens keep the rouge blend at zero for both summaries, so
	// only the length penalty differs.
	near := strings.Repeat("alpha ", 20)  // 10% of the original
	far := strings.Repeat("alpha ", 190) // nearly as long as the original

	assert.Greater(t, QualityScore(original, near), QualityScore(original, far))
}

func TestReadabilityFinite(t *testing.T) {
	text := "The committee approved the measure. Several members abstained from the vote."
	ease := FleschReadingEase(text)
	grade := FleschKincaidGrade(text)
	assert.NotZero(t, ease)
	assert.NotZero(t, grade)

	assert.Zero(t, FleschReadingEase(""))
	assert.Zero(t, FleschKincaidGrade(""))
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"english", "the committee and the board agreed that the plan is ready for the vote", "en"},
		{"spanish", "el gobierno anunció que los precios de la energía subirán por el conflicto", "es"},
		{"too short", "ok", "unknown"},
		{"no markers", "zzz qqq www rrr ttt yyy uuu", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.in))
		})
	}
}
