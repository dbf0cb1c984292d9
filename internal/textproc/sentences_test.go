package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordsSentence(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return strings.Join(words, " ")
}

func TestScoreSentencesExcludesShortAndFavorsEarly(t *testing.T) {
	first := wordsSentence(20)
	second := wordsSentence(3)
	third := wordsSentence(20)
	text := first + ". " + second + ". " + third + "."

	scored := ScoreSentences(text)
	require.Len(t, scored, 2, "the 3-word sentence must be excluded")

	assert.Equal(t, first, scored[0].Sentence)
	assert.Equal(t, third, scored[1].Sentence)
	assert.Greater(t, scored[0].Score, scored[1].Score,
		"equal length scores, so the earlier sentence must rank higher")
}

func TestScoreSentencesEmptyWhenAllShort(t *testing.T) {
	assert.Empty(t, ScoreSentences("Too short. Also short. Tiny."))
	assert.Empty(t, KeyPoints("Too short. Also short. Tiny.", 3))
}

func TestKeyPointsLimit(t *testing.T) {
	var parts []string
	for i := 0; i < 6; i++ {
		parts = append(parts, wordsSentence(12))
	}
	points := KeyPoints(strings.Join(parts, ". ")+".", 3)
	assert.Len(t, points, 3)
}

func TestSliceSubtitles(t *testing.T) {
	text := "This is the first full sentence! Hm. And here comes the second full sentence?"
	segments := SliceSubtitles(text, 9)

	// Three slots of 3s each; the 2-char sentence is dropped but keeps its slot.
	require.Len(t, segments, 2)

	assert.Equal(t, 1, segments[0].Index)
	assert.InDelta(t, 0.0, segments[0].Start, 1e-9)
	assert.InDelta(t, 3.0, segments[0].End, 1e-9)

	assert.Equal(t, 3, segments[1].Index)
	assert.InDelta(t, 6.0, segments[1].Start, 1e-9)
	assert.InDelta(t, 9.0, segments[1].End, 1e-9)
}

func TestSliceSubtitlesEmpty(t *testing.T) {
	assert.Nil(t, SliceSubtitles("", 10))
	assert.Nil(t, SliceSubtitles("something here", 0))
}

func TestFormatSRT(t *testing.T) {
	segments := SliceSubtitles("A proper first sentence here. Another proper sentence follows.", 10)
	srt := FormatSRT(segments)

	assert.Contains(t, srt, "1\n00:00:00,000 --> 00:00:05,000\nA proper first sentence here\n")
	assert.Contains(t, srt, "2\n00:00:05,000 --> 00:00:10,000\nAnother proper sentence follows\n")
}
