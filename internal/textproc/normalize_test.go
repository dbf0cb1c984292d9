package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses whitespace",
			in:   "breaking   news\t\ttoday\n\nmore",
			want: "breaking news today more",
		},
		{
			name: "strips urls",
			in:   "read more at https://example.com/article?id=1 for details",
			want: "read more at for details",
		},
		{
			name: "strips control characters",
			in:   "hello\x00world\x07again",
			want: "hello world again",
		},
		{
			name: "keeps punctuation",
			in:   `He said: "wait, what?!" (twice) - then left.`,
			want: `He said: "wait, what?!" (twice) - then left.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"  padded\t text with\nnewlines  ",
		"urls https://a.b/c mixed in",
		"symbols ∆≈ç√ and words",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestNormalizeSpeech(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "expands abbreviations",
			in:   "Meet Dr. Smith and Mr. Jones",
			want: "Meet Doctor Smith and Mister Jones",
		},
		{
			name: "spaces after punctuation",
			in:   "First.Second,third",
			want: "First. Second, third",
		},
		{
			name: "collapses whitespace",
			in:   "hello    world",
			want: "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSpeech(tt.in))
		})
	}
}
