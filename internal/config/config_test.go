package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSummarizerDefaults(t *testing.T) {
	cfg, err := LoadSummarizer()
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.PrimaryModel)
	assert.Equal(t, "gemini-1.5-flash", cfg.FallbackModel)
	assert.Equal(t, 150, cfg.MaxSummaryLength)
	assert.Equal(t, 30, cfg.MinSummaryLength)
	assert.Empty(t, cfg.QdrantHost, "semantic cache is off by default")
	assert.Empty(t, cfg.RedisAddr, "limiter is off by default")
}

func TestLoadSummarizerOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SUMMARIZER_MODEL", "gemini-2.5-pro")
	t.Setenv("MAX_SUMMARY_LENGTH", "200")

	cfg, err := LoadSummarizer()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.PrimaryModel)
	assert.Equal(t, 200, cfg.MaxSummaryLength)
}

func TestLoadSummarizerInvalidBounds(t *testing.T) {
	t.Setenv("MIN_SUMMARY_LENGTH", "150")
	t.Setenv("MAX_SUMMARY_LENGTH", "100")

	_, err := LoadSummarizer()
	assert.Error(t, err)
}

func TestLoadSpeechDefaults(t *testing.T) {
	cfg, err := LoadSpeech()
	require.NoError(t, err)

	assert.Equal(t, "8002", cfg.Port)
	assert.Equal(t, "piper", cfg.PiperBin)
	assert.Equal(t, "espeak-ng", cfg.EspeakBin)
	assert.Equal(t, 22050, cfg.SampleRate)
	assert.True(t, cfg.Postprocess)
}

func TestLoadSpeechInvalidFormat(t *testing.T) {
	t.Setenv("AUDIO_FORMAT", "ogg")
	_, err := LoadSpeech()
	assert.Error(t, err)
}

func TestLoadVideoDefaults(t *testing.T) {
	cfg, err := LoadVideo()
	require.NoError(t, err)

	assert.Equal(t, "8003", cfg.Port)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 1080, cfg.Height)
	assert.Equal(t, "libx264", cfg.Encoder)
	assert.Equal(t, "modern", cfg.DefaultTheme)
}

func TestLoadVideoInvalidFPS(t *testing.T) {
	t.Setenv("VIDEO_FPS", "-1")
	_, err := LoadVideo()
	assert.Error(t, err)
}

func TestGetintIgnoresGarbage(t *testing.T) {
	t.Setenv("SAMPLE_RATE", "not-a-number")
	cfg, err := LoadSpeech()
	require.NoError(t, err)
	assert.Equal(t, 22050, cfg.SampleRate)
}
