package entity

import (
	"strings"
	"unicode/utf8"
)

// TTSRequest is a caller's input for one speech artifact.
type TTSRequest struct {
	Text       string  `json:"text"`
	VoiceID    string  `json:"voice_id"`
	Speed      float64 `json:"speed"`
	Pitch      float64 `json:"pitch"`
	Volume     float64 `json:"volume"`
	SampleRate int     `json:"sample_rate"`
	Format     string  `json:"format"`
	Language   string  `json:"language"`
	Emotion    string  `json:"emotion"`
}

// Validate checks the declared field constraints and fills defaults.
func (r *TTSRequest) Validate() error {
	if r.VoiceID == "" {
		r.VoiceID = "default"
	}
	if r.Speed == 0 {
		r.Speed = 1.0
	}
	if r.Pitch == 0 {
		r.Pitch = 1.0
	}
	if r.Volume == 0 {
		r.Volume = 1.0
	}
	if r.SampleRate == 0 {
		r.SampleRate = 22050
	}
	if r.Format == "" {
		r.Format = "wav"
	}
	if r.Language == "" {
		r.Language = "en"
	}
	if r.Emotion == "" {
		r.Emotion = "neutral"
	}

	textLen := utf8.RuneCountInString(r.Text)
	if textLen < 1 || strings.TrimSpace(r.Text) == "" {
		return invalidf("text", "must not be empty")
	}
	if textLen > 1000 {
		return invalidf("text", "must be at most 1000 characters, got %d", textLen)
	}
	if r.Speed < 0.5 || r.Speed > 2.0 {
		return invalidf("speed", "must be between 0.5 and 2.0, got %g", r.Speed)
	}
	if r.Pitch < 0.5 || r.Pitch > 2.0 {
		return invalidf("pitch", "must be between 0.5 and 2.0, got %g", r.Pitch)
	}
	if r.Volume < 0.1 || r.Volume > 2.0 {
		return invalidf("volume", "must be between 0.1 and 2.0, got %g", r.Volume)
	}
	if r.SampleRate < 8000 || r.SampleRate > 48000 {
		return invalidf("sample_rate", "must be between 8000 and 48000, got %d", r.SampleRate)
	}
	if r.Format != "wav" && r.Format != "mp3" {
		return invalidf("format", "must be wav or mp3")
	}
	return nil
}

// BatchTTSRequest converts up to 5 texts with shared voice settings.
type BatchTTSRequest struct {
	Texts   []string `json:"texts"`
	VoiceID string   `json:"voice_id"`
	Speed   float64  `json:"speed"`
}

func (r *BatchTTSRequest) Validate() error {
	if len(r.Texts) == 0 {
		return invalidf("texts", "must not be empty")
	}
	if len(r.Texts) > 5 {
		return invalidf("texts", "maximum 5 texts per batch, got %d", len(r.Texts))
	}
	return nil
}

// TTSResponse is the structured reply for one speech artifact.
type TTSResponse struct {
	AudioURL       string                 `json:"audio_url"`
	Duration       float64                `json:"duration"`
	SampleRate     int                    `json:"sample_rate"`
	Format         string                 `json:"format"`
	FileSize       int64                  `json:"file_size"`
	ProcessingTime float64                `json:"processing_time"`
	VoiceUsed      string                 `json:"voice_used"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// Voice describes one entry of the voice catalog.
type Voice struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	SampleRate  int    `json:"sample_rate"`
}

// AudioOptions drive the ffmpeg post-processing pass over raw engine output.
type AudioOptions struct {
	Speed      float64
	Volume     float64
	SampleRate int
	Format     string
	Normalize  bool
}
