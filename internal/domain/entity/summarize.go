package entity

import (
	"strings"
	"unicode/utf8"
)

// SummarizeRequest is a caller's input for one summary.
type SummarizeRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	LengthHint int    `json:"length_hint"`
	Language   string `json:"language"`
	Style      string `json:"style"`
}

// Validate checks the declared field constraints and fills defaults.
func (r *SummarizeRequest) Validate() error {
	if r.LengthHint == 0 {
		r.LengthHint = 120
	}
	if r.Language == "" {
		r.Language = "en"
	}
	if r.Style == "" {
		r.Style = "news"
	}

	titleLen := utf8.RuneCountInString(r.Title)
	if titleLen < 1 {
		return invalidf("title", "must not be empty")
	}
	if titleLen > 200 {
		return invalidf("title", "must be at most 200 characters, got %d", titleLen)
	}

	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 100 {
		return invalidf("content", "must be at least 100 characters, got %d", contentLen)
	}
	if contentLen > 10000 {
		return invalidf("content", "must be at most 10000 characters, got %d", contentLen)
	}
	if words := len(strings.Fields(r.Content)); words < 20 {
		return invalidf("content", "must have at least 20 words, got %d", words)
	}

	if r.LengthHint < 30 || r.LengthHint > 300 {
		return invalidf("length_hint", "must be between 30 and 300, got %d", r.LengthHint)
	}
	if utf8.RuneCountInString(r.Language) != 2 {
		return invalidf("language", "must be a 2-letter ISO 639-1 code")
	}
	return nil
}

// BatchSummarizeRequest carries up to 10 articles.
type BatchSummarizeRequest struct {
	Articles []SummarizeRequest `json:"articles"`
}

func (r *BatchSummarizeRequest) Validate() error {
	if len(r.Articles) == 0 {
		return invalidf("articles", "must not be empty")
	}
	if len(r.Articles) > 10 {
		return invalidf("articles", "maximum 10 articles per batch, got %d", len(r.Articles))
	}
	return nil
}

// SummaryPrompt is the capability provider's view of a summarize call:
// normalized content plus the generation bounds derived from the request.
type SummaryPrompt struct {
	Title       string
	Content     string
	TargetWords int
	MaxWords    int
	MinWords    int
	Style       string
	Language    string
}

// ReadingLevel carries the Flesch readability metrics for a summary.
type ReadingLevel struct {
	FleschEase    float64 `json:"flesch_ease"`
	FleschKincaid float64 `json:"flesch_kincaid"`
}

// SummarizeResponse is the structured reply for one article.
type SummarizeResponse struct {
	Summary          string                 `json:"summary"`
	Length           int                    `json:"length"`
	ReadingLevel     ReadingLevel           `json:"reading_level"`
	QualityScore     float64                `json:"quality_score"`
	ProcessingTime   float64                `json:"processing_time"`
	ModelUsed        string                 `json:"model_used"`
	LanguageDetected string                 `json:"language_detected"`
	KeyPoints        []string               `json:"key_points"`
	Metadata         map[string]interface{} `json:"metadata"`
}
