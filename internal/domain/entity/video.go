package entity

import (
	"strings"
	"unicode/utf8"
)

// RenderRequest is a caller's input for one assembled news video.
type RenderRequest struct {
	SummaryText     string            `json:"summary_text"`
	AudioURL        string            `json:"audio_url"`
	Title           string            `json:"title"`
	Theme           string            `json:"theme"`
	Duration        float64           `json:"duration"`
	Images          []string          `json:"images"`
	BackgroundMusic string            `json:"background_music"`
	LogoURL         string            `json:"logo_url"`
	BrandColors     map[string]string `json:"brand_colors"`
	SubtitleStyle   string            `json:"subtitle_style"`
}

// Validate checks the declared field constraints and fills defaults.
func (r *RenderRequest) Validate() error {
	if r.Theme == "" {
		r.Theme = "modern"
	}
	if r.SubtitleStyle == "" {
		r.SubtitleStyle = "default"
	}
	r.SummaryText = strings.TrimSpace(r.SummaryText)

	summaryLen := utf8.RuneCountInString(r.SummaryText)
	if summaryLen < 10 {
		return invalidf("summary_text", "must be at least 10 characters, got %d", summaryLen)
	}
	if summaryLen > 2000 {
		return invalidf("summary_text", "must be at most 2000 characters, got %d", summaryLen)
	}

	if r.AudioURL == "" {
		return invalidf("audio_url", "must not be empty")
	}

	titleLen := utf8.RuneCountInString(r.Title)
	if titleLen < 5 {
		return invalidf("title", "must be at least 5 characters, got %d", titleLen)
	}
	if titleLen > 100 {
		return invalidf("title", "must be at most 100 characters, got %d", titleLen)
	}

	if r.Duration != 0 && (r.Duration < 5 || r.Duration > 300) {
		return invalidf("duration", "must be between 5 and 300 seconds, got %g", r.Duration)
	}

	if len(r.Images) > 5 {
		r.Images = r.Images[:5]
	}
	return nil
}

// ThumbnailRequest is a caller's input for one standalone thumbnail.
type ThumbnailRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"image_url"`
	Theme    string `json:"theme"`
	Layout   string `json:"layout"`
}

func (r *ThumbnailRequest) Validate() error {
	if r.Theme == "" {
		r.Theme = "modern"
	}
	if r.Layout == "" {
		r.Layout = "default"
	}

	titleLen := utf8.RuneCountInString(r.Title)
	if titleLen < 5 {
		return invalidf("title", "must be at least 5 characters, got %d", titleLen)
	}
	if titleLen > 100 {
		return invalidf("title", "must be at most 100 characters, got %d", titleLen)
	}
	if utf8.RuneCountInString(r.Subtitle) > 200 {
		return invalidf("subtitle", "must be at most 200 characters")
	}
	return nil
}

// RenderResponse is the structured reply for one rendered video.
type RenderResponse struct {
	VideoURL       string                 `json:"video_url"`
	ThumbnailURL   string                 `json:"thumbnail_url"`
	SubtitleURL    string                 `json:"subtitle_url,omitempty"`
	Duration       float64                `json:"duration"`
	Resolution     string                 `json:"resolution"`
	FileSize       int64                  `json:"file_size"`
	ProcessingTime float64                `json:"processing_time"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// ThumbnailResponse is the structured reply for one thumbnail.
type ThumbnailResponse struct {
	ThumbnailURL   string         `json:"thumbnail_url"`
	Dimensions     map[string]int `json:"dimensions"`
	FileSize       int64          `json:"file_size"`
	Format         string         `json:"format"`
	ProcessingTime float64        `json:"processing_time"`
}

// SubtitleSegment is one evenly time-sliced sentence of the summary.
type SubtitleSegment struct {
	Index int
	Text  string
	Start float64
	End   float64
}

// RenderPlan is everything the composer needs to assemble one video:
// downloaded local assets, timing, theme, and output paths inside the cache.
type RenderPlan struct {
	Title         string
	Theme         Theme
	AudioPath     string
	ImagePaths    []string
	Subtitles     []SubtitleSegment
	Duration      float64
	VideoPath     string
	ThumbnailPath string
	SubtitlePath  string
}

// ThumbnailCard describes a standalone thumbnail composition.
type ThumbnailCard struct {
	Title     string
	Subtitle  string
	ImagePath string
	Theme     Theme
	Width     int
	Height    int
}
