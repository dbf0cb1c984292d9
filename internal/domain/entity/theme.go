package entity

// Theme holds the visual settings for one video template. Themes ship with
// built-in defaults and may be overlaid from JSON files in the templates
// directory.
type Theme struct {
	Name          string `json:"name"`
	Background    string `json:"background_color"`
	TitleSize     int    `json:"title_size"`
	TitleColor    string `json:"title_color"`
	SubtitleSize  int    `json:"subtitle_size"`
	SubtitleColor string `json:"subtitle_color"`
	AccentColor   string `json:"accent_color"`
}
