// Package config reads each service's configuration from environment
// variables. There is no config file format; mains call godotenv beforehand
// so local .env files feed the same variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Common holds the fields every service shares.
type Common struct {
	Port     string
	Secret   string
	CacheDir string
	LogLevel string
	Device   string

	// Optional per-caller daily character budget, enforced via Redis when
	// RedisAddr is set.
	RedisAddr  string
	CharBudget int
}

// Summarizer configures the summarization service.
type Summarizer struct {
	Common
	PrimaryModel     string
	FallbackModel    string
	EmbeddingModel   string
	GeminiAPIKey     string
	MaxSummaryLength int
	MinSummaryLength int

	// Optional semantic cache, enabled when QdrantHost is set.
	QdrantHost        string
	QdrantPort        int
	QdrantCollection  string
	SemanticThreshold float64
}

// Speech configures the text-to-speech service.
type Speech struct {
	Common
	PiperBin      string
	VoicesDir     string
	DefaultVoice  string
	EspeakBin     string
	EspeakVoice   string
	FFmpegBin     string
	FFprobeBin    string
	SampleRate    int
	MaxTextLength int
	AudioFormat   string
	Postprocess   bool
}

// Video configures the video assembly service.
type Video struct {
	Common
	Width          int
	Height         int
	FPS            int
	Encoder        string
	AudioCodec     string
	Preset         string
	FFmpegBin      string
	FFprobeBin     string
	FontFile       string
	TemplatesDir   string
	DefaultTheme   string
	MaxVideoLength int
}

func loadCommon(defaultPort string) Common {
	return Common{
		Port:       getenv("PORT", defaultPort),
		Secret:     getenv("INTERNAL_SERVICE_SECRET", "dev-secret"),
		CacheDir:   getenv("CACHE_DIR", "./cache"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		Device:     getenv("DEVICE", "cpu"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		CharBudget: getint("DAILY_CHAR_BUDGET", 1000000),
	}
}

// LoadSummarizer reads the summarizer service configuration.
func LoadSummarizer() (*Summarizer, error) {
	cfg := &Summarizer{
		Common:            loadCommon("8001"),
		PrimaryModel:      getenv("SUMMARIZER_MODEL", "gemini-2.5-flash"),
		FallbackModel:     getenv("FALLBACK_MODEL", "gemini-1.5-flash"),
		EmbeddingModel:    getenv("EMBEDDING_MODEL", "text-embedding-004"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		MaxSummaryLength:  getint("MAX_SUMMARY_LENGTH", 150),
		MinSummaryLength:  getint("MIN_SUMMARY_LENGTH", 30),
		QdrantHost:        os.Getenv("QDRANT_HOST"),
		QdrantPort:        getint("QDRANT_PORT", 6334),
		QdrantCollection:  getenv("QDRANT_COLLECTION", "summaries"),
		SemanticThreshold: getfloat("SEMANTIC_THRESHOLD", 0.92),
	}
	return cfg, cfg.Validate()
}

func (c *Summarizer) Validate() error {
	if c.PrimaryModel == "" {
		return fmt.Errorf("SUMMARIZER_MODEL is required")
	}
	if c.FallbackModel == "" {
		return fmt.Errorf("FALLBACK_MODEL is required")
	}
	if c.MinSummaryLength <= 0 || c.MaxSummaryLength <= c.MinSummaryLength {
		return fmt.Errorf("summary length bounds invalid: min=%d max=%d", c.MinSummaryLength, c.MaxSummaryLength)
	}
	return validateCommon(&c.Common)
}

// LoadSpeech reads the TTS service configuration.
func LoadSpeech() (*Speech, error) {
	cfg := &Speech{
		Common:        loadCommon("8002"),
		PiperBin:      getenv("PIPER_BIN", "piper"),
		VoicesDir:     getenv("VOICES_DIR", "./voices"),
		DefaultVoice:  getenv("DEFAULT_VOICE", "en_US-lessac-medium"),
		EspeakBin:     getenv("ESPEAK_BIN", "espeak-ng"),
		EspeakVoice:   getenv("ESPEAK_VOICE", "en-us"),
		FFmpegBin:     getenv("FFMPEG_BIN", "ffmpeg"),
		FFprobeBin:    getenv("FFPROBE_BIN", "ffprobe"),
		SampleRate:    getint("SAMPLE_RATE", 22050),
		MaxTextLength: getint("MAX_TEXT_LENGTH", 1000),
		AudioFormat:   getenv("AUDIO_FORMAT", "wav"),
		Postprocess:   getbool("ENABLE_POSTPROCESSING", true),
	}
	return cfg, cfg.Validate()
}

func (c *Speech) Validate() error {
	if c.SampleRate < 8000 || c.SampleRate > 48000 {
		return fmt.Errorf("SAMPLE_RATE must be between 8000 and 48000, got %d", c.SampleRate)
	}
	if c.AudioFormat != "wav" && c.AudioFormat != "mp3" {
		return fmt.Errorf("AUDIO_FORMAT must be wav or mp3, got %q", c.AudioFormat)
	}
	return validateCommon(&c.Common)
}

// LoadVideo reads the video service configuration.
func LoadVideo() (*Video, error) {
	cfg := &Video{
		Common:         loadCommon("8003"),
		Width:          getint("VIDEO_WIDTH", 1920),
		Height:         getint("VIDEO_HEIGHT", 1080),
		FPS:            getint("VIDEO_FPS", 30),
		Encoder:        getenv("VIDEO_CODEC", "libx264"),
		AudioCodec:     getenv("AUDIO_CODEC", "aac"),
		Preset:         getenv("VIDEO_PRESET", "medium"),
		FFmpegBin:      getenv("FFMPEG_BIN", "ffmpeg"),
		FFprobeBin:     getenv("FFPROBE_BIN", "ffprobe"),
		FontFile:       getenv("FONT_FILE", "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"),
		TemplatesDir:   getenv("TEMPLATES_DIR", "./templates"),
		DefaultTheme:   getenv("DEFAULT_THEME", "modern"),
		MaxVideoLength: getint("MAX_VIDEO_LENGTH", 300),
	}
	return cfg, cfg.Validate()
}

func (c *Video) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("video dimensions invalid: %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("VIDEO_FPS must be positive, got %d", c.FPS)
	}
	if c.Encoder == "" {
		return fmt.Errorf("VIDEO_CODEC is required")
	}
	return validateCommon(&c.Common)
}

func validateCommon(c *Common) error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Secret == "" {
		return fmt.Errorf("INTERNAL_SERVICE_SECRET is required")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("CACHE_DIR is required")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getfloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getbool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
