package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	WebDir         string
	MaxUploadMB    int
	MaxMessageLen  int

	AIAPIKey          string
	GenModel          string
	CompletionTimeout time.Duration
	MaxPromptChars    int

	StagingBackend string // local | s3
	UploadDir      string
	AwsAccessKey   string
	AwsSecretKey   string
	AwsRegion      string
	BucketName     string

	FastExtractor   string // docconv | pdf
	OCRLanguages    []string
	OCRDPI          int
	OCRMaxPages     int
	OCRConcurrency  int
	OCRTriggerChars int
	MinContentChars int
	ExtractTimeout  time.Duration

	StreamDelay time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "3001"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		WebDir:         getEnv("WEB_DIR", "./web"),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 32),
		MaxMessageLen:  getEnvInt("MAX_MESSAGE_CHARS", 20000),

		AIAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GenModel:          getEnv("GEN_MODEL", "gemini-1.5-flash"),
		CompletionTimeout: getEnvDuration("COMPLETION_TIMEOUT", 90*time.Second),
		MaxPromptChars:    getEnvInt("MAX_PROMPT_CHARS", 8000),

		StagingBackend: getEnv("STAGING_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		AwsAccessKey:   getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:   getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:      getEnv("AWS_REGION", "us-east-2"),
		BucketName:     getEnv("BUCKET_NAME", "contexta-uploads"),

		FastExtractor:   getEnv("FAST_EXTRACTOR", "docconv"),
		OCRLanguages:    getEnvList("OCR_LANGUAGES", []string{"eng"}),
		OCRDPI:          getEnvInt("OCR_DPI", 150),
		OCRMaxPages:     getEnvInt("OCR_MAX_PAGES", 5),
		OCRConcurrency:  getEnvInt("OCR_CONCURRENCY", 2),
		OCRTriggerChars: getEnvInt("OCR_TRIGGER_CHARS", 20),
		MinContentChars: getEnvInt("MIN_CONTENT_CHARS", 10),
		ExtractTimeout:  getEnvDuration("EXTRACT_TIMEOUT", 2*time.Minute),

		StreamDelay: getEnvDuration("STREAM_DELAY", 80*time.Millisecond),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile:   getEnv("LOG_FILE", ""),
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if c.AIAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY not set")
	}
	switch c.StagingBackend {
	case "local":
	case "s3":
		if c.AwsAccessKey == "" || c.AwsSecretKey == "" {
			return fmt.Errorf("STAGING_BACKEND=s3 requires AWS_ACCESS_KEY and AWS_SECRET_KEY")
		}
		if c.BucketName == "" {
			return fmt.Errorf("STAGING_BACKEND=s3 requires BUCKET_NAME")
		}
	default:
		return fmt.Errorf("unknown STAGING_BACKEND %q", c.StagingBackend)
	}
	switch c.FastExtractor {
	case "docconv", "pdf":
	default:
		return fmt.Errorf("unknown FAST_EXTRACTOR %q", c.FastExtractor)
	}
	if c.MaxPromptChars <= 0 {
		return fmt.Errorf("MAX_PROMPT_CHARS must be positive")
	}
	if c.MinContentChars > c.OCRTriggerChars {
		return fmt.Errorf("MIN_CONTENT_CHARS (%d) must not exceed OCR_TRIGGER_CHARS (%d)", c.MinContentChars, c.OCRTriggerChars)
	}
	return nil
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}

// getEnvList splits on commas or '+', so OCR_LANGUAGES=ara+eng works too.
func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '+' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
