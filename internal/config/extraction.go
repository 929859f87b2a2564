package config

import (
	"os"
	"sync"
	"time"
)

// ExtractionConfig describes the resume-parsing vendor and the poll budget
// used while waiting for a batch to finish.
type ExtractionConfig struct {
	BaseURL        string
	APIKey         string
	ExtractionID   string
	ConnectTimeout time.Duration
	UploadTimeout  time.Duration
	RequestTimeout time.Duration

	PollDelay       time.Duration
	PollMultiplier  float64
	PollMaxDelay    time.Duration
	PollMaxAttempts int

	RawPayloadWarnBytes int
}

var (
	extractionConfig *ExtractionConfig
	extractionOnce   sync.Once
)

func LoadExtractionConfig() *ExtractionConfig {
	extractionOnce.Do(func() {
		extractionConfig = &ExtractionConfig{
			BaseURL:             getEnv("EXTRACTION_BASE_URL", "https://api.extracta.ai/api/v1"),
			APIKey:              os.Getenv("EXTRACTION_API_KEY"),
			ExtractionID:        os.Getenv("EXTRACTION_TEMPLATE_ID"),
			ConnectTimeout:      getEnvAsDuration("EXTRACTION_CONNECT_TIMEOUT", 10*time.Second),
			UploadTimeout:       getEnvAsDuration("EXTRACTION_UPLOAD_TIMEOUT", 60*time.Second),
			RequestTimeout:      getEnvAsDuration("EXTRACTION_REQUEST_TIMEOUT", 30*time.Second),
			PollDelay:           getEnvAsDuration("EXTRACTION_POLL_DELAY", 5*time.Second),
			PollMultiplier:      getEnvAsFloat("EXTRACTION_POLL_MULTIPLIER", 1),
			PollMaxDelay:        getEnvAsDuration("EXTRACTION_POLL_MAX_DELAY", 15*time.Second),
			PollMaxAttempts:     getEnvAsInt("EXTRACTION_POLL_MAX_ATTEMPTS", 12),
			RawPayloadWarnBytes: getEnvAsInt("EXTRACTION_RAW_WARN_BYTES", 1<<20),
		}
	})
	return extractionConfig
}
