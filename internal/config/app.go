package config

import (
	"log"
	"os"
	"sync"
	"time"
)

type AppConfig struct {
	Name           string
	Env            string
	Port           string
	BaseURL        string
	UploadDir      string
	MaxUploadBytes int64
	MaxPDFPages    int
	SessionTTL     time.Duration
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		appConfig = &AppConfig{
			Name:           getEnv("APP_NAME", "hr-onboarding"),
			Env:            env,
			Port:           getEnv("APP_PORT", ":8080"),
			BaseURL:        os.Getenv("APP_URL"),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads/resumes"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 5*1024*1024),
			MaxPDFPages:    getEnvAsInt("MAX_PDF_PAGES", 20),
			SessionTTL:     getEnvAsDuration("SESSION_TTL", 8*time.Hour),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
