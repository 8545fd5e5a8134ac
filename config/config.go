package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `default:"8080"`
	Environment string `default:"development"`

	DatabaseURL      string
	FirestoreProject string

	SpotifyID     string
	SpotifySecret string

	// AnalyzerURL is the base URL of the audio chord detection backend.
	AnalyzerURL     string
	AnalyzerTimeout time.Duration `default:"10s"`
	AnalyzerRetries int           `default:"2"`

	// ConfidenceThreshold drops detections the backend is unsure about.
	ConfidenceThreshold float64 `default:"0.3"`
	DefaultDuration     float64 `default:"300"`

	JWTSecret      string
	SentryDSN      string
	CatalogPath    string
	AllowedOrigins []string `default:"*"`
}

// ProvideConfig reads CHORDLEGEND_* variables, after loading a .env file
// when one exists.
func ProvideConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var cfg Config
	err := envconfig.Process("chordlegend", &cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

var Options = ProvideConfig
