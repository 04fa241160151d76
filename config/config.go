// Package config reads service settings from the environment, loading a
// .env file outside production.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting used by the server and worker binaries
type Config struct {
	Env          string
	HTTPAddr     string
	LogLevel     string
	Timezone     string
	PatternsFile string

	TemporalAddress string
	TaskQueue       string
	UseTemporal     bool

	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	CatalogFile   string

	WhatsAppToken       string
	WhatsAppPhoneID     string
	WhatsAppVerifyToken string
	WhatsAppBaseURL     string

	AssistAPIKey  string
	AssistModel   string
	AssistBaseURL string
	AssistTimeout time.Duration

	PaymentBaseURL string

	SpecialsStart string
	SpecialsEnd   string
}

// Load reads the environment. Outside production a .env file is loaded first if present.
func Load() (Config, error) {
	env := getEnv("APP_ENV", "development")
	if env != "production" {
		_ = godotenv.Load()
	}

	assistTimeout, err := time.ParseDuration(getEnv("ASSIST_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ASSIST_TIMEOUT: %w", err)
	}
	useTemporal, err := strconv.ParseBool(getEnv("USE_TEMPORAL", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid USE_TEMPORAL: %w", err)
	}

	cfg := Config{
		Env:          env,
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Timezone:     getEnv("TIMEZONE", "Asia/Kolkata"),
		PatternsFile: os.Getenv("PATTERNS_FILE"),

		TemporalAddress: getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		TaskQueue:       getEnv("TASK_QUEUE", "order-placement-queue"),
		UseTemporal:     useTemporal,

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "restaurant"),
		CatalogFile:   os.Getenv("CATALOG_FILE"),

		WhatsAppToken:       os.Getenv("WHATSAPP_TOKEN"),
		WhatsAppPhoneID:     os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppVerifyToken: os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		WhatsAppBaseURL:     os.Getenv("WHATSAPP_BASE_URL"),

		AssistAPIKey:  os.Getenv("ASSIST_API_KEY"),
		AssistModel:   getEnv("ASSIST_MODEL", "gemini-1.5-flash"),
		AssistBaseURL: os.Getenv("ASSIST_BASE_URL"),
		AssistTimeout: assistTimeout,

		PaymentBaseURL: getEnv("PAYMENT_BASE_URL", "http://localhost:8081"),

		SpecialsStart: getEnv("SPECIALS_START", "11:00"),
		SpecialsEnd:   getEnv("SPECIALS_END", "15:00"),
	}
	return cfg, nil
}

// Location resolves the configured timezone
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Production reports whether APP_ENV is production
func (c Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
