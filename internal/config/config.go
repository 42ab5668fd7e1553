package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr        string
	RedisURL    string
	DatabaseURL string
	CORSOrigin  string
	// Meilisearch - fixture search, optional
	MeiliURL       string
	MeiliMasterKey string
	// Drafting collaborator - OpenAI-compatible endpoint
	DraftAPIURL string
	DraftAPIKey string
	DraftModel  string
	// Desk defaults
	Charterers  string
	Riders      string
	CatalogFile string
	StaleAfter  time.Duration
}

func Load() Config {
	return Config{
		Addr:        getenv("API_ADDR", ":8787"),
		RedisURL:    getenv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL: getenv("DATABASE_URL", ""),
		CORSOrigin:  getenv("CHARTDESK_CORS_ORIGIN", "*"),
		// Meili - empty URL disables search indexing, scan fallback serves queries
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),
		// Drafting - empty key disables the AI collaborator, regex extraction still works
		DraftAPIURL: getenv("DRAFT_API_URL", "https://api.openai.com/v1"),
		DraftAPIKey: getenv("DRAFT_API_KEY", ""),
		DraftModel:  getenv("DRAFT_MODEL", "gpt-4.1-mini"),
		Charterers:  getenv("CHARTDESK_CHARTERERS", "Charterers"),
		Riders:      getenv("CHARTDESK_RIDERS", "CP form and riders as per Charterers' pro forma"),
		CatalogFile: getenv("CHARTDESK_CATALOG_FILE", ""),
		StaleAfter:  time.Duration(getenvInt("CHARTDESK_STALE_HOURS", 48)) * time.Hour,
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
