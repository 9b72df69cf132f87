package config

import (
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration
	EncryptionKey   []byte // Raw key bytes (32 for AES-256)

	// Public site
	HeroHeadlines    []string
	RotationInterval time.Duration

	// Live chat
	WelcomeMessage string
	LeadOwner      string

	// Transcript email function (external)
	TranscriptURL   string
	TranscriptToken string

	// Optional integrations; empty disables them.
	SlackBotToken     string
	SlackLeadsChannel string
	NotionToken       string
	NotionLeadsDB     string

	// Upload buckets root directory
	StorageRoot string

	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "default-super-secret-key") // CHANGE THIS IN PRODUCTION!
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379/0")

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	// Load and decode the Encryption Key (MUST be 64 hex characters for 32 bytes)
	encryptionKeyHex := getEnv("ENCRYPTION_KEY", "")
	if encryptionKeyHex == "" {
		log.Fatal("FATAL: ENCRYPTION_KEY environment variable is not set.")
	}
	encryptionKeyBytes, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		log.Fatalf("FATAL: Failed to decode ENCRYPTION_KEY from hex: %v", err)
	}
	if len(encryptionKeyBytes) != 32 {
		log.Fatalf("FATAL: ENCRYPTION_KEY must be 32 bytes (64 hex characters) long, got %d bytes", len(encryptionKeyBytes))
	}

	rotationMs, err := strconv.Atoi(getEnv("HERO_ROTATION_MS", "3500"))
	if err != nil || rotationMs <= 0 {
		log.Printf("Warning: Invalid HERO_ROTATION_MS, using default 3500ms")
		rotationMs = 3500
	}

	headlines := splitList(getEnv("HERO_HEADLINES", "Digital Experiences|Brands That Convert|Websites That Sell"))

	cfg := &Config{
		HTTPPort:        port,
		JWTSecret:       jwtSecret,
		DatabaseURL:     dbURL,
		RedisURL:        redisURL,
		TokenExpiration: time.Hour * time.Duration(tokenExpHours),
		EncryptionKey:   encryptionKeyBytes,

		HeroHeadlines:    headlines,
		RotationInterval: time.Duration(rotationMs) * time.Millisecond,

		WelcomeMessage: getEnv("CHAT_WELCOME_MESSAGE", "Hi! Thanks for reaching out. An agent will be with you shortly."),
		LeadOwner:      getEnv("CRM_DEFAULT_OWNER", "admin"),

		TranscriptURL:   getEnv("TRANSCRIPT_FUNCTION_URL", ""),
		TranscriptToken: getEnv("TRANSCRIPT_FUNCTION_TOKEN", ""),

		SlackBotToken:     getEnv("SLACK_BOT_TOKEN", ""),
		SlackLeadsChannel: getEnv("SLACK_LEADS_CHANNEL", ""),
		NotionToken:       getEnv("NOTION_TOKEN", ""),
		NotionLeadsDB:     getEnv("NOTION_LEADS_DATABASE_ID", ""),

		StorageRoot: getEnv("STORAGE_ROOT", "./storage"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000|http://localhost:5173")),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, EncryptionKey=***, Headlines=%d", cfg.HTTPPort, cfg.TokenExpiration, len(cfg.HeroHeadlines))

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// splitList parses a pipe-separated env value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, "|") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
