package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBDialect string // postgres, mysql or sqlite
	DBName    string
	JWTKey    string
	SaltRound int

	EmailSender    string
	Password       string // SMTP password
	SendGridApiKey string // Preferred over SMTP when set

	CatalogSeedURL string // Remote catalog JSON for the import script

	RankCronSpec string // Schedule for score/rank recomputation
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBDialect: getEnv("DB_DIALECT", "postgres"),
		DBName:    getEnv("DB_NAME", "condingo"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@condingo.io"),
		Password:       getEnv("PASSWORD", ""),
		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),

		CatalogSeedURL: getEnv("CATALOG_SEED_URL", ""),

		RankCronSpec: getEnv("RANK_CRON_SPEC", "@every 10m"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
