package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment. It is
// built once in main and handed to the pieces that need it instead of being
// read from ambient globals.
type Config struct {
	HTTPAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string

	// JWTSecret signs the admin session token; AdminPasswordHash is the
	// bcrypt hash the login endpoint compares against.
	JWTSecret         string
	AdminPasswordHash string

	// Matching policy knobs (see matching.Policy).
	AutoFillSameArea   bool
	ScanPastNonFitting bool
}

// Load reads .env (if present) and assembles the configuration with defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	return Config{
		HTTPAddr:          getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "kfmruns"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBTimezone:        getEnv("DB_TIMEZONE", "UTC"),
		JWTSecret:         getEnv("JWT_SECRET", "supersecret"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		AutoFillSameArea:   getEnvBool("MATCH_AUTO_FILL_SAME_AREA", false),
		ScanPastNonFitting: getEnvBool("MATCH_SCAN_PAST_NONFITTING", true),
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
