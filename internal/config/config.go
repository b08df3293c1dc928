package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type Config struct {
	Port        string
	Environment string

	AllowedOrigins []string
	FrontendURL    string
	OAuthConfig    OAuthConfig

	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int

	RedisURL      string
	RedisPassword string

	JWTSecret      string
	AccessTokenTTL time.Duration

	DefaultRows    int
	DefaultCols    int
	DefaultConnect int

	GameIdleTTL     time.Duration
	GameFinishedTTL time.Duration
	CleanupInterval time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8000")
	environment := GetEnv("ENVIRONMENT", "development")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:3000")
	allowedOrigins := []string{
		frontendURL,
		"http://localhost:8080",
	}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Database
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	dbMaxOpenConns := GetEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	dbMaxIdleConns := GetEnvAsInt("DB_MAX_IDLE_CONNS", 25)
	dbConnMaxLifetimeMin := GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	// Security
	jwtSecret := GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production")
	accessTokenTTL := GetEnvAsDuration("ACCESS_TOKEN_TTL_MINUTES", 24*60, time.Minute)

	AppConfig = &Config{
		Port:                 port,
		Environment:          environment,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		OAuthConfig:          *LoadOAuthConfig(frontendURL),
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       dbMaxOpenConns,
		DBMaxIdleConns:       dbMaxIdleConns,
		DBConnMaxLifetimeMin: dbConnMaxLifetimeMin,
		RedisURL:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:            jwtSecret,
		AccessTokenTTL:       accessTokenTTL,
		DefaultRows:          GetEnvAsInt("DEFAULT_ROWS", 6),
		DefaultCols:          GetEnvAsInt("DEFAULT_COLS", 7),
		DefaultConnect:       GetEnvAsInt("DEFAULT_CONNECT", 4),
		GameIdleTTL:          GetEnvAsDuration("GAME_IDLE_TTL_HOURS", 24, time.Hour),
		GameFinishedTTL:      GetEnvAsDuration("GAME_FINISHED_TTL_MINUTES", 60, time.Minute),
		CleanupInterval:      GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 15, time.Minute),
	}

	return AppConfig
}

// GameDefaults is the board used when a game request leaves sizes at zero.
// An invalid combination falls back to the standard 6x7 connect 4.
func (c *Config) GameDefaults() domain.GameConfig {
	cfg := domain.GameConfig{Rows: c.DefaultRows, Cols: c.DefaultCols, Connect: c.DefaultConnect}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid default board %dx%d connect %d, using the standard board", cfg.Rows, cfg.Cols, cfg.Connect)
		return domain.GameConfig{}.WithDefaults()
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
