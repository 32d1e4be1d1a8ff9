package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	MongoURI            string
	PostgresURI         string
	RedisURI            string
	JWTSecret           string
	Port                string
	FrontendURL         string
	AllowedOrigins      []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	Environment         string   // ENV: production, development, etc.
	SendGridAPIKey      string
	NotifyFromEmail     string // sender for submission notifications
	NotifyToEmail       string // site owner's inbox
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Per-fingerprint daily submission ceilings
	CommentDailyLimit    int
	SuggestionDailyLimit int
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	// CORS: the public widgets are embedded on the portfolio itself, but
	// localhost must work during development
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		MongoURI:             getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/portfolio")),
		PostgresURI:          getEnv("POSTGRES_URI", "postgres://localhost:5432/portfolio?sslmode=disable"),
		RedisURI:             getEnv("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:                 getEnv("PORT", "8080"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:       allowedOrigins,
		Environment:          env,
		SendGridAPIKey:       getEnv("SENDGRID_API_KEY", ""),
		NotifyFromEmail:      getEnv("NOTIFY_FROM_EMAIL", "noreply@localhost"),
		NotifyToEmail:        getEnv("NOTIFY_TO_EMAIL", ""),
		CloudinaryName:       getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:     getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:  getEnv("CLOUDINARY_API_SECRET", ""),
		CommentDailyLimit:    getEnvInt("COMMENT_DAILY_LIMIT", 3),
		SuggestionDailyLimit: getEnvInt("SUGGESTION_DAILY_LIMIT", 5),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
