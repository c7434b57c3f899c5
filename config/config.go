package config

import (
	"os"
	"strconv"
)

// Config carries everything read from the environment at process start.
// It is built once in main and handed to every component that needs it;
// nothing else in the codebase touches os.Getenv.
type Config struct {
	Port string

	MongoURI  string
	MongoDB   string
	RedisAddr string
	RedisPass string
	RedisDB   int

	JWTSecret      []byte
	AdminSecretKey string

	ChapaSecretKey string
	ChapaBaseURL   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	ClientURL          string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	UploadDir     string
	AllowedOrigin string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "ticketdb"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASSWORD", ""),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		JWTSecret:      []byte(getEnv("JWT_SECRET", "JWT_FALLBACK_SECRET")),
		AdminSecretKey: getEnv("ADMIN_SECRET_KEY", ""),

		ChapaSecretKey: getEnv("CHAPA_SECRET_KEY", ""),
		ChapaBaseURL:   getEnv("CHAPA_BASE_URL", "https://api.chapa.co"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", ""),
		ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),

		UploadDir:     getEnv("UPLOAD_DIR", "./static/uploads"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
