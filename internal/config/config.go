package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string
	DatabaseURL            string
	JWTSecret              string
	AccessTokenTTL         time.Duration
	AllowOrigins           []string
	LogstashTCPAddr        string
	MinIOEndpoint          string
	MinIOAccessKey         string
	MinIOSecretKey         string
	MinIOUseSSL            bool
	MinIOBucketImages      string
	MinIOPublicURL         string
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	SMTPFrom               string
	PasswordResetTTL       time.Duration
	PasswordResetOTPLength int
	GeminiAPIKey           string
	GeminiModel            string
	SeedAdminEmail         string
	SeedAdminPassword      string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	otpLen := 6
	if v, err := strconv.Atoi(getenv("PASSWORD_RESET_OTP_LENGTH", "6")); err == nil && v > 0 {
		otpLen = v
	}

	smtpPort := 0
	if v, err := strconv.Atoi(getenv("SMTP_PORT", "0")); err == nil {
		smtpPort = v
	}

	return Config{
		Port:                   getenv("PORT", "8080"),
		DatabaseURL:            must("DATABASE_URL"),
		JWTSecret:              must("JWT_SECRET"),
		AccessTokenTTL:         duration("ACCESS_TOKEN_TTL", 12*time.Hour),
		AllowOrigins:           splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:        getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:          getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:         getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:         getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:            getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketImages:      getenv("MINIO_BUCKET_IMAGES", "describo-images"),
		MinIOPublicURL:         getenv("MINIO_PUBLIC_URL", ""),
		SMTPHost:               getenv("SMTP_HOST", ""),
		SMTPPort:               smtpPort,
		SMTPUsername:           getenv("SMTP_USERNAME", ""),
		SMTPPassword:           getenv("SMTP_PASSWORD", ""),
		SMTPFrom:               getenv("SMTP_FROM", ""),
		PasswordResetTTL:       duration("PASSWORD_RESET_TTL", 30*time.Minute),
		PasswordResetOTPLength: otpLen,
		GeminiAPIKey:           getenv("GEMINI_API_KEY", ""),
		GeminiModel:            getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		SeedAdminEmail:         getenv("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword:      getenv("SEED_ADMIN_PASSWORD", "123456"),
	}
}

func duration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
