package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	SiteDir       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Intake wizard
	IntakeContextTTL    time.Duration
	IntakeAdvanceDelay  time.Duration
	IntakeNavigateDelay time.Duration
	IntakeFocusDelay    time.Duration
	IntakeMaxSessions   int
	BookingPath         string
	RequestPath         string

	// Forms and notifications
	EmailProvider      string
	OwnerEmail         string
	FormsTimezone      string
	FormsRatePerSecond float64
	FormsRateBurst     int
	ArchiveBucket      string
	AdminJWTSecret     string
	CORSAllowedOrigins []string

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// SES Email Configuration
	SESFromEmail string
	SESFromName  string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SiteDir:       getEnv("SITE_DIR", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		IntakeContextTTL:    getEnvAsDuration("INTAKE_CONTEXT_TTL", 30*24*time.Hour),
		IntakeAdvanceDelay:  getEnvAsDuration("INTAKE_ADVANCE_DELAY", 250*time.Millisecond),
		IntakeNavigateDelay: getEnvAsDuration("INTAKE_NAVIGATE_DELAY", 200*time.Millisecond),
		IntakeFocusDelay:    getEnvAsDuration("INTAKE_FOCUS_DELAY", 50*time.Millisecond),
		IntakeMaxSessions:   getEnvAsInt("INTAKE_MAX_SESSIONS", 10000),
		BookingPath:         getEnv("BOOKING_PATH", "/book-call.html"),
		RequestPath:         getEnv("REQUEST_PATH", "/order.html"),

		EmailProvider:      strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		OwnerEmail:         getEnv("OWNER_EMAIL", ""),
		FormsTimezone:      getEnv("FORMS_TIMEZONE", "Asia/Kolkata"),
		FormsRatePerSecond: getEnvAsFloat("FORMS_RATE_PER_SECOND", 1),
		FormsRateBurst:     getEnvAsInt("FORMS_RATE_BURST", 5),
		ArchiveBucket:      getEnv("ARCHIVE_BUCKET", ""),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		// SendGrid Email Configuration
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "AtomNext"),

		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "AtomNext"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
