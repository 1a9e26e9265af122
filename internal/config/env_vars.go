package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	baseURLVar    = "BASE_URL"
	defaultDBPath = "./data/portal.db"
)

type EnvVars struct{}

var _ Config = mainConfig{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "ScholarHub")
}

// GetBaseURL returns the public base URL of the application, used to build
// the Google callback address.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetExternalCallTimeout() time.Duration {
	return getDuration("EXTERNAL_CALL_TIMEOUT", 10*time.Second)
}

func (EnvVars) GetSessionLifetime() time.Duration {
	return getDuration("SESSION_LIFETIME", 24*time.Hour)
}

func (EnvVars) GetSmtpHost() string {
	return GetEnv("SMTP_HOST", "smtp.gmail.com")
}

func (EnvVars) GetSmtpPort() int {
	port, err := strconv.Atoi(GetEnv("SMTP_PORT", "587"))
	if err != nil {
		return 587
	}
	return port
}

func (EnvVars) GetSmtpAccount() string {
	return GetEnv("SMTP_ACCOUNT", "")
}

func (EnvVars) GetSmtpPassword() string {
	return GetEnv("SMTP_PASSWORD", "")
}

func (EnvVars) GetSmtpSender() string {
	return GetEnv("SMTP_SENDER", "")
}

func (EnvVars) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (EnvVars) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

func (EnvVars) GetGeminiAPIKey() string {
	return GetEnv("GEMINI_API_KEY", "")
}

func (EnvVars) GetGeminiModel() string {
	return GetEnv("GEMINI_MODEL", "gemini-1.5-flash")
}

func (EnvVars) GetDatabasePath() string {
	return GetEnv("DATABASE_PATH", defaultDBPath)
}

func (EnvVars) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
