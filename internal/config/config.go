package config

import "time"

type Config interface {
	EnvConfig
	SmtpConfig
	GoogleConfig
	ChatConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string

	// GetExternalCallTimeout bounds mail dispatch, provider discovery and
	// exchange, and model calls so a slow collaborator cannot hang a login
	// attempt indefinitely.
	GetExternalCallTimeout() time.Duration
	GetSessionLifetime() time.Duration
}

type SmtpConfig interface {
	GetSmtpHost() string
	GetSmtpPort() int
	GetSmtpAccount() string
	GetSmtpPassword() string
	GetSmtpSender() string
}

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
}

type ChatConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
}

type StorageConfig interface {
	GetDatabasePath() string
	GetRedisAddr() string // empty means in-memory stores
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
