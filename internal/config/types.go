package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	CacheTTL      time.Duration
	Slack         SlackConfig
	Turso         TursoConfig
	Auth          AuthConfig
	OpenAI        OpenAIConfig
	ProjectID     string
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}
type OpenAIConfig struct {
	APIKey string
	Model  string
}
