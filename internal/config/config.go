package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Email    EmailConfig    `mapstructure:"email" validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AppURL is the public base URL used in email links.
	AppURL string `mapstructure:"app_url" validate:"required,url"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication settings for the actor-token middleware.
type AuthConfig struct {
	JWTSecret        string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetime    time.Duration `mapstructure:"token_lifetime" validate:"required"`
	BCryptCost       int           `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
	ResetTokenLength int           `mapstructure:"reset_token_length" validate:"gte=16"`
}

// EmailConfig contains settings for the email delivery channel.
type EmailConfig struct {
	SMTPHost      string        `mapstructure:"smtp_host" validate:"required"`
	SMTPPort      int           `mapstructure:"smtp_port" validate:"required,gt=0,lt=65536"`
	SMTPUsername  string        `mapstructure:"smtp_username"`
	SMTPPassword  string        `mapstructure:"smtp_password"`
	FromAddress   string        `mapstructure:"from_address" validate:"required,email"`
	QueueSize     int           `mapstructure:"queue_size" validate:"required,gt=0"`
	RetryAttempts int           `mapstructure:"retry_attempts" validate:"required,gt=0"`
	RetryDelay    time.Duration `mapstructure:"retry_delay" validate:"required"`
}

// ReminderConfig controls the background sweep for scheduled routine tasks.
type ReminderConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"required"`
	// LeadTime is how far ahead of a task's scheduled date its reminder
	// goes out.
	LeadTime time.Duration `mapstructure:"lead_time" validate:"required"`
}
