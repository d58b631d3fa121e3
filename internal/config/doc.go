// Package config loads and validates application configuration from
// environment variables and an optional config file. Environment variables
// (prefix TASKAPP_) take precedence over file values.
package config
