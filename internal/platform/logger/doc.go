// Package logger provides structured logging functionality for the
// application using Go's standard library log/slog package. Loggers travel
// on the context so stores and services enrich log records with
// request-scoped attributes without threading a logger through every call.
package logger
