// Package logger builds the application's log/slog logger: text output for
// development and staging, JSON for production, tagged with the environment.
package logger
