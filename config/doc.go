// Package config loads the service configuration from an optional YAML file,
// an optional .env file and environment variables, and validates it before
// anything is started.
package config
