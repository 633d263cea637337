// Package config loads and validates service configuration from OCC_*
// environment variables. All settings have working defaults; the service
// starts with an empty environment.
package config
