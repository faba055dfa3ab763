// Package env reports which environment the process runs in.
package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/supertonic-tts/internal/envvar"
)

// Environment is the deployment environment of the process.
type Environment string

const (
	// Development enables human-friendly console output.
	Development Environment = "development"

	// Production switches logging to structured JSON.
	Production Environment = "production"
)

// FromEnv reads the environment from SUPERTONIC_ENV, defaulting to Development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.SupertonicEnv))
}

// Parse converts a free-form value into an Environment.
func Parse(value string) Environment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// IsProduction reports whether e is Production.
func (e Environment) IsProduction() bool {
	return e == Production
}
