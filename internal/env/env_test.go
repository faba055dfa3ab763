package env

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekisa-team/supertonic-tts/internal/envvar"
)

func TestParse(t *testing.T) {
	tests := map[string]Environment{
		"":            Development,
		"development": Development,
		"PROD":        Production,
		" production": Production,
		"staging":     Development,
	}

	for input, want := range tests {
		assert.Equal(t, want, Parse(input), "input %q", input)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(envvar.SupertonicEnv, "production")
	assert.True(t, FromEnv().IsProduction())

	t.Setenv(envvar.SupertonicEnv, "")
	assert.False(t, FromEnv().IsProduction())
}
