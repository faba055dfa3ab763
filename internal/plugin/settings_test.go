package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsFromConfig_Defaults(t *testing.T) {
	s := SettingsFromConfig(nil)

	assert.Equal(t, Settings{Voice: "sarah", Speed: 1.05, Steps: 5}, s)
}

func TestSettingsFromConfig(t *testing.T) {
	s := SettingsFromConfig(map[string]any{
		KeyModelPath: "/srv/supertonic",
		KeyLang:      "es",
		KeyVoice:     "M3",
		KeySpeed:     1,
		KeyQuality:   "10",
	})

	assert.Equal(t, Settings{
		ModelPath: "/srv/supertonic",
		Lang:      "es",
		Voice:     "M3",
		Speed:     1,
		Steps:     10,
	}, s)
}

func TestSettingsFromConfig_QualityTruncates(t *testing.T) {
	s := SettingsFromConfig(map[string]any{KeyQuality: 6.7, KeySpeed: "fast"})

	assert.Equal(t, 6, s.Steps)
	assert.InDelta(t, DefaultSpeed, s.Speed, 1e-9)
}
