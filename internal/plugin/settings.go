package plugin

import (
	"github.com/ekisa-team/supertonic-tts/internal/voice"
	"github.com/ekisa-team/supertonic-tts/mapsafe"
)

// Keys read from the host configuration mapping.
const (
	KeyModelPath = "model_path"
	KeyLang      = "lang"
	KeyVoice     = "voice"
	KeySpeed     = "speed"
	KeyQuality   = "quality"
)

const (
	DefaultSpeed = 1.05
	DefaultSteps = 5
)

// Settings are the plugin options taken from the host configuration.
type Settings struct {
	ModelPath string
	Lang      string
	Voice     string
	Speed     float64
	Steps     int
}

// SettingsFromConfig reads Settings from cfg. Missing or mistyped values
// take their defaults; Lang stays empty so the system language can apply.
func SettingsFromConfig(cfg map[string]any) Settings {
	return Settings{
		ModelPath: mapsafe.String(cfg, KeyModelPath, ""),
		Lang:      mapsafe.String(cfg, KeyLang, ""),
		Voice:     mapsafe.Get(cfg, KeyVoice, voice.DefaultName),
		Speed:     mapsafe.Get(cfg, KeySpeed, DefaultSpeed),
		Steps:     mapsafe.Get(cfg, KeyQuality, DefaultSteps),
	}
}
