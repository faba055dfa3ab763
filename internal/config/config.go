package config

// Config holds the configuration of the supertonic host shim.
type Config struct {
	Version    string         `json:"version"               toml:"version"               yaml:"version"`
	SystemLang string         `json:"system_lang,omitempty" toml:"system_lang,omitempty" yaml:"system_lang,omitempty"`
	Plugin     map[string]any `json:"plugin,omitempty"      toml:"plugin,omitempty"      yaml:"plugin,omitempty"`
	Logging    LoggingConfig  `json:"logging,omitempty"     toml:"logging,omitempty"     yaml:"logging,omitempty"`
	Assets     AssetsConfig   `json:"assets,omitempty"      toml:"assets,omitempty"      yaml:"assets,omitempty"`
	Engine     EngineConfig   `json:"engine,omitempty"      toml:"engine,omitempty"      yaml:"engine,omitempty"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `json:"level,omitempty" toml:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty"  toml:"file,omitempty"  yaml:"file,omitempty"`
}

// AssetsConfig overrides where and how model files are fetched.
type AssetsConfig struct {
	BaseURL        string  `json:"base_url,omitempty"        toml:"base_url,omitempty"        yaml:"base_url,omitempty"`
	UserAgent      string  `json:"user_agent,omitempty"      toml:"user_agent,omitempty"      yaml:"user_agent,omitempty"`
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty" toml:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// EngineConfig holds ONNX Runtime settings.
type EngineConfig struct {
	OnnxRuntimeLib string `json:"onnxruntime_lib,omitempty" toml:"onnxruntime_lib,omitempty" yaml:"onnxruntime_lib,omitempty"`
	Threads        int    `json:"threads,omitempty"         toml:"threads,omitempty"         yaml:"threads,omitempty"`
	Seed           uint64 `json:"seed,omitempty"            toml:"seed,omitempty"            yaml:"seed,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Plugin:  map[string]any{},
	}
}
