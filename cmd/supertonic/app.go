package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ekisa-team/supertonic-tts/internal/assets"
	"github.com/ekisa-team/supertonic-tts/internal/config"
	"github.com/ekisa-team/supertonic-tts/internal/engine/onnx"
	"github.com/ekisa-team/supertonic-tts/internal/env"
	"github.com/ekisa-team/supertonic-tts/internal/envvar"
	"github.com/ekisa-team/supertonic-tts/internal/logger"
	"github.com/ekisa-team/supertonic-tts/internal/plugin"
	"github.com/ekisa-team/supertonic-tts/internal/xfs"
)

// app carries what every subcommand needs after flag parsing.
type app struct {
	configPath string
	cfg        *config.Config
}

func defaultConfigFile() string {
	return config.DefaultConfigFile()
}

// setup loads the config and installs the process logger. A missing config
// file is only an error when the path was given explicitly.
func (a *app) setup(explicit bool) error {
	cfg, err := loadConfig(a.configPath, explicit)
	if err != nil {
		return err
	}
	a.cfg = cfg

	slog.SetDefault(newLogger(cfg))

	return nil
}

func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.LoadAndValidate(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	return nil, fmt.Errorf("error loading config: %w", err)
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if v := os.Getenv(envvar.SupertonicLogLevel); v != "" {
		level = v
	}

	opts := []logger.Option{logger.WithLevel(logger.ParseLevel(level))}
	if cfg.Logging.File != "" {
		opts = append(opts,
			logger.WithLogToFile(true),
			logger.WithLogFile(xfs.ExpandTilde(cfg.Logging.File)),
		)
	}

	return logger.New(env.FromEnv(), opts...)
}

// systemLanguage is the host language: the config override, then the POSIX
// locale variables.
func systemLanguage(cfg *config.Config) string {
	if cfg.SystemLang != "" {
		return cfg.SystemLang
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return ""
}

func provisionerOptions(cfg *config.Config) []assets.Option {
	opts := []assets.Option{
		assets.WithBaseURL(cfg.Assets.BaseURL),
		assets.WithUserAgent(cfg.Assets.UserAgent),
	}
	if cfg.Assets.TimeoutSeconds > 0 {
		opts = append(opts, assets.WithTimeout(time.Duration(cfg.Assets.TimeoutSeconds*float64(time.Second))))
	}
	return opts
}

func engineOptions(cfg *config.Config) onnx.Options {
	return onnx.Options{
		LibraryPath:    xfs.ExpandTilde(cfg.Engine.OnnxRuntimeLib),
		IntraOpThreads: cfg.Engine.Threads,
		Seed:           cfg.Engine.Seed,
	}
}

func newPlugin(ctx context.Context, cfg *config.Config) (*plugin.Plugin, error) {
	return plugin.New(ctx, cfg.Plugin,
		plugin.WithLogger(slog.Default()),
		plugin.WithSystemLanguage(systemLanguage(cfg)),
		plugin.WithEngineFactory(onnx.NewFactory(engineOptions(cfg))),
		plugin.WithProvisionerOptions(provisionerOptions(cfg)...),
	)
}

func modelRoot(cfg *config.Config) string {
	return plugin.ResolveModelRoot(plugin.SettingsFromConfig(cfg.Plugin).ModelPath)
}
