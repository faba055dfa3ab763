// Package plugin adapts the Supertonic synthesis engine to a voice-assistant
// TTS plugin: it provisions model files, normalizes language and voice
// requests, and writes synthesized speech to WAV files.
package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ekisa-team/supertonic-tts/internal/assets"
	"github.com/ekisa-team/supertonic-tts/internal/audio"
	"github.com/ekisa-team/supertonic-tts/internal/config"
	"github.com/ekisa-team/supertonic-tts/internal/engine"
	"github.com/ekisa-team/supertonic-tts/internal/envvar"
	"github.com/ekisa-team/supertonic-tts/internal/observe"
	"github.com/ekisa-team/supertonic-tts/internal/voice"
	"github.com/ekisa-team/supertonic-tts/internal/xfs"
)

// Request is one synthesis call. Empty Lang and Voice use the plugin defaults.
type Request struct {
	Text       string
	OutputPath string
	Lang       string
	Voice      string
}

// Viseme is a mouth shape ending at End seconds. The engine produces none.
type Viseme struct {
	Code string
	End  float64
}

type options struct {
	systemLang      string
	logger          *slog.Logger
	factory         engine.Factory
	provisionerOpts []assets.Option
	metrics         *observe.Metrics
}

// Option configures New.
type Option func(*options)

// WithSystemLanguage sets the host language used when the config has none.
func WithSystemLanguage(tag string) Option {
	return func(o *options) {
		o.systemLang = tag
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEngineFactory sets how the synthesis engine is built. Required.
func WithEngineFactory(f engine.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithProvisionerOptions passes options through to the asset provisioner.
func WithProvisionerOptions(opts ...assets.Option) Option {
	return func(o *options) {
		o.provisionerOpts = append(o.provisionerOpts, opts...)
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// Plugin synthesizes speech for a host. It is not safe for concurrent use.
type Plugin struct {
	settings  Settings
	modelRoot string
	resolver  *voice.Resolver
	engine    engine.Engine
	logger    *slog.Logger
	metrics   *observe.Metrics
}

// New provisions the model root, builds the engine and resolves the default
// language and voice. Missing model files are only logged; New fails when
// the engine cannot be built from what is on disk.
func New(ctx context.Context, cfg map[string]any, opts ...Option) (*Plugin, error) {
	o := options{
		logger:  slog.Default(),
		metrics: observe.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.factory == nil {
		return nil, ErrNoEngineFactory
	}

	settings := SettingsFromConfig(cfg)
	root := ResolveModelRoot(settings.ModelPath)
	logger := o.logger.With("component", "supertonic")

	provisioner := assets.New(root, append([]assets.Option{
		assets.WithLogger(logger),
		assets.WithMetrics(o.metrics),
	}, o.provisionerOpts...)...)

	report := provisioner.Ensure(ctx)
	if !report.Complete() {
		logger.Warn("Model assets incomplete", "root", root, "failed", len(report.Failed))
	}

	eng, err := o.factory(filepath.Join(root, assets.OnnxDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load synthesis engine: %w", err)
	}

	if rate := eng.SampleRate(); rate != audio.SampleRate {
		logger.Warn("Engine sample rate differs from output rate, audio will play at the wrong speed",
			"engine_rate", rate, "output_rate", audio.SampleRate)
	}

	defaultLang, fellBack := voice.DefaultLanguageFor(settings.Lang, o.systemLang)
	if fellBack {
		configured := settings.Lang
		if configured == "" {
			configured = o.systemLang
		}
		logger.Warn("Configured language not supported, falling back",
			"lang", voice.BaseLanguage(configured), "fallback", defaultLang)
	}

	p := &Plugin{
		settings:  settings,
		modelRoot: root,
		resolver:  voice.NewResolver(filepath.Join(root, assets.VoiceStylesDir), defaultLang, settings.Voice),
		engine:    eng,
		logger:    logger,
		metrics:   o.metrics,
	}

	logger.Info("Plugin ready",
		"root", root,
		"lang", p.resolver.DefaultLanguage(),
		"voice", p.resolver.DefaultVoice(),
		"speed", settings.Speed,
		"steps", settings.Steps,
	)

	return p, nil
}

// ResolveModelRoot picks the configured path, then SUPERTONIC_MODEL_PATH,
// then the platform default, and expands a leading tilde.
func ResolveModelRoot(configured string) string {
	root := configured
	if root == "" {
		root = os.Getenv(envvar.SupertonicModelPath)
	}
	if root == "" {
		root = config.DefaultModelRoot()
	}
	return xfs.ExpandTilde(root)
}

// Synthesize speaks req.Text into req.OutputPath and returns the path. The
// viseme slice is always nil.
func (p *Plugin) Synthesize(ctx context.Context, req Request) (string, []Viseme, error) {
	start := time.Now()
	logger := p.logger.With("request_id", uuid.NewString())

	res := p.resolver.Resolve(req.Lang, req.Voice)
	logger.Debug("Synthesizing", "lang", res.Language, "voice", res.Voice, "chars", len(req.Text))

	err := p.synthesize(ctx, req, res)
	p.metrics.RecordSynthesis(ctx, start, err)
	if err != nil {
		logger.Error("Synthesis failed", "lang", res.Language, "voice", res.Voice, "error", err)
		return "", nil, err
	}

	logger.Info("Synthesis complete", "path", req.OutputPath, "elapsed", time.Since(start))

	return req.OutputPath, nil, nil
}

func (p *Plugin) synthesize(ctx context.Context, req Request, res voice.Resolution) error {
	style, err := engine.LoadStyle(res.StylePath)
	if err != nil {
		return fmt.Errorf("failed to load voice %s: %w", res.Voice, err)
	}

	samples, _, err := p.engine.Synthesize(ctx, req.Text, res.Language, style, p.settings.Steps, p.settings.Speed)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	if err := audio.WriteWAV(req.OutputPath, samples, audio.SampleRate); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	return nil
}

// AvailableLanguages returns the supported language codes.
func (p *Plugin) AvailableLanguages() []string {
	return voice.Languages()
}

// DefaultLanguage returns the language used when a request names none.
func (p *Plugin) DefaultLanguage() string {
	return p.resolver.DefaultLanguage()
}

// DefaultVoice returns the voice used when a request names none.
func (p *Plugin) DefaultVoice() string {
	return p.resolver.DefaultVoice()
}

// ModelRoot returns the directory model files live in.
func (p *Plugin) ModelRoot() string {
	return p.modelRoot
}

// Settings returns the options read from the host configuration.
func (p *Plugin) Settings() Settings {
	return p.settings
}

// Close releases the engine.
func (p *Plugin) Close() error {
	return p.engine.Close()
}
