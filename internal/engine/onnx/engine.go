// Package onnx runs the Supertonic text-to-speech pipeline on ONNX Runtime:
// duration prediction, text encoding, flow-matching denoising of a noisy
// latent, and vocoding.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/ekisa-team/supertonic-tts/internal/engine"
	"github.com/ekisa-team/supertonic-tts/internal/envvar"
)

const (
	configFile       = "tts.json"
	indexerFile      = "unicode_indexer.json"
	durationFile     = "duration_predictor.onnx"
	textEncoderFile  = "text_encoder.onnx"
	estimatorFile    = "vector_estimator.onnx"
	vocoderFile      = "vocoder.onnx"
	chunkSilenceSecs = 0.3
)

// Options configures the runtime and the sessions.
type Options struct {
	// LibraryPath is the onnxruntime shared library. Empty uses
	// SUPERTONIC_ONNXRUNTIME_LIB, then the binding's default.
	LibraryPath string
	// IntraOpThreads limits per-session threads; zero keeps the runtime default.
	IntraOpThreads int
	// Seed makes the noisy latent reproducible; zero draws a random seed.
	Seed uint64
}

// Engine is the ONNX Runtime implementation of engine.Engine.
type Engine struct {
	cfg       modelConfig
	idx       indexer
	rng       *rand.Rand
	duration  *session
	encoder   *session
	estimator *session
	vocoder   *session
}

var _ engine.Engine = (*Engine)(nil)

// NewFactory returns an engine.Factory that builds Engines with opts.
func NewFactory(opts Options) engine.Factory {
	return func(onnxDir string) (engine.Engine, error) {
		return New(onnxDir, opts)
	}
}

// New loads the model config, the indexer and the four graphs from onnxDir.
func New(onnxDir string, opts Options) (*Engine, error) {
	cfg, err := loadConfig(filepath.Join(onnxDir, configFile))
	if err != nil {
		return nil, err
	}
	idx, err := loadIndexer(filepath.Join(onnxDir, indexerFile))
	if err != nil {
		return nil, err
	}

	lib := opts.LibraryPath
	if lib == "" {
		lib = os.Getenv(envvar.SupertonicOnnxRuntimeLib)
	}
	if err := initRuntime(lib); err != nil {
		return nil, err
	}

	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer sessOpts.Destroy()

	if opts.IntraOpThreads > 0 {
		if err := sessOpts.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
			return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	e := &Engine{
		cfg: cfg,
		idx: idx,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}

	graphs := []struct {
		dst    **session
		file   string
		inputs []string
	}{
		{&e.duration, durationFile, []string{"text_ids", "style_dp", "text_mask"}},
		{&e.encoder, textEncoderFile, []string{"text_ids", "style_ttl", "text_mask"}},
		{&e.estimator, estimatorFile, []string{
			"noisy_latent", "text_emb", "style_ttl", "latent_mask", "text_mask", "current_step", "total_step",
		}},
		{&e.vocoder, vocoderFile, []string{"latent"}},
	}
	for _, g := range graphs {
		s, err := newSession(onnxDir, g.file, g.inputs, sessOpts)
		if err != nil {
			_ = e.Close()
			return nil, err
		}
		*g.dst = s
	}

	return e, nil
}

// SampleRate returns the vocoder output rate.
func (e *Engine) SampleRate() int {
	return e.cfg.SampleRate
}

// Close releases the sessions.
func (e *Engine) Close() error {
	return errors.Join(
		e.duration.destroy(),
		e.encoder.destroy(),
		e.estimator.destroy(),
		e.vocoder.destroy(),
	)
}

// Synthesize splits text into chunks, synthesizes each, and joins them with
// short silences.
func (e *Engine) Synthesize(ctx context.Context, text, lang string, style *engine.Style, steps int, speed float64) ([]float32, float32, error) {
	if style == nil {
		return nil, 0, errors.New("style is required")
	}
	if steps < 1 {
		return nil, 0, fmt.Errorf("steps must be positive, got %d", steps)
	}
	if speed <= 0 {
		return nil, 0, fmt.Errorf("speed must be positive, got %g", speed)
	}

	chunks := chunkText(text, chunkLimit(lang))
	if len(chunks) == 0 {
		return nil, 0, ErrEmptyText
	}

	silence := make([]float32, int(chunkSilenceSecs*float64(e.cfg.SampleRate)))

	var wav []float32
	var total float32
	for i, chunk := range chunks {
		samples, dur, err := e.infer(ctx, chunk, lang, style, steps, speed)
		if err != nil {
			return nil, 0, fmt.Errorf("chunk %d: %w", i, err)
		}
		if i > 0 {
			wav = append(wav, silence...)
			total += chunkSilenceSecs
		}
		wav = append(wav, samples...)
		total += dur
	}

	return wav, total, nil
}

// infer runs the full pipeline for one chunk.
func (e *Engine) infer(ctx context.Context, text, lang string, style *engine.Style, steps int, speed float64) ([]float32, float32, error) {
	ids, err := encodeText(e.idx, text, lang)
	if err != nil {
		return nil, 0, err
	}
	n := int64(len(ids))

	var tensors []ort.Value
	defer func() {
		for _, t := range tensors {
			_ = t.Destroy()
		}
	}()
	keep := func(v ort.Value) { tensors = append(tensors, v) }

	textIDs, err := ort.NewTensor(ort.NewShape(1, n), ids)
	if err != nil {
		return nil, 0, fmt.Errorf("text ids: %w", err)
	}
	keep(textIDs)

	textMask, err := ort.NewTensor(ort.NewShape(1, 1, n), lengthToMask(len(ids), len(ids)))
	if err != nil {
		return nil, 0, fmt.Errorf("text mask: %w", err)
	}
	keep(textMask)

	styleTTL, err := ort.NewTensor(ort.NewShape(style.TTL.Dims...), style.TTL.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("style_ttl: %w", err)
	}
	keep(styleTTL)

	styleDP, err := ort.NewTensor(ort.NewShape(style.DP.Dims...), style.DP.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("style_dp: %w", err)
	}
	keep(styleDP)

	durOut, err := e.duration.run(textIDs, styleDP, textMask)
	if err != nil {
		return nil, 0, err
	}
	keep(durOut)
	if len(durOut.GetData()) == 0 {
		return nil, 0, fmt.Errorf("%w: empty duration", ErrUnexpectedShape)
	}
	duration := durOut.GetData()[0] / float32(speed)

	textEmb, err := e.encoder.run(textIDs, styleTTL, textMask)
	if err != nil {
		return nil, 0, err
	}
	keep(textEmb)

	noisy, maskData, shape := sampleNoisyLatent(e.rng, e.cfg, duration)

	latentMask, err := ort.NewTensor(ort.NewShape(1, 1, int64(shape.Frames)), maskData)
	if err != nil {
		return nil, 0, fmt.Errorf("latent mask: %w", err)
	}
	keep(latentMask)

	totalStep, err := ort.NewTensor(ort.NewShape(1), []float32{float32(steps)})
	if err != nil {
		return nil, 0, fmt.Errorf("total step: %w", err)
	}
	keep(totalStep)

	latent, err := ort.NewTensor(ort.NewShape(1, int64(shape.Channels), int64(shape.Frames)), noisy)
	if err != nil {
		return nil, 0, fmt.Errorf("noisy latent: %w", err)
	}

	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			_ = latent.Destroy()
			return nil, 0, err
		}

		current, err := ort.NewTensor(ort.NewShape(1), []float32{float32(step)})
		if err != nil {
			_ = latent.Destroy()
			return nil, 0, fmt.Errorf("current step: %w", err)
		}

		next, err := e.estimator.run(latent, textEmb, styleTTL, latentMask, textMask, current, totalStep)
		_ = current.Destroy()
		_ = latent.Destroy()
		if err != nil {
			return nil, 0, fmt.Errorf("denoising step %d: %w", step, err)
		}
		latent = next
	}
	keep(latent)

	wavOut, err := e.vocoder.run(latent)
	if err != nil {
		return nil, 0, err
	}
	keep(wavOut)

	samples := wavOut.GetData()
	if limit := int(float64(duration) * float64(e.cfg.SampleRate)); limit < len(samples) {
		samples = samples[:max(limit, 0)]
	}

	// the tensor's backing memory is released on return
	return append([]float32(nil), samples...), duration, nil
}
