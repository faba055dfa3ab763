// Package engine defines the speech synthesis engine contract and the voice
// style profiles it is conditioned on.
package engine

import "context"

// Engine turns text into a mono waveform.
//
// An Engine is not safe for concurrent use.
type Engine interface {
	// Synthesize returns samples in [-1, 1] at SampleRate and the spoken
	// duration in seconds. steps is the number of denoising iterations and
	// speed scales the predicted duration.
	Synthesize(ctx context.Context, text, lang string, style *Style, steps int, speed float64) ([]float32, float32, error)

	// SampleRate is the native output rate in Hz.
	SampleRate() int

	Close() error
}

// Factory builds an Engine from the directory holding the inference
// artifacts.
type Factory func(onnxDir string) (Engine, error)
