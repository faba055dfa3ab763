package audio

import "errors"

// Error definitions for the audio package.
var (
	ErrEmptyWaveform = errors.New("waveform has no samples")
)
