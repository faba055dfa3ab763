// Package audio writes synthesized waveforms to disk.
package audio

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// SampleRate is the rate every output file is labelled with.
	SampleRate = 44100
	// BitDepth of the PCM samples.
	BitDepth = 16
	// Channels in the output file.
	Channels = 1

	wavFormatPCM = 1
)

// WriteWAV writes samples in [-1, 1] as mono 16-bit PCM. Values outside the
// range are clipped. The samples are not resampled: sampleRate only sets the
// header.
func WriteWAV(path string, samples []float32, sampleRate int) (err error) {
	if len(samples) == 0 {
		return ErrEmptyWaveform
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	enc := wav.NewEncoder(f, sampleRate, BitDepth, Channels, wavFormatPCM)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: Channels, SampleRate: sampleRate},
		SourceBitDepth: BitDepth,
		Data:           toPCM16(samples),
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav header: %w", err)
	}

	return nil
}

func toPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		v := float64(s)
		switch {
		case math.IsNaN(v):
			v = 0
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		}
		out[i] = int(math.Round(v * math.MaxInt16))
	}
	return out
}
