package onnx

import (
	"math"
	"math/rand/v2"
)

// lengthToMask returns a [1,1,maxLen] mask with ones in the first n slots.
func lengthToMask(n, maxLen int) []float32 {
	mask := make([]float32, maxLen)
	for i := 0; i < n && i < maxLen; i++ {
		mask[i] = 1
	}
	return mask
}

// latentShape holds the noisy latent dimensions for one utterance.
type latentShape struct {
	Channels int
	Frames   int
}

// sampleNoisyLatent draws the initial latent for an utterance of duration
// seconds. Frames past the predicted length are zeroed and masked out.
func sampleNoisyLatent(rng *rand.Rand, cfg modelConfig, duration float32) ([]float32, []float32, latentShape) {
	wavLen := float64(duration) * float64(cfg.SampleRate)
	chunk := float64(cfg.chunkSize())

	frames := max(int(math.Ceil(wavLen/chunk)), 1)
	shape := latentShape{Channels: cfg.latentChannels(), Frames: frames}

	valid := (int64(wavLen) + int64(chunk) - 1) / int64(chunk)
	mask := lengthToMask(int(valid), frames)

	latent := make([]float32, shape.Channels*shape.Frames)
	for c := 0; c < shape.Channels; c++ {
		row := latent[c*frames : (c+1)*frames]
		for f := range row {
			row[f] = float32(rng.NormFloat64()) * mask[f]
		}
	}

	return latent, mask, shape
}
