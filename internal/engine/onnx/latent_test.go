package onnx

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengthToMask(t *testing.T) {
	assert.Equal(t, []float32{1, 1, 0, 0}, lengthToMask(2, 4))
	assert.Equal(t, []float32{1, 1}, lengthToMask(5, 2))
	assert.Equal(t, []float32{0, 0}, lengthToMask(0, 2))
}

func TestSampleNoisyLatent(t *testing.T) {
	cfg := modelConfig{SampleRate: 100, BaseChunkSize: 5, ChunkCompressFactor: 2, LatentDim: 3}
	rng := rand.New(rand.NewPCG(1, 2))

	// 1.05s * 100 = 105 samples over chunks of 10 -> 11 frames
	latent, mask, shape := sampleNoisyLatent(rng, cfg, 1.05)

	assert.Equal(t, latentShape{Channels: 6, Frames: 11}, shape)
	require.Len(t, latent, 66)
	require.Len(t, mask, 11)
	for _, m := range mask {
		assert.Equal(t, float32(1), m)
	}

	var nonZero int
	for _, v := range latent {
		if v != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 0)
}

func TestSampleNoisyLatent_MinimumOneFrame(t *testing.T) {
	cfg := modelConfig{SampleRate: 100, BaseChunkSize: 5, ChunkCompressFactor: 2, LatentDim: 1}
	latent, mask, shape := sampleNoisyLatent(rand.New(rand.NewPCG(3, 4)), cfg, 0)

	assert.Equal(t, 1, shape.Frames)
	assert.Equal(t, []float32{0}, mask)
	assert.Equal(t, []float32{0, 0}, latent)
}

func TestSampleNoisyLatent_Deterministic(t *testing.T) {
	cfg := modelConfig{SampleRate: 100, BaseChunkSize: 4, ChunkCompressFactor: 1, LatentDim: 2}

	a, _, _ := sampleNoisyLatent(rand.New(rand.NewPCG(7, 7)), cfg, 0.5)
	b, _, _ := sampleNoisyLatent(rand.New(rand.NewPCG(7, 7)), cfg, 0.5)
	assert.Equal(t, a, b)
}
