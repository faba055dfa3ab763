package onnx

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// modelConfig is the subset of tts.json the pipeline needs.
type modelConfig struct {
	SampleRate          int
	BaseChunkSize       int
	ChunkCompressFactor int
	LatentDim           int
}

func loadConfig(path string) (modelConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return modelConfig{}, fmt.Errorf("failed to read model config: %w", err)
	}

	return parseConfig(raw)
}

func parseConfig(raw []byte) (modelConfig, error) {
	if !gjson.ValidBytes(raw) {
		return modelConfig{}, fmt.Errorf("%w: not valid JSON", ErrInvalidConfig)
	}

	res := gjson.GetManyBytes(raw,
		"ae.sample_rate",
		"ae.base_chunk_size",
		"ttl.chunk_compress_factor",
		"ttl.latent_dim",
	)

	names := [...]string{"ae.sample_rate", "ae.base_chunk_size", "ttl.chunk_compress_factor", "ttl.latent_dim"}
	vals := make([]int, len(res))
	for i, r := range res {
		if r.Type != gjson.Number || r.Int() <= 0 {
			return modelConfig{}, fmt.Errorf("%w: %s must be a positive number", ErrInvalidConfig, names[i])
		}
		vals[i] = int(r.Int())
	}

	return modelConfig{
		SampleRate:          vals[0],
		BaseChunkSize:       vals[1],
		ChunkCompressFactor: vals[2],
		LatentDim:           vals[3],
	}, nil
}

// chunkSize is the number of waveform samples one latent frame covers.
func (c modelConfig) chunkSize() int {
	return c.BaseChunkSize * c.ChunkCompressFactor
}

// latentChannels is the channel count of the compressed latent.
func (c modelConfig) latentChannels() int {
	return c.LatentDim * c.ChunkCompressFactor
}
