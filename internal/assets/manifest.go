package assets

import (
	"fmt"
	"path"
	"time"
)

const (
	// DefaultBaseURL is the remote repository the model files are fetched from.
	DefaultBaseURL = "https://huggingface.co/Supertone/supertonic-2/resolve/main"
	// DefaultUserAgent is sent with every download request.
	DefaultUserAgent = "Mozilla/5.0"
	// DefaultTimeout bounds the wait for a response and for each body chunk.
	DefaultTimeout = 30 * time.Second
	// ChunkSize is the streaming copy buffer.
	ChunkSize = 1 << 20

	// OnnxDir holds the inference artifacts under the model root.
	OnnxDir = "onnx"
	// VoiceStylesDir holds the per-voice style profiles under the model root.
	VoiceStylesDir = "voice_styles"
)

var onnxFiles = [...]string{
	"tts.json",
	"unicode_indexer.json",
	"duration_predictor.onnx",
	"text_encoder.onnx",
	"vector_estimator.onnx",
	"vocoder.onnx",
}

// DefaultManifest lists the files a complete model root contains, as
// slash-separated paths relative to the root: the inference artifacts
// followed by F1, M1, F2, M2 ... F5, M5 style profiles.
func DefaultManifest() []string {
	out := make([]string, 0, len(onnxFiles)+10)
	for _, f := range onnxFiles {
		out = append(out, path.Join(OnnxDir, f))
	}
	for i := 1; i <= 5; i++ {
		out = append(out,
			path.Join(VoiceStylesDir, fmt.Sprintf("F%d.json", i)),
			path.Join(VoiceStylesDir, fmt.Sprintf("M%d.json", i)),
		)
	}
	return out
}
