package onnx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name, in, lang, want string
	}{
		{"adds period", "Hello world", "en", "<en>Hello world.</en>"},
		{"keeps question", "How are you?", "en", "<en>How are you?</en>"},
		{"collapses whitespace", "  a \n\t b  ", "en", "<en>a b.</en>"},
		{"punctuation spacing", "Yes , really !", "en", "<en>Yes, really!</en>"},
		{"dashes and quotes", "“Hi”—there", "en", `<en>"Hi"-there.</en>`},
		{"symbols to spaces", "a/b#c|d", "fr", "<fr>a b c d.</fr>"},
		{"removes hearts", "love ♥ you", "es", "<es>love you.</es>"},
		{"removes emoji", "great 😀 news", "en", "<en>great news.</en>"},
		{"expands at", "me@home", "en", "<en>me at home.</en>"},
		{"expands e.g.", "fruit, e.g., apples", "en", "<en>fruit, for example, apples.</en>"},
		{"duplicate quotes", `say ""hi""`, "en", `<en>say "hi"</en>`},
		{"underscore", "snake_case", "pt", "<pt>snake case.</pt>"},
		{"closing bracket terminates", "(aside)", "en", "<en>(aside)</en>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeText(tc.in, tc.lang)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeText_Decomposes(t *testing.T) {
	got, err := normalizeText("caf\u00e9", "fr")
	require.NoError(t, err)
	assert.Equal(t, "<fr>cafe\u0301.</fr>", got)
}

func TestNormalizeText_UnsupportedLanguage(t *testing.T) {
	_, err := normalizeText("hallo", "de")
	assert.ErrorIs(t, err, ErrUnsupportedLang)
}

func testIndexer() indexer {
	idx := make(indexer, 128)
	for i := range idx {
		idx[i] = -1
	}
	for r := 'a'; r <= 'z'; r++ {
		idx[r] = int64(r - 'a' + 1)
	}
	for _, r := range "<>/. " {
		idx[r] = int64(100 + r%20)
	}
	return idx
}

func TestEncodeText_DropsUnknown(t *testing.T) {
	idx := testIndexer()

	// NFKD splits ü into u and a combining mark the table does not cover
	ids, err := encodeText(idx, "hi \u00fc", "en")
	require.NoError(t, err)

	want := []int64{}
	for _, r := range "<en>hi u.</en>" {
		id, ok := idx.lookup(r)
		require.True(t, ok)
		want = append(want, id)
	}
	assert.Equal(t, want, ids)
}

func TestEncodeText_SkipsNegativeEntries(t *testing.T) {
	idx := testIndexer()
	ids, err := encodeText(idx, "ABC", "en")
	require.NoError(t, err)

	for _, id := range ids {
		assert.GreaterOrEqual(t, id, int64(0))
	}
	assert.Len(t, ids, len("<en>.</en>"))
}

func TestIndexerLookup(t *testing.T) {
	idx := indexer{-1, 5, 7}

	_, ok := idx.lookup(0)
	assert.False(t, ok)
	id, ok := idx.lookup(2)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	_, ok = idx.lookup(3)
	assert.False(t, ok)
	_, ok = idx.lookup(-4)
	assert.False(t, ok)
}

func TestLoadIndexer(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte("[-1, 0, 1, 2]"), 0o644))

	idx, err := loadIndexer(good)
	require.NoError(t, err)
	assert.Equal(t, indexer{-1, 0, 1, 2}, idx)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"a": 1}`), 0o644))
	_, err = loadIndexer(bad)
	assert.ErrorIs(t, err, ErrInvalidIndexer)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))
	_, err = loadIndexer(empty)
	assert.ErrorIs(t, err, ErrInvalidIndexer)
}

func TestParseConfig(t *testing.T) {
	raw := []byte(`{
		"ae": {"sample_rate": 44100, "base_chunk_size": 512},
		"ttl": {"chunk_compress_factor": 6, "latent_dim": 24},
		"dp": {"ignored": true}
	}`)

	cfg, err := parseConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, modelConfig{SampleRate: 44100, BaseChunkSize: 512, ChunkCompressFactor: 6, LatentDim: 24}, cfg)
	assert.Equal(t, 3072, cfg.chunkSize())
	assert.Equal(t, 144, cfg.latentChannels())
}

func TestParseConfig_Invalid(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":      `{"ae":`,
		"missing field": `{"ae": {"sample_rate": 44100, "base_chunk_size": 512}, "ttl": {"latent_dim": 24}}`,
		"string value":  `{"ae": {"sample_rate": "fast", "base_chunk_size": 512}, "ttl": {"chunk_compress_factor": 6, "latent_dim": 24}}`,
		"zero":          `{"ae": {"sample_rate": 0, "base_chunk_size": 512}, "ttl": {"chunk_compress_factor": 6, "latent_dim": 24}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.True(t, strings.Contains(err.Error(), "invalid model config"))
		})
	}
}
