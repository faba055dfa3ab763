package assets

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDoer struct {
	mock.Mock
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fileServer serves "content of <path>" for every manifest entry and counts
// requests. Paths listed in fail answer 404.
func fileServer(t *testing.T, fail ...string) (*httptest.Server, *atomic.Int64, *sync.Map) {
	t.Helper()
	var hits atomic.Int64
	var agents sync.Map

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		agents.Store(r.Header.Get("User-Agent"), true)

		rel := strings.TrimPrefix(r.URL.Path, "/")
		for _, f := range fail {
			if f == rel {
				http.NotFound(w, r)
				return
			}
		}
		_, _ = io.WriteString(w, "content of "+rel)
	}))
	t.Cleanup(srv.Close)

	return srv, &hits, &agents
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	require.Len(t, m, 16)

	assert.Equal(t, "onnx/tts.json", m[0])
	assert.Equal(t, "onnx/vocoder.onnx", m[5])
	assert.Equal(t, "voice_styles/F1.json", m[6])
	assert.Equal(t, "voice_styles/M1.json", m[7])
	assert.Equal(t, "voice_styles/M5.json", m[15])
}

func TestEnsure_DownloadsMissing(t *testing.T) {
	srv, hits, agents := fileServer(t)
	root := t.TempDir()

	p := New(root, WithBaseURL(srv.URL+"/"), WithLogger(quietLogger()))
	require.Len(t, p.Missing(), 16)

	report := p.Ensure(context.Background())

	assert.True(t, report.Complete())
	assert.Len(t, report.Downloaded, 16)
	assert.Empty(t, report.Present)
	assert.Equal(t, int64(16), hits.Load())
	assert.Empty(t, p.Missing())

	_, ok := agents.Load(DefaultUserAgent)
	assert.True(t, ok, "requests should carry the default user agent")

	data, err := os.ReadFile(filepath.Join(root, "voice_styles", "M3.json"))
	require.NoError(t, err)
	assert.Equal(t, "content of voice_styles/M3.json", string(data))
}

func TestEnsure_SecondRunIsIdempotent(t *testing.T) {
	srv, hits, _ := fileServer(t)
	root := t.TempDir()
	p := New(root, WithBaseURL(srv.URL), WithLogger(quietLogger()))

	require.True(t, p.Ensure(context.Background()).Complete())
	first := hits.Load()

	report := p.Ensure(context.Background())
	assert.Equal(t, first, hits.Load())
	assert.Len(t, report.Present, 16)
	assert.Empty(t, report.Downloaded)
}

func TestEnsure_AllPresentMakesNoRequests(t *testing.T) {
	root := t.TempDir()
	for _, rel := range DefaultManifest() {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	doer := &mockDoer{}
	p := New(root, WithHTTPClient(doer), WithLogger(quietLogger()))

	report := p.Ensure(context.Background())

	assert.True(t, report.Complete())
	assert.Len(t, report.Present, 16)
	doer.AssertNotCalled(t, "Do", mock.Anything)
}

func TestEnsure_FailureContinues(t *testing.T) {
	srv, hits, _ := fileServer(t, "onnx/text_encoder.onnx")
	root := t.TempDir()
	p := New(root, WithBaseURL(srv.URL), WithLogger(quietLogger()))

	report := p.Ensure(context.Background())

	assert.False(t, report.Complete())
	require.Contains(t, report.Failed, "onnx/text_encoder.onnx")
	assert.ErrorIs(t, report.Failed["onnx/text_encoder.onnx"], ErrUnexpectedStatus)
	assert.Len(t, report.Downloaded, 15)
	assert.Equal(t, int64(16), hits.Load())
	assert.Equal(t, []string{"onnx/text_encoder.onnx"}, p.Missing())

	entries, err := os.ReadDir(filepath.Join(root, "onnx"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".part"), "leftover temp file %s", e.Name())
	}
}

func TestEnsure_TransportErrorIsRecorded(t *testing.T) {
	root := t.TempDir()
	doer := &mockDoer{}
	doer.On("Do", mock.Anything).Return(nil, assert.AnError)

	p := New(root,
		WithHTTPClient(doer),
		WithManifest([]string{"onnx/tts.json", "voice_styles/F1.json"}),
		WithLogger(quietLogger()),
	)

	report := p.Ensure(context.Background())

	assert.Len(t, report.Failed, 2)
	assert.ErrorIs(t, report.Failed["onnx/tts.json"], assert.AnError)
	doer.AssertNumberOfCalls(t, "Do", 2)
}

func TestEnsure_IdleTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "partial")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	root := t.TempDir()
	p := New(root,
		WithBaseURL(srv.URL),
		WithTimeout(50*time.Millisecond),
		WithManifest([]string{"onnx/vocoder.onnx"}),
		WithLogger(quietLogger()),
	)

	report := p.Ensure(context.Background())

	require.Contains(t, report.Failed, "onnx/vocoder.onnx")
	assert.ErrorIs(t, report.Failed["onnx/vocoder.onnx"], ErrTimeout)
	_, err := os.Stat(filepath.Join(root, "onnx", "vocoder.onnx"))
	assert.True(t, os.IsNotExist(err))
}

func TestEnsure_CanceledContext(t *testing.T) {
	doer := &mockDoer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(t.TempDir(), WithHTTPClient(doer), WithLogger(quietLogger()))
	report := p.Ensure(ctx)

	assert.Len(t, report.Failed, 16)
	doer.AssertNotCalled(t, "Do", mock.Anything)
}
