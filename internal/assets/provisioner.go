// Package assets makes sure the model files exist under a local root,
// fetching any that are missing from the remote repository.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ekisa-team/supertonic-tts/internal/observe"
	"github.com/ekisa-team/supertonic-tts/internal/xfs"
)

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provisioner downloads missing manifest entries into a model root.
type Provisioner struct {
	root      string
	baseURL   string
	userAgent string
	timeout   time.Duration
	manifest  []string
	client    Doer
	metrics   *observe.Metrics
	logger    *slog.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithBaseURL overrides the remote repository URL.
func WithBaseURL(url string) Option {
	return func(p *Provisioner) {
		if url != "" {
			p.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Provisioner) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithTimeout overrides the per-file idle timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Provisioner) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c Doer) Option {
	return func(p *Provisioner) {
		if c != nil {
			p.client = c
		}
	}
}

// WithManifest replaces the list of files to provision.
func WithManifest(entries []string) Option {
	return func(p *Provisioner) {
		p.manifest = append([]string(nil), entries...)
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Provisioner) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provisioner) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Provisioner for root.
func New(root string, opts ...Option) *Provisioner {
	p := &Provisioner{
		root:      root,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		manifest:  DefaultManifest(),
		client:    &http.Client{},
		metrics:   observe.DefaultMetrics(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Root returns the model root directory.
func (p *Provisioner) Root() string {
	return p.root
}

// Report is the outcome of Ensure, keyed by manifest entry.
type Report struct {
	Present    []string
	Downloaded []string
	Failed     map[string]error
}

// Complete reports whether every manifest entry is now on disk.
func (r *Report) Complete() bool {
	return len(r.Failed) == 0
}

// Missing lists the manifest entries absent from the root.
func (p *Provisioner) Missing() []string {
	var missing []string
	for _, rel := range p.manifest {
		if !xfs.Exists(p.localPath(rel)) {
			missing = append(missing, rel)
		}
	}
	return missing
}

// Ensure downloads every missing manifest entry, one at a time. A failed
// entry is logged and recorded in the report; the remaining entries are
// still attempted. Only presence is checked, not content.
func (p *Provisioner) Ensure(ctx context.Context) *Report {
	report := &Report{Failed: map[string]error{}}

	for _, rel := range p.manifest {
		dst := p.localPath(rel)
		if xfs.Exists(dst) {
			report.Present = append(report.Present, rel)
			continue
		}

		if err := ctx.Err(); err != nil {
			report.Failed[rel] = err
			continue
		}

		url := p.baseURL + "/" + rel
		p.logger.Info("Downloading model asset", "url", url, "path", dst)

		n, err := p.fetch(ctx, url, dst)
		p.metrics.RecordDownload(ctx, err)
		if err != nil {
			p.logger.Error("Failed to download model asset", "url", url, "path", dst, "error", err)
			report.Failed[rel] = err
			continue
		}

		p.logger.Info("Model asset downloaded", "path", dst, "size", humanize.Bytes(uint64(n)))
		report.Downloaded = append(report.Downloaded, rel)
	}

	return report
}

func (p *Provisioner) localPath(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

// fetch streams url into dst through a sibling temp file. The timeout is
// re-armed after the response headers and after every chunk.
func (p *Provisioner) fetch(ctx context.Context, url, dst string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	timer := time.AfterFunc(p.timeout, func() { cancel(ErrTimeout) })
	defer timer.Stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, p.cause(ctx, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	timer.Reset(p.timeout)

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	var written int64
	buf := make([]byte, ChunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := tmp.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("failed to write file: %w", err)
			}
			written += int64(n)
			timer.Reset(p.timeout)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return written, p.cause(ctx, fmt.Errorf("failed to read body: %w", rerr))
		}
	}

	if err := tmp.Chmod(0o644); err != nil {
		return written, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return written, fmt.Errorf("failed to close file: %w", err)
	}
	tmp = nil

	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return written, fmt.Errorf("failed to move file into place: %w", err)
	}

	return written, nil
}

func (p *Provisioner) cause(ctx context.Context, err error) error {
	if c := context.Cause(ctx); errors.Is(c, ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
