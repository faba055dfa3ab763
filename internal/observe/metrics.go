// Package observe holds the OpenTelemetry metric instruments for synthesis
// and asset provisioning. Nothing is exported unless the host installs a
// MeterProvider; tests should build their own with NewMetrics.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ekisa-team/supertonic-tts"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the metric instruments used by the plugin.
type Metrics struct {
	// SynthesisDuration tracks end-to-end synthesis latency, including the
	// style load and the WAV write.
	SynthesisDuration metric.Float64Histogram

	// SynthesisRequests counts synthesis calls. Use with attribute:
	//   attribute.String("status", ...)
	SynthesisRequests metric.Int64Counter

	// AssetDownloads counts fetched manifest entries. Use with attribute:
	//   attribute.String("status", ...)
	AssetDownloads metric.Int64Counter
}

// synthesis on CPU is slow; buckets reach well past a minute
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
}

// NewMetrics creates the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SynthesisDuration, err = m.Float64Histogram("supertonic.synthesis.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SynthesisRequests, err = m.Int64Counter("supertonic.synthesis.requests",
		metric.WithDescription("Total synthesis requests by status."),
	); err != nil {
		return nil, err
	}
	if met.AssetDownloads, err = m.Int64Counter("supertonic.asset.downloads",
		metric.WithDescription("Total model asset downloads by status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics built from
// otel.GetMeterProvider on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", StatusError)
	}
	return attribute.String("status", StatusOK)
}

// RecordSynthesis records one synthesis call that began at start.
func (m *Metrics) RecordSynthesis(ctx context.Context, start time.Time, err error) {
	attrs := metric.WithAttributes(status(err))
	m.SynthesisDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	m.SynthesisRequests.Add(ctx, 1, attrs)
}

// RecordDownload records one asset fetch.
func (m *Metrics) RecordDownload(ctx context.Context, err error) {
	m.AssetDownloads.Add(ctx, 1, metric.WithAttributes(status(err)))
}
