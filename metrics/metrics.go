package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

/* Recorder exposes delivery metrics through OpenTelemetry with a
 * Prometheus exporter. Counters only: the service has no queues or
 * workers to observe, just per-request outcomes.
 */
type Recorder struct {
	meterProvider *sdkmetric.MeterProvider

	sentCounter       metric.Int64Counter
	validationCounter metric.Int64Counter
	uploadCounter     metric.Int64Counter
}

// Send outcomes recorded on the messages counter.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid_url"
	OutcomeRejected = "upstream_rejected"
	OutcomeNetwork  = "network_error"
)

// NewRecorder creates the metrics recorder and registers its instruments.
func NewRecorder() (*Recorder, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"webhook-messenger",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	r := &Recorder{meterProvider: meterProvider}

	r.sentCounter, err = meter.Int64Counter(
		"webhook.messages.sent",
		metric.WithDescription("Messages dispatched to webhook endpoints, by outcome"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sent counter: %w", err)
	}

	r.validationCounter, err = meter.Int64Counter(
		"webhook.validations",
		metric.WithDescription("Webhook URL validation requests, by outcome"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating validation counter: %w", err)
	}

	r.uploadCounter, err = meter.Int64Counter(
		"webhook.uploads",
		metric.WithDescription("Image uploads accepted or rejected"),
		metric.WithUnit("{uploads}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating upload counter: %w", err)
	}

	return r, nil
}

// RecordSend counts one delivery attempt with its outcome.
// A nil Recorder is a no-op so callers need no metrics wiring in tests.
func (r *Recorder) RecordSend(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.sentCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordValidation counts one validation request.
func (r *Recorder) RecordValidation(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.validationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordUpload counts one upload attempt.
func (r *Recorder) RecordUpload(ctx context.Context, accepted bool) {
	if r == nil {
		return
	}
	r.uploadCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("accepted", accepted)))
}

// Handler returns the Prometheus scrape endpoint.
func (r *Recorder) Handler() http.Handler {
	return promhttp.Handler()
}

// Shutdown flushes and stops the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	return r.meterProvider.Shutdown(ctx)
}
