package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "email-relay-service"

// Collector holds counters used by the service.
type Collector struct {
	sent     metric.Int64Counter
	duration metric.Float64Histogram
	batches  metric.Int64Counter
}

// Init initializes OpenTelemetry metrics with a basic SDK provider.
func Init(opts ...sdkmetric.Option) (*Collector, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("resource init failed: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(append([]sdkmetric.Option{sdkmetric.WithResource(res)}, opts...)...)
	otel.SetMeterProvider(mp)

	return New(mp.Meter(serviceName))
}

// New builds a Collector on top of an existing meter.
func New(meter metric.Meter) (*Collector, error) {
	sent, err := meter.Int64Counter("emails_sent_total")
	if err != nil {
		return nil, fmt.Errorf("counter init failed: %w", err)
	}

	duration, err := meter.Float64Histogram("email_send_duration_seconds")
	if err != nil {
		return nil, fmt.Errorf("histogram init failed: %w", err)
	}

	batches, err := meter.Int64Counter("email_batches_total")
	if err != nil {
		return nil, fmt.Errorf("counter init failed: %w", err)
	}

	log.Info().Str("component", "metrics").Msg("collector initialized")
	return &Collector{sent: sent, duration: duration, batches: batches}, nil
}

// ObserveSend records the result of a single message transmission.
func (c *Collector) ObserveSend(ctx context.Context, status string, took time.Duration) {
	if c == nil {
		return
	}
	c.sent.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	c.duration.Record(ctx, took.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

// ObserveBatch records the overall outcome of one relay invocation.
func (c *Collector) ObserveBatch(ctx context.Context, status string) {
	if c == nil {
		return
	}
	c.batches.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
