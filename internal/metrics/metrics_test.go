package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveSend(context.Background(), "sent", time.Millisecond)
		c.ObserveBatch(context.Background(), "success")
	})
}

func TestCollectorRecordsSendsAndBatches(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	c, err := Init(sdkmetric.WithReader(reader))
	require.NoError(t, err)

	ctx := context.Background()
	c.ObserveSend(ctx, "sent", 10*time.Millisecond)
	c.ObserveSend(ctx, "failed", 5*time.Millisecond)
	c.ObserveBatch(ctx, "failed")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
			if m.Name == "emails_sent_total" {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				assert.Equal(t, int64(2), total)
			}
		}
	}
	assert.True(t, names["emails_sent_total"])
	assert.True(t, names["email_send_duration_seconds"])
	assert.True(t, names["email_batches_total"])
}
