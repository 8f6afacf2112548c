package websocket

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "slapulse.websocket"

// Metrics records hub activity. A nil *Metrics records nothing.
type Metrics struct {
	connectionsTotal   metric.Int64Counter
	connectionsActive  metric.Int64UpDownCounter
	connectionDuration metric.Float64Histogram
	messagesSent       metric.Int64Counter
	messageBytes       metric.Int64Counter
	droppedMessages    metric.Int64Counter
	broadcasts         metric.Int64Counter
}

// NewMetrics registers the websocket instruments on meter. A nil meter uses a no-op provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(meterName)
	}

	var (
		m    Metrics
		err  error
		errs []error
	)

	m.connectionsTotal, err = meter.Int64Counter("websocket_connections_total",
		metric.WithDescription("Total number of WebSocket connections"))
	errs = append(errs, err)

	m.connectionsActive, err = meter.Int64UpDownCounter("websocket_connections_active",
		metric.WithDescription("Number of active WebSocket connections"))
	errs = append(errs, err)

	m.connectionDuration, err = meter.Float64Histogram("websocket_connection_duration_seconds",
		metric.WithDescription("Duration of WebSocket connections"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.messagesSent, err = meter.Int64Counter("websocket_messages_sent_total",
		metric.WithDescription("Messages written to clients by type"))
	errs = append(errs, err)

	m.messageBytes, err = meter.Int64Counter("websocket_message_bytes_total",
		metric.WithDescription("Bytes written to clients"),
		metric.WithUnit("By"))
	errs = append(errs, err)

	m.droppedMessages, err = meter.Int64Counter("websocket_dropped_messages_total",
		metric.WithDescription("Messages dropped because a queue was full"))
	errs = append(errs, err)

	m.broadcasts, err = meter.Int64Counter("websocket_broadcasts_total",
		metric.WithDescription("Broadcast operations by message type"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Metrics) recordConnect(ctx context.Context) {
	if m == nil {
		return
	}
	m.connectionsTotal.Add(ctx, 1)
	m.connectionsActive.Add(ctx, 1)
}

func (m *Metrics) recordDisconnect(ctx context.Context, connected time.Duration, reason string) {
	if m == nil {
		return
	}
	m.connectionsActive.Add(ctx, -1)
	m.connectionDuration.Record(ctx, connected.Seconds(),
		metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *Metrics) recordSent(ctx context.Context, size int) {
	if m == nil {
		return
	}
	m.messagesSent.Add(ctx, 1)
	m.messageBytes.Add(ctx, int64(size))
}

func (m *Metrics) recordDropped(ctx context.Context, queue string) {
	if m == nil {
		return
	}
	m.droppedMessages.Add(ctx, 1, metric.WithAttributes(attribute.String("queue", queue)))
}

func (m *Metrics) recordBroadcast(ctx context.Context, msgType string) {
	if m == nil {
		return
	}
	m.broadcasts.Add(ctx, 1, metric.WithAttributes(attribute.String("type", msgType)))
}
