package stream

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName matches the package import path, the convention the teacher's
// observability package uses for its own named meters/tracers.
const meterName = "github.com/kbukum/iterflow/stream"

var streamMeter = otel.Meter(meterName)

// instruments holds the OpenTelemetry metric handles every
// BufferedIterator reports through. Exporter/provider wiring (the
// OTLP endpoint, export interval, resource attributes) stays an
// application bootstrap concern; this package only creates instruments
// against whatever global MeterProvider the host process installed.
type instruments struct {
	bufferFill  metric.Int64UpDownCounter
	pushedTotal metric.Int64Counter
}

var streamInstruments = newInstruments()

func newInstruments() *instruments {
	fill, _ := streamMeter.Int64UpDownCounter(
		"stream.buffer.fill",
		metric.WithDescription("current number of items held in a BufferedIterator's internal buffer"),
	)
	pushed, _ := streamMeter.Int64Counter(
		"stream.items.pushed",
		metric.WithDescription("total number of items pushed into a BufferedIterator's internal buffer"),
	)
	return &instruments{bufferFill: fill, pushedTotal: pushed}
}

func recordPush(delta int64) {
	ctx := context.Background()
	streamInstruments.pushedTotal.Add(ctx, delta)
	streamInstruments.bufferFill.Add(ctx, delta)
}

func recordDrain(delta int64) {
	streamInstruments.bufferFill.Add(context.Background(), -delta)
}
