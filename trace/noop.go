// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/avalanchego/trace"
)

var _ trace.Tracer = (*noOpTracer)(nil)

type noOpTracer struct {
	t oteltrace.Tracer
}

// Noop returns a tracer whose spans are never recorded.
func Noop(name string) trace.Tracer {
	return &noOpTracer{
		t: oteltrace.NewNoopTracerProvider().Tracer(name),
	}
}

func (n noOpTracer) Start(
	ctx context.Context,
	spanName string,
	opts ...oteltrace.SpanStartOption,
) (context.Context, oteltrace.Span) {
	return n.t.Start(ctx, spanName, opts...)
}

func (noOpTracer) Close() error {
	return nil
}
