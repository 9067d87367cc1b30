package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "discord-jira-bot"

// SpanContext pairs a started span with the context carrying it.
type SpanContext struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan starts a child of the span in ctx, if any.  End must be called.
//
//	sc := logger.StartSpan(ctx, "command.ver")
//	defer sc.End()
//	ctx = sc.Context()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) *SpanContext {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, opts...)
	return &SpanContext{ctx: ctx, span: span}
}

// StartSpanFromTraceID continues a trace that crossed a queue.  traceID is
// the hex id recorded when the job was enqueued; an empty or invalid id
// starts a fresh trace.
func StartSpanFromTraceID(ctx context.Context, traceID, name string, opts ...trace.SpanStartOption) *SpanContext {
	tid, err := trace.TraceIDFromHex(traceID)
	if traceID == "" || err != nil {
		return StartSpan(ctx, name, opts...)
	}
	remote := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	opts = append(opts, trace.WithLinks(trace.Link{SpanContext: remote}))
	return StartSpan(trace.ContextWithRemoteSpanContext(ctx, remote), name, opts...)
}

func (sc *SpanContext) Context() context.Context {
	return sc.ctx
}

func (sc *SpanContext) End() {
	if sc.span != nil {
		sc.span.End()
	}
}

// RecordError is a no-op for nil errors.
func (sc *SpanContext) RecordError(err error) {
	if sc.span != nil && err != nil {
		sc.span.RecordError(err)
	}
}
