package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "metrofleet/analyst-api"
)

// GetTracer returns the tracer for the analyst-api service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartTurnSpan starts a new span for one agent turn.
func StartTurnSpan(ctx context.Context, model string, historyLen int) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "agent.turn",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("agent.model", model),
			attribute.Int("agent.history_length", historyLen),
		),
	)
}

// StartToolSpan starts a new span for one tool invocation.
func StartToolSpan(ctx context.Context, toolName, callID string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "tool."+toolName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tool.name", toolName),
			attribute.String("tool.call_id", callID),
		),
	)
}

// StartQuerySpan starts a new span for one warehouse query.
func StartQuerySpan(ctx context.Context) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "warehouse.query",
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddStopEvent annotates a turn span with how it ended.
func AddStopEvent(span trace.Span, stopReason string, steps int) {
	span.AddEvent("turn.stop",
		trace.WithAttributes(
			attribute.String("stop.reason", stopReason),
			attribute.Int("stop.steps", steps),
		),
	)
}
