package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for goslm operations
	TracerName = "github.com/willibrandon/goslm"
)

// Common attribute keys
const (
	AttrBackend   = attribute.Key("slm.backend")
	AttrOperation = attribute.Key("slm.operation")
	AttrProfile   = attribute.Key("slm.profile")
	AttrTarget    = attribute.Key("slm.profile.target")
	AttrProjectID = attribute.Key("slm.project.id")
	AttrPriority  = attribute.Key("slm.priority")
	AttrSolution  = attribute.Key("slm.solution")
)

// StartStoreSpan starts a span for a profile store operation
func StartStoreSpan(ctx context.Context, backend, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		AttrBackend.String(backend),
		AttrOperation.String(operation),
	)
	return StartSpan(ctx, TracerName, "settings."+operation, trace.WithAttributes(attrs...))
}

// StartCommandSpan starts a span for one CLI command
func StartCommandSpan(ctx context.Context, command, solutionPath string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "command."+command,
		trace.WithAttributes(
			AttrOperation.String(command),
			AttrSolution.String(solutionPath),
		),
	)
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
