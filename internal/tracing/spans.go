package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys used across diffscope.
const (
	// Diff attributes
	AttrDiffRef       = "diff.ref"
	AttrDiffBytes     = "diff.bytes"
	AttrDiffFileCount = "diff.file_count"

	// File attributes
	AttrFileKey    = "file.key"
	AttrFilePath   = "file.path"
	AttrFileBinary = "file.binary"

	// Review attributes
	AttrReviewSession = "review.session"
	AttrReviewViewed  = "review.viewed_count"
	AttrReviewTotal   = "review.total_count"

	// Render attributes
	AttrRenderCards  = "render.visible_cards"
	AttrRenderHeight = "render.total_height"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Span names for the hot paths.
const (
	SpanFetchDiff    = "diff.fetch"
	SpanSplitDiff    = "diff.split"
	SpanParseFile    = "diff.parse_file"
	SpanRenderFrame  = "render.frame"
	SpanSaveReviews  = "review.save"
	SpanLoadReviews  = "review.load"
	SpanFetchContent = "content.fetch"
)

// Start opens a span on the globally installed tracer. Before a Provider
// is created (or when tracing is disabled) the global tracer is a no-op,
// so call sites never need to check whether tracing is on.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// End finishes span, marking it failed when err is non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	span.End()
}
