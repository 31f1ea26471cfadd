package shell

import (
	"context"
	"time"
)

const (
	// RequestHandlerDurationMetric tracks request handler execution duration (OpenTelemetry-compatible).
	RequestHandlerDurationMetric = "requesthandler_handle_duration_seconds"
	// RequestHandlerCallsMetric tracks total request handler calls.
	RequestHandlerCallsMetric = "requesthandler_handle_calls_total"

	// StatusSuccess indicates successful request completion.
	StatusSuccess = "success"
	// StatusError indicates request processing failure.
	StatusError = "error"

	// LogMsgRequestStarted is logged when request processing begins.
	LogMsgRequestStarted = "handling request"
	// LogMsgRequestCompleted is logged when request processing succeeds.
	LogMsgRequestCompleted = "request handled"
	// LogMsgRequestFailed is logged when request processing fails.
	LogMsgRequestFailed = "request failed"

	// LogAttrRequestType identifies the request type in logs.
	LogAttrRequestType = "request_type"
	// LogAttrStatus indicates the request processing status.
	LogAttrStatus = "status"
	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"
	// LogAttrError contains error details.
	LogAttrError = "error"

	// SpanNameRequestHandle is the tracing span name for request handling.
	SpanNameRequestHandle = "pipeline.handle"
)

// LogRequestStart logs the beginning of request processing.
// The contextual logger is preferred when both loggers are configured.
func LogRequestStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, requestType string) {
	switch {
	case contextualLogger != nil:
		contextualLogger.InfoContext(ctx, LogMsgRequestStarted, LogAttrRequestType, requestType)
	case logger != nil:
		logger.Info(LogMsgRequestStarted, LogAttrRequestType, requestType)
	}
}

// LogRequestSuccess logs successful request completion with its duration.
func LogRequestSuccess(ctx context.Context, logger Logger, contextualLogger ContextualLogger, requestType string, duration time.Duration) {
	switch {
	case contextualLogger != nil:
		contextualLogger.InfoContext(ctx, LogMsgRequestCompleted,
			LogAttrRequestType, requestType,
			LogAttrDurationMS, durationToMilliseconds(duration))
	case logger != nil:
		logger.Info(LogMsgRequestCompleted,
			LogAttrRequestType, requestType,
			LogAttrDurationMS, durationToMilliseconds(duration))
	}
}

// LogRequestFailure logs a failed request with its duration.
// Failures are logged at warning severity, not error: the pipeline
// re-raises the original failure and the caller decides how fatal it is.
func LogRequestFailure(ctx context.Context, logger Logger, contextualLogger ContextualLogger, requestType string, duration time.Duration, err error) {
	switch {
	case contextualLogger != nil:
		contextualLogger.WarnContext(ctx, LogMsgRequestFailed,
			LogAttrRequestType, requestType,
			LogAttrDurationMS, durationToMilliseconds(duration),
			LogAttrError, err.Error())
	case logger != nil:
		logger.Warn(LogMsgRequestFailed,
			LogAttrRequestType, requestType,
			LogAttrDurationMS, durationToMilliseconds(duration),
			LogAttrError, err.Error())
	}
}

// RecordRequestMetrics records the duration histogram and call counter
// for one request handler invocation, preferring context-aware recording
// when the collector supports it.
func RecordRequestMetrics(ctx context.Context, collector MetricsCollector, requestType string, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := map[string]string{
		LogAttrRequestType: requestType,
		LogAttrStatus:      status,
	}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, RequestHandlerDurationMetric, duration, labels)
		contextual.IncrementCounterContext(ctx, RequestHandlerCallsMetric, labels)
		return
	}

	collector.RecordDuration(RequestHandlerDurationMetric, duration, labels)
	collector.IncrementCounter(RequestHandlerCallsMetric, labels)
}

// StartRequestSpan starts the tracing span for one request handler
// invocation. It returns the given context unchanged when no tracing
// collector is configured.
func StartRequestSpan(ctx context.Context, collector TracingCollector, requestType string) (context.Context, SpanContext) {
	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, SpanNameRequestHandle, map[string]string{
		LogAttrRequestType: requestType,
	})
}

// FinishRequestSpan completes the request span with the final status.
func FinishRequestSpan(collector TracingCollector, span SpanContext, status string, err error) {
	if collector == nil || span == nil {
		return
	}

	attrs := map[string]string{}
	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	collector.FinishSpan(span, status, attrs)
}

func durationToMilliseconds(duration time.Duration) float64 {
	return float64(duration.Nanoseconds()) / 1e6
}
