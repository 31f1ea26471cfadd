package pipeline

import (
	"context"
	"time"

	"github.com/librarylab/lending-go/shell"
)

// loggingStage instruments one handler invocation with logging, metrics
// and tracing. It always measures wall-clock duration around the
// downstream call and re-raises failures unchanged.
type loggingStage[Req shell.Request, Res any] struct {
	next             shell.Handler[Req, Res]
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
}

// LoggingOption configures the logging stage.
type LoggingOption func(*loggingConfig)

type loggingConfig struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
}

// WithLogger sets the basic logger for the logging stage.
func WithLogger(logger shell.Logger) LoggingOption {
	return func(c *loggingConfig) {
		c.logger = logger
	}
}

// WithContextualLogger sets the context-aware logger for the logging stage.
// It takes precedence over the basic logger when both are configured.
func WithContextualLogger(logger shell.ContextualLogger) LoggingOption {
	return func(c *loggingConfig) {
		c.contextualLogger = logger
	}
}

// WithMetrics sets the metrics collector for the logging stage.
func WithMetrics(collector shell.MetricsCollector) LoggingOption {
	return func(c *loggingConfig) {
		c.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector for the logging stage.
func WithTracing(collector shell.TracingCollector) LoggingOption {
	return func(c *loggingConfig) {
		c.tracingCollector = collector
	}
}

// Logging creates the outermost pipeline stage. It records "handling
// {request-type}" before invoking downstream, the duration on success,
// and the failure (at warning severity) with duration before re-raising
// the original error unchanged.
func Logging[Req shell.Request, Res any](options ...LoggingOption) Middleware[Req, Res] {
	config := loggingConfig{}
	for _, option := range options {
		option(&config)
	}

	return func(next shell.Handler[Req, Res]) shell.Handler[Req, Res] {
		return loggingStage[Req, Res]{
			next:             next,
			logger:           config.logger,
			contextualLogger: config.contextualLogger,
			metricsCollector: config.metricsCollector,
			tracingCollector: config.tracingCollector,
		}
	}
}

// Handle executes the downstream stage with full instrumentation.
func (s loggingStage[Req, Res]) Handle(ctx context.Context, request Req) (Res, error) {
	requestType := request.RequestType()

	start := time.Now()
	ctx, span := shell.StartRequestSpan(ctx, s.tracingCollector, requestType)
	shell.LogRequestStart(ctx, s.logger, s.contextualLogger, requestType)

	response, err := s.next.Handle(ctx, request)
	duration := time.Since(start)

	if err != nil {
		shell.LogRequestFailure(ctx, s.logger, s.contextualLogger, requestType, duration, err)
		shell.RecordRequestMetrics(ctx, s.metricsCollector, requestType, shell.StatusError, duration)
		shell.FinishRequestSpan(s.tracingCollector, span, shell.StatusError, err)

		return response, err
	}

	shell.LogRequestSuccess(ctx, s.logger, s.contextualLogger, requestType, duration)
	shell.RecordRequestMetrics(ctx, s.metricsCollector, requestType, shell.StatusSuccess, duration)
	shell.FinishRequestSpan(s.tracingCollector, span, shell.StatusSuccess, nil)

	return response, nil
}
