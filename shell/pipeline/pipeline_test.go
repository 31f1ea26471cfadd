package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
	"github.com/librarylab/lending-go/shell/memcache"
	"github.com/librarylab/lending-go/shell/pipeline"
	"github.com/librarylab/lending-go/testutil/testdoubles"
)

// testQuery is a cacheable request used throughout the pipeline tests.
type testQuery struct {
	ID  uuid.UUID
	Top int
}

func (q testQuery) RequestType() string    { return "TestQuery" }
func (q testQuery) CacheableRequest() bool { return true }

// testCommand is a non-cacheable request.
type testCommand struct {
	ID uuid.UUID
}

func (c testCommand) RequestType() string { return "TestCommand" }

type testResult struct {
	Value string
}

func countingHandler(calls *int, result testResult, err error) shell.Handler[testQuery, testResult] {
	return shell.HandlerFunc[testQuery, testResult](func(_ context.Context, _ testQuery) (testResult, error) {
		*calls++
		return result, err
	})
}

func Test_Chain_AppliesStagesInListedOrder(t *testing.T) {
	order := make([]string, 0)
	recorder := func(name string) pipeline.Middleware[testQuery, testResult] {
		return func(next shell.Handler[testQuery, testResult]) shell.Handler[testQuery, testResult] {
			return shell.HandlerFunc[testQuery, testResult](func(ctx context.Context, q testQuery) (testResult, error) {
				order = append(order, name)
				return next.Handle(ctx, q)
			})
		}
	}

	handler := shell.HandlerFunc[testQuery, testResult](func(_ context.Context, _ testQuery) (testResult, error) {
		order = append(order, "handler")
		return testResult{}, nil
	})

	chained := pipeline.Chain(handler, recorder("logging"), recorder("validation"), recorder("caching"))
	_, err := chained.Handle(context.Background(), testQuery{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"logging", "validation", "caching", "handler"}, order)
}

func Test_Validation_ZeroValidators_PassesThrough(t *testing.T) {
	calls := 0
	handler := pipeline.Chain(
		countingHandler(&calls, testResult{Value: "ok"}, nil),
		pipeline.Validation[testQuery, testResult](),
	)

	result, err := handler.Handle(context.Background(), testQuery{})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result.Value)
	assert.Equal(t, 1, calls)
}

func Test_Validation_CollectsAllViolations(t *testing.T) {
	calls := 0

	idRule := shell.ValidatorFunc[testQuery](func(_ context.Context, q testQuery) []core.FieldViolation {
		if q.ID == uuid.Nil {
			return []core.FieldViolation{{Field: "id", Message: "must not be empty"}}
		}
		return nil
	})
	topRule := shell.ValidatorFunc[testQuery](func(_ context.Context, q testQuery) []core.FieldViolation {
		if q.Top < 1 {
			return []core.FieldViolation{{Field: "top", Message: "must be positive"}}
		}
		return nil
	})

	handler := pipeline.Chain(
		countingHandler(&calls, testResult{}, nil),
		pipeline.Validation[testQuery, testResult](idRule, topRule),
	)

	_, err := handler.Handle(context.Background(), testQuery{ID: uuid.Nil, Top: 0})

	var validationFailed core.ValidationFailedError
	assert.ErrorAs(t, err, &validationFailed)
	assert.Equal(t, []core.FieldViolation{
		{Field: "id", Message: "must not be empty"},
		{Field: "top", Message: "must be positive"},
	}, validationFailed.Violations)
	assert.Equal(t, 0, calls, "downstream must not run on validation failure")
}

func Test_Validation_ValidRequestReachesHandler(t *testing.T) {
	calls := 0
	rule := shell.ValidatorFunc[testQuery](func(_ context.Context, _ testQuery) []core.FieldViolation {
		return nil
	})

	handler := pipeline.Chain(
		countingHandler(&calls, testResult{Value: "ok"}, nil),
		pipeline.Validation[testQuery, testResult](rule),
	)

	result, err := handler.Handle(context.Background(), testQuery{ID: uuid.New(), Top: 5})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result.Value)
	assert.Equal(t, 1, calls)
}

func Test_Caching_HitSkipsDownstream(t *testing.T) {
	calls := 0
	cache := memcache.New()
	handler := pipeline.Chain(
		countingHandler(&calls, testResult{Value: "fresh"}, nil),
		pipeline.Caching[testQuery, testResult](cache),
	)
	query := testQuery{ID: uuid.New(), Top: 3}

	first, err := handler.Handle(context.Background(), query)
	assert.NoError(t, err)

	second, err := handler.Handle(context.Background(), query)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "identical requests within the TTL hit the cache")
}

func Test_Caching_DistinctFieldValuesProduceDistinctKeys(t *testing.T) {
	calls := 0
	cache := memcache.New()
	handler := pipeline.Chain(
		countingHandler(&calls, testResult{}, nil),
		pipeline.Caching[testQuery, testResult](cache),
	)

	_, _ = handler.Handle(context.Background(), testQuery{ID: uuid.New(), Top: 3})
	_, _ = handler.Handle(context.Background(), testQuery{ID: uuid.New(), Top: 3})

	assert.Equal(t, 2, calls)
}

func Test_Caching_ExpiredEntryCallsDownstreamAgain(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := memcache.New(memcache.WithClock(func() time.Time { return now }))

	calls := 0
	handler := pipeline.Chain(
		countingHandler(&calls, testResult{}, nil),
		pipeline.Caching[testQuery, testResult](cache),
	)
	query := testQuery{ID: uuid.New(), Top: 1}

	_, _ = handler.Handle(context.Background(), query)
	now = now.Add(memcache.DefaultTTL + time.Second)
	_, _ = handler.Handle(context.Background(), query)

	assert.Equal(t, 2, calls)
}

func Test_Caching_FailuresAreNeverCached(t *testing.T) {
	calls := 0
	cache := memcache.New()
	boom := errors.New("boom")
	handler := pipeline.Chain(
		countingHandler(&calls, testResult{}, boom),
		pipeline.Caching[testQuery, testResult](cache),
	)
	query := testQuery{ID: uuid.New(), Top: 1}

	_, err := handler.Handle(context.Background(), query)
	assert.ErrorIs(t, err, boom)

	_, err = handler.Handle(context.Background(), query)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cache.Len())
}

func Test_Caching_NonCacheableRequestBypassesCache(t *testing.T) {
	calls := 0
	cache := memcache.New()
	handler := pipeline.Chain(
		shell.HandlerFunc[testCommand, testResult](func(_ context.Context, _ testCommand) (testResult, error) {
			calls++
			return testResult{}, nil
		}),
		pipeline.Caching[testCommand, testResult](cache),
	)
	command := testCommand{ID: uuid.New()}

	_, _ = handler.Handle(context.Background(), command)
	_, _ = handler.Handle(context.Background(), command)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cache.Len())
}

func Test_BuildCacheKey_DeterministicForEqualRequests(t *testing.T) {
	id := uuid.New()

	first, ok := pipeline.BuildCacheKey(testQuery{ID: id, Top: 5})
	assert.True(t, ok)

	second, ok := pipeline.BuildCacheKey(testQuery{ID: id, Top: 5})
	assert.True(t, ok)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "TestQuery:")
}

func Test_BuildCacheKey_DiffersPerFieldValue(t *testing.T) {
	id := uuid.New()

	first, _ := pipeline.BuildCacheKey(testQuery{ID: id, Top: 5})
	second, _ := pipeline.BuildCacheKey(testQuery{ID: id, Top: 6})

	assert.NotEqual(t, first, second)
}

func Test_Logging_SuccessLogsStartAndCompletion(t *testing.T) {
	logger := testdoubles.NewLoggerSpy()
	metrics := testdoubles.NewMetricsCollectorSpy()
	handler := pipeline.Chain(
		shell.HandlerFunc[testQuery, testResult](func(_ context.Context, _ testQuery) (testResult, error) {
			return testResult{Value: "ok"}, nil
		}),
		pipeline.Logging[testQuery, testResult](
			pipeline.WithLogger(logger),
			pipeline.WithMetrics(metrics),
		),
	)

	_, err := handler.Handle(context.Background(), testQuery{ID: uuid.New(), Top: 1})
	assert.NoError(t, err)

	records := logger.Records()
	assert.Len(t, records, 2)
	assert.Equal(t, shell.LogMsgRequestStarted, records[0].Message)
	assert.Equal(t, shell.LogMsgRequestCompleted, records[1].Message)

	durations := metrics.Durations()
	assert.Len(t, durations, 1)
	assert.Equal(t, shell.RequestHandlerDurationMetric, durations[0].Metric)
	assert.Equal(t, "TestQuery", durations[0].Labels[shell.LogAttrRequestType])
	assert.Equal(t, shell.StatusSuccess, durations[0].Labels[shell.LogAttrStatus])

	counters := metrics.Counters()
	assert.Len(t, counters, 1)
	assert.Equal(t, shell.RequestHandlerCallsMetric, counters[0].Metric)
}

func Test_Logging_FailureLogsWarningAndReRaisesError(t *testing.T) {
	logger := testdoubles.NewLoggerSpy()
	metrics := testdoubles.NewMetricsCollectorSpy()
	boom := errors.New("boom")
	handler := pipeline.Chain(
		shell.HandlerFunc[testQuery, testResult](func(_ context.Context, _ testQuery) (testResult, error) {
			return testResult{}, boom
		}),
		pipeline.Logging[testQuery, testResult](
			pipeline.WithLogger(logger),
			pipeline.WithMetrics(metrics),
		),
	)

	_, err := handler.Handle(context.Background(), testQuery{ID: uuid.New(), Top: 1})

	assert.ErrorIs(t, err, boom, "the original failure must pass through unchanged")

	warnings := logger.RecordsWithLevel("warn")
	assert.Len(t, warnings, 1)
	assert.Equal(t, shell.LogMsgRequestFailed, warnings[0].Message)

	counters := metrics.Counters()
	assert.Len(t, counters, 1)
	assert.Equal(t, shell.StatusError, counters[0].Labels[shell.LogAttrStatus])
}

func Test_Logging_PrefersContextualLogger(t *testing.T) {
	logger := testdoubles.NewLoggerSpy()
	contextual := testdoubles.NewContextualLoggerSpy()
	handler := pipeline.Chain(
		shell.HandlerFunc[testQuery, testResult](func(_ context.Context, _ testQuery) (testResult, error) {
			return testResult{}, nil
		}),
		pipeline.Logging[testQuery, testResult](
			pipeline.WithLogger(logger),
			pipeline.WithContextualLogger(contextual),
		),
	)

	_, err := handler.Handle(context.Background(), testQuery{ID: uuid.New(), Top: 1})

	assert.NoError(t, err)
	assert.Empty(t, logger.Records())
	assert.Len(t, contextual.Records(), 2)
}

func Test_Logging_RecordsSpanWithFinalStatus(t *testing.T) {
	tracing := testdoubles.NewTracingCollectorSpy()
	handler := pipeline.Chain(
		shell.HandlerFunc[testQuery, testResult](func(_ context.Context, _ testQuery) (testResult, error) {
			return testResult{}, errors.New("boom")
		}),
		pipeline.Logging[testQuery, testResult](pipeline.WithTracing(tracing)),
	)

	_, _ = handler.Handle(context.Background(), testQuery{ID: uuid.New(), Top: 1})

	spans := tracing.Spans()
	assert.Len(t, spans, 1)
	assert.Equal(t, shell.SpanNameRequestHandle, spans[0].Name)
	assert.Equal(t, "TestQuery", spans[0].StartAttrs[shell.LogAttrRequestType])
	assert.Equal(t, shell.StatusError, spans[0].Status)
	assert.True(t, spans[0].Finished)
}
