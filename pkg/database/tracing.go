package database

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/moviereviews/backend/pkg/database"

var slowOpCfg struct {
	mu        sync.RWMutex
	threshold time.Duration
	logger    *slog.Logger
}

// SetSlowOperationLogging configures slow operation detection. Operations
// exceeding the threshold are logged as warnings with table, operation and
// duration. A zero threshold disables slow operation logging.
func SetSlowOperationLogging(threshold time.Duration, logger *slog.Logger) {
	slowOpCfg.mu.Lock()
	defer slowOpCfg.mu.Unlock()
	slowOpCfg.threshold = threshold
	slowOpCfg.logger = logger
}

func getSlowOperationConfig() (time.Duration, *slog.Logger) {
	slowOpCfg.mu.RLock()
	defer slowOpCfg.mu.RUnlock()
	return slowOpCfg.threshold, slowOpCfg.logger
}

// TraceOp starts a span for a DynamoDB call and times it. The returned
// function must be called when the call completes:
//
//	ctx, end := database.TraceOp(ctx, "MovieReviews", "Query")
//	out, err := client.Query(ctx, input)
//	end(err)
func TraceOp(ctx context.Context, table, operation string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dynamodb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "dynamodb"),
			attribute.String("db.operation", operation),
			attribute.StringSlice("aws.dynamodb.table_names", []string{table}),
		),
	)

	return ctx, func(err error) {
		elapsed := time.Since(start)
		OperationDuration.WithLabelValues(table, operation).Observe(elapsed.Seconds())
		if err != nil {
			OperationErrors.WithLabelValues(table, operation).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if threshold, logger := getSlowOperationConfig(); threshold > 0 && logger != nil && elapsed >= threshold {
			attrs := []any{
				slog.String("table", table),
				slog.String("operation", operation),
				slog.Duration("duration", elapsed),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			logger.WarnContext(ctx, "slow dynamodb operation", attrs...)
		}
	}
}
