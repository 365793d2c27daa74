package application

import (
	"context"
	"time"

	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/observability"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/observability/logctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const spanPrefix = "UC."

// Observe opens a use-case span and returns the derived context plus a
// finish callback. The callback records the span status, the RED metrics
// (usecase_requests_total, usecase_duration_seconds) and one use_case_done
// log line; call it exactly once with the operation's final error.
func Observe(
	ctx context.Context,
	tel observability.Observability,
	base observability.Logger,
	useCase string,
	attrs ...attribute.KeyValue,
) (context.Context, func(err error)) {
	if tel == nil {
		tel = observability.Nop()
	}
	if base == nil {
		base = tel.Logger()
	}
	logger := logctx.FromOr(ctx, base).With(observability.F("use_case", useCase))

	reqCounter := tel.Metrics().Counter(observability.MUsecaseRequests)
	durHistogram := tel.Metrics().Histogram(observability.MUsecaseDuration)

	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := tel.Tracer().Start(ctx, spanPrefix+useCase, attrs...)
	start := time.Now()

	return ctx, func(err error) {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "OK")
			}
			span.End()
		}

		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		reqCounter.Add(1,
			observability.L("use_case", useCase),
			observability.L("outcome", outcome),
		)
		durHistogram.Observe(lat,
			observability.L("use_case", useCase),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}
}
