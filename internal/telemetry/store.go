package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/braidtask/braid/internal/store"
	"github.com/braidtask/braid/internal/task"
)

const storeScopeName = "github.com/braidtask/braid/store"

// WrapSaveHook decorates a store save hook with OTel tracing and metrics:
// every snapshot write gets a span and is counted in braid.store.* metrics.
// When telemetry is disabled, hook is returned as-is with zero overhead.
func WrapSaveHook(hook store.SaveHook) store.SaveHook {
	if hook == nil || !Enabled() {
		return hook
	}

	m := Meter(storeScopeName)
	saves, _ := m.Int64Counter("braid.store.saves",
		metric.WithDescription("Snapshot writes attempted"),
	)
	dur, _ := m.Float64Histogram("braid.store.save.duration",
		metric.WithDescription("Snapshot write duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("braid.store.save.errors",
		metric.WithDescription("Snapshot writes that failed"),
	)
	count, _ := m.Int64Gauge("braid.task.count",
		metric.WithDescription("Tasks in the collection at the last save"),
	)
	tracer := Tracer(storeScopeName)

	return func(tasks []*task.Task) error {
		ctx, span := tracer.Start(context.Background(), "store.save")
		defer span.End()
		span.SetAttributes(attribute.Int("braid.task.count", len(tasks)))

		t0 := time.Now()
		err := hook(tasks)
		ms := float64(time.Since(t0).Milliseconds())

		saves.Add(ctx, 1)
		dur.Record(ctx, ms)
		count.Record(ctx, int64(len(tasks)))
		if err != nil {
			errs.Add(ctx, 1)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}
