package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/orderguard/internal/domain"
)

const instrumentationName = "github.com/neomorfeo/orderguard/internal/adapter/otel"

// TracingRepository wraps a domain.OrderRepository with OpenTelemetry tracing.
// Each method creates a span with semantic attributes and records errors.
type TracingRepository struct {
	next   domain.OrderRepository
	tracer trace.Tracer
}

// Compile-time check: TracingRepository implements domain.OrderRepository.
var _ domain.OrderRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a tracing decorator around the given repository.
func NewTracingRepository(next domain.OrderRepository) *TracingRepository {
	return &TracingRepository{
		next:   next,
		tracer: otel.Tracer(instrumentationName),
	}
}

func (r *TracingRepository) Create(ctx context.Context, order domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Create",
		trace.WithAttributes(
			attribute.String("order.id", order.ID),
			attribute.String("tenant.id", order.TenantID),
			attribute.String("order.status", string(order.Status)),
		),
	)
	defer span.End()

	return recordErr(span, r.next.Create(ctx, order))
}

func (r *TracingRepository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID",
		trace.WithAttributes(attribute.String("order.id", id)),
	)
	defer span.End()

	order, err := r.next.GetByID(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.String("tenant.id", order.TenantID))
	}
	return order, recordErr(span, err)
}

func (r *TracingRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ListByTenant",
		trace.WithAttributes(attribute.String("tenant.id", tenantID)),
	)
	defer span.End()

	orders, err := r.next.ListByTenant(ctx, tenantID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(orders)))
	}
	return orders, recordErr(span, err)
}

func (r *TracingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.UpdateStatus",
		trace.WithAttributes(
			attribute.String("order.id", id),
			attribute.String("order.status.from", string(from)),
			attribute.String("order.status.to", string(to)),
		),
	)
	defer span.End()

	return recordErr(span, r.next.UpdateStatus(ctx, id, from, to))
}

func (r *TracingRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Delete",
		trace.WithAttributes(attribute.String("order.id", id)),
	)
	defer span.End()

	return recordErr(span, r.next.Delete(ctx, id))
}

func (r *TracingRepository) Count(ctx context.Context) (int, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Count")
	defer span.End()

	n, err := r.next.Count(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", n))
	}
	return n, recordErr(span, err)
}

func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
