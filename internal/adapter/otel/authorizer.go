package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/neomorfeo/orderguard/internal/domain"
)

// MeteredAuthorizer wraps a domain.Authorizer and counts its decisions.
// The wrapped policy stays pure; only the counter is touched here.
type MeteredAuthorizer struct {
	next      domain.Authorizer
	decisions metric.Int64Counter
}

// Compile-time check: MeteredAuthorizer implements domain.Authorizer.
var _ domain.Authorizer = (*MeteredAuthorizer)(nil)

// NewMeteredAuthorizer creates a metering decorator around the given authorizer.
// The counter is registered against the global MeterProvider.
func NewMeteredAuthorizer(next domain.Authorizer) (*MeteredAuthorizer, error) {
	counter, err := otel.Meter(instrumentationName).Int64Counter("orderguard.policy.decisions",
		metric.WithDescription("Authorization decisions by action, role and outcome"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}
	return &MeteredAuthorizer{next: next, decisions: counter}, nil
}

func (a *MeteredAuthorizer) Decide(actor domain.Actor, existing *domain.Order, action domain.Action) domain.Decision {
	d := a.next.Decide(actor, existing, action)

	outcome := "allowed"
	if !d.Allowed {
		outcome = string(d.Reason)
	}

	// Decide has no context parameter; the policy is synchronous and pure.
	a.decisions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("action", action.Name()),
		attribute.String("role", string(actor.Role)),
		attribute.String("outcome", outcome),
	))
	return d
}
