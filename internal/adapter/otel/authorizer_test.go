package otel_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	adapter "github.com/neomorfeo/orderguard/internal/adapter/otel"
	"github.com/neomorfeo/orderguard/internal/domain"
)

func setupTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader
}

// fixedAuthorizer returns the same decision for every request.
type fixedAuthorizer struct {
	allow bool
}

func (f fixedAuthorizer) Decide(actor domain.Actor, existing *domain.Order, _ domain.Action) domain.Decision {
	if f.allow {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Reason: domain.ReasonPermissionDenied, Rule: domain.RuleAdminOnlyDelete}
}

func TestMeteredAuthorizer_CountsDecisions(t *testing.T) {
	reader := setupTestMeter(t)

	allow, err := adapter.NewMeteredAuthorizer(fixedAuthorizer{allow: true})
	if err != nil {
		t.Fatalf("NewMeteredAuthorizer: %v", err)
	}
	deny, err := adapter.NewMeteredAuthorizer(fixedAuthorizer{allow: false})
	if err != nil {
		t.Fatalf("NewMeteredAuthorizer: %v", err)
	}

	staff := domain.Actor{TenantID: "tenantA", Role: domain.RoleStaff}
	order := domain.NewOrder("o-1", "tenantA", "Alice", domain.StatusPending)

	if d := allow.Decide(staff, nil, domain.CreateAction{}); !d.Allowed {
		t.Fatal("decision should pass through unchanged")
	}
	deny.Decide(staff, &order, domain.DeleteAction{})
	deny.Decide(staff, &order, domain.DeleteAction{})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "orderguard.policy.decisions" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				action, _ := dp.Attributes.Value(attribute.Key("action"))
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[action.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}

	if counts["create/allowed"] != 1 {
		t.Errorf("create/allowed = %d, want 1", counts["create/allowed"])
	}
	if counts["delete/permission_denied"] != 2 {
		t.Errorf("delete/permission_denied = %d, want 2", counts["delete/permission_denied"])
	}
}
