package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/orderguard/internal/domain"
)

// SeedOrder is a fixture order inserted by Seed.
type SeedOrder struct {
	TenantID     string
	CustomerName string
	Status       domain.Status
}

// DemoOrders are the sample rows for the two demo tenants.
var DemoOrders = []SeedOrder{
	{TenantID: "tenantA", CustomerName: "Alice Johnson", Status: domain.StatusPending},
	{TenantID: "tenantA", CustomerName: "Bob Smith", Status: domain.StatusInProgress},
	{TenantID: "tenantA", CustomerName: "Charlie Brown", Status: domain.StatusCompleted},
	{TenantID: "tenantB", CustomerName: "Diana Ross", Status: domain.StatusPending},
	{TenantID: "tenantB", CustomerName: "Eve Wilson", Status: domain.StatusInProgress},
	{TenantID: "tenantB", CustomerName: "Frank Miller", Status: domain.StatusCompleted},
}

// Seed inserts fixtures when the store holds no orders at all and returns the
// number of rows written. Fixture data bypasses the policy and emits no events.
func (s *OrderService) Seed(ctx context.Context, fixtures []SeedOrder) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, storeError("count orders", err)
	}
	if n > 0 {
		return 0, nil
	}

	for i, f := range fixtures {
		id, err := generateID()
		if err != nil {
			return i, fmt.Errorf("generating order id: %w", err)
		}
		if err := s.repo.Create(ctx, domain.NewOrder(id, f.TenantID, f.CustomerName, f.Status)); err != nil {
			return i, storeError("seed order", err)
		}
	}

	return len(fixtures), nil
}
