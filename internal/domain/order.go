package domain

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses is the closed set of valid order statuses.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is a member of Statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Order is the core domain entity: a customer order owned by exactly one tenant.
// TenantID is set once at creation and never changes.
type Order struct {
	ID           string
	TenantID     string
	CustomerName string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewOrder builds an order for the given tenant with a trimmed customer name.
func NewOrder(id, tenantID, customerName string, status Status) Order {
	now := time.Now().UTC()
	return Order{
		ID:           id,
		TenantID:     tenantID,
		CustomerName: strings.TrimSpace(customerName),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
