package domain

import "context"

// OrderRepository defines the persistence contract for orders.
// Implementations perform no authorization of their own.
type OrderRepository interface {
	Create(ctx context.Context, order Order) error
	GetByID(ctx context.Context, id string) (Order, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Order, error)
	// UpdateStatus sets the status only if the stored value still equals from.
	// It returns ErrOrderNotFound or ErrStatusMismatch otherwise.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// EventPublisher defines the contract for emitting order events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, order Order) error
}

// TransitionValidator reports whether a role may move an order between two statuses.
type TransitionValidator interface {
	CanTransition(role Role, from, to Status) bool
}

// Authorizer produces a policy decision for an actor acting on an order.
type Authorizer interface {
	Decide(actor Actor, existing *Order, action Action) Decision
}
