package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neomorfeo/orderguard/internal/domain"
)

// DefaultMaxStatusAttempts bounds the optimistic retry loop in ChangeStatus.
const DefaultMaxStatusAttempts = 3

// OrderService orchestrates order operations: fetch, decide, then mutate.
// It is the only component that calls the repository and holds no state
// between requests.
//
// ChangeStatus uses a compare-and-swap on the previously read status. When a
// concurrent writer wins, the order is re-read and the policy re-evaluated, up
// to maxStatusAttempts times before a ConflictError is returned. Delete needs no
// such guard: its decision depends only on the immutable tenant and the role.
type OrderService struct {
	repo              domain.OrderRepository
	publisher         domain.EventPublisher
	authorizer        domain.Authorizer
	maxStatusAttempts int
}

// Option configures an OrderService.
type Option func(*OrderService)

// WithMaxStatusAttempts overrides DefaultMaxStatusAttempts. Values below 1 are ignored.
func WithMaxStatusAttempts(n int) Option {
	return func(s *OrderService) {
		if n > 0 {
			s.maxStatusAttempts = n
		}
	}
}

// NewOrderService creates a service with the given adapters.
func NewOrderService(repo domain.OrderRepository, publisher domain.EventPublisher, authorizer domain.Authorizer, opts ...Option) *OrderService {
	s := &OrderService{
		repo:              repo,
		publisher:         publisher,
		authorizer:        authorizer,
		maxStatusAttempts: DefaultMaxStatusAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the orders owned by tenantID. Reads are scoped by tenant only;
// both roles see the same orders.
func (s *OrderService) List(ctx context.Context, tenantID string) ([]domain.Order, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, &domain.ValidationError{Field: "tenant_id", Reason: "must not be empty"}
	}

	orders, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

// Create validates input, authorizes the actor and persists a new order in
// the actor's tenant.
func (s *OrderService) Create(ctx context.Context, actor domain.Actor, customerName string, status domain.Status) (domain.Order, error) {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return domain.Order{}, &domain.ValidationError{Field: "customer_name", Reason: "must not be empty"}
	}
	if err := validateStatus(status); err != nil {
		return domain.Order{}, err
	}

	if err := s.authorizer.Decide(actor, nil, domain.CreateAction{}).Err(); err != nil {
		return domain.Order{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.Order{}, fmt.Errorf("generating order id: %w", err)
	}

	// TenantID always comes from the actor, never from client input.
	order := domain.NewOrder(id, actor.TenantID, name, status)

	if err := s.repo.Create(ctx, order); err != nil {
		return domain.Order{}, storeError("create order", err)
	}

	if err := s.publish(ctx, domain.EventOrderCreated, order); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

// ChangeStatus moves an order to newStatus if the policy allows it.
// Only the status field is written.
func (s *OrderService) ChangeStatus(ctx context.Context, actor domain.Actor, orderID string, newStatus domain.Status) (domain.Order, error) {
	if err := validateStatus(newStatus); err != nil {
		return domain.Order{}, err
	}

	for attempt := 1; attempt <= s.maxStatusAttempts; attempt++ {
		order, err := s.getOrder(ctx, orderID)
		if err != nil {
			return domain.Order{}, err
		}

		if err := s.authorizer.Decide(actor, &order, domain.ChangeStatusAction{To: newStatus}).Err(); err != nil {
			return domain.Order{}, err
		}

		err = s.repo.UpdateStatus(ctx, orderID, order.Status, newStatus)
		switch {
		case err == nil:
			order.Status = newStatus
			order.UpdatedAt = time.Now().UTC()
			if err := s.publish(ctx, domain.EventOrderStatusChanged, order); err != nil {
				return domain.Order{}, err
			}
			return order, nil
		case errors.Is(err, domain.ErrStatusMismatch):
			// Lost the race; re-read and decide again.
			continue
		default:
			return domain.Order{}, storeError("update order status", err)
		}
	}

	return domain.Order{}, &domain.ConflictError{OrderID: orderID, Attempts: s.maxStatusAttempts}
}

// Delete permanently removes an order if the policy allows it.
func (s *OrderService) Delete(ctx context.Context, actor domain.Actor, orderID string) error {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.authorizer.Decide(actor, &order, domain.DeleteAction{}).Err(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, orderID); err != nil {
		return storeError("delete order", err)
	}

	return s.publish(ctx, domain.EventOrderDeleted, order)
}

func (s *OrderService) getOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, storeError("get order", err)
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, event domain.Event, order domain.Order) error {
	if err := s.publisher.Publish(ctx, event, order); err != nil {
		return storeError(fmt.Sprintf("publish %s", event), err)
	}
	return nil
}

func validateStatus(status domain.Status) error {
	if status.Valid() {
		return nil
	}
	return &domain.ValidationError{
		Field:  "status",
		Reason: fmt.Sprintf("%q is not one of pending, in_progress, completed", status),
	}
}

// storeError passes not-found through untouched and wraps every other
// repository failure so callers can tell it apart from a policy denial.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.ErrOrderNotFound
	}
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	return &domain.StoreError{Op: op, Err: err}
}
