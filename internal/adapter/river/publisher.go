package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/orderguard/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// OrderEventArgs carries an order event to asynchronous consumers.
// River serializes this as JSON into its job queue table. It includes a snapshot
// of the order at the time the event was published, so the worker never needs
// to query the database.
type OrderEventArgs struct {
	Event        string `json:"event"`
	OrderID      string `json:"order_id"`
	TenantID     string `json:"tenant_id"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (OrderEventArgs) Kind() string { return "order.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues an order event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.Event, order domain.Order) error {
	_, err := p.client.Insert(ctx, OrderEventArgs{
		Event:        string(event),
		OrderID:      order.ID,
		TenantID:     order.TenantID,
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing order event job: %w", err)
	}
	return nil
}
