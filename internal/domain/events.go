package domain

// Event names an order mutation emitted to downstream consumers.
type Event string

const (
	EventOrderCreated       Event = "order.created"
	EventOrderStatusChanged Event = "order.status_changed"
	EventOrderDeleted       Event = "order.deleted"
)
