package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrCrossTenantAccess = errors.New("cross-tenant access denied")
	ErrPermissionDenied  = errors.New("permission denied")

	// ErrStatusMismatch is returned by a conditional status update when the
	// stored status no longer matches the expected one.
	ErrStatusMismatch = errors.New("order status changed concurrently")
)

// ValidationError is returned for malformed input. It never reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CrossTenantError is returned when an actor touches an order owned by another tenant.
type CrossTenantError struct {
	OrderID     string
	ActorTenant string
}

func (e *CrossTenantError) Error() string {
	return fmt.Sprintf("cross-tenant access denied: order %q does not belong to tenant %q", e.OrderID, e.ActorTenant)
}

func (e *CrossTenantError) Unwrap() error { return ErrCrossTenantAccess }

// PermissionError is returned when the tenant matches but a role rule forbids the action.
type PermissionError struct {
	Role Role
	Rule string
}

func (e *PermissionError) Error() string {
	return "permission denied: " + e.Rule
}

func (e *PermissionError) Unwrap() error { return ErrPermissionDenied }

// ConflictError is returned when a status change kept losing the race against
// concurrent writers until the retry budget ran out.
type ConflictError struct {
	OrderID  string
	Attempts int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order %q was modified concurrently (gave up after %d attempts)", e.OrderID, e.Attempts)
}

// StoreError wraps a persistence failure so it is never mistaken for a policy denial.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
