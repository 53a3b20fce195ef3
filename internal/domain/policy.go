package domain

import "fmt"

// Action is a mutation an actor asks to perform. It is a closed set:
// CreateAction, ChangeStatusAction and DeleteAction.
type Action interface {
	Name() string
	action()
}

// CreateAction requests a new order in the actor's tenant.
type CreateAction struct{}

// ChangeStatusAction requests moving an existing order to To.
type ChangeStatusAction struct {
	To Status
}

// DeleteAction requests permanent removal of an existing order.
type DeleteAction struct{}

func (CreateAction) Name() string       { return "create" }
func (ChangeStatusAction) Name() string { return "change_status" }
func (DeleteAction) Name() string       { return "delete" }

func (CreateAction) action()       {}
func (ChangeStatusAction) action() {}
func (DeleteAction) action()       {}

// DenialReason classifies why a decision was denied.
type DenialReason string

const (
	ReasonCrossTenantAccess DenialReason = "cross_tenant_access"
	ReasonPermissionDenied  DenialReason = "permission_denied"
)

// Rule messages surfaced in PermissionError.
const (
	RuleStaffStatusChange = "staff can only change status from pending to in_progress"
	RuleAdminOnlyDelete   = "only admins can delete orders"
	RuleOrderRequired     = "action requires an existing order"
)

// Decision is the outcome of evaluating the policy.
type Decision struct {
	Allowed bool
	Reason  DenialReason
	Rule    string

	orderID string
	actor   Actor
}

// Err converts a denial into the matching error kind. It returns nil when allowed.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonCrossTenantAccess:
		return &CrossTenantError{OrderID: d.orderID, ActorTenant: d.actor.TenantID}
	default:
		return &PermissionError{Role: d.actor.Role, Rule: d.Rule}
	}
}

// Transition is a status change a role is allowed to make.
type Transition struct {
	Role Role
	Src  Status
	Dst  Status
}

// RoleTransitions lists every status change each role may perform.
// Admins may move between any two statuses, including no-ops and backward moves.
// Staff may only start work on a pending order.
// This is domain knowledge consumed by the FSM adapter.
var RoleTransitions = buildRoleTransitions()

func buildRoleTransitions() []Transition {
	out := make([]Transition, 0, len(Statuses)*len(Statuses)+1)
	for _, src := range Statuses {
		for _, dst := range Statuses {
			out = append(out, Transition{Role: RoleAdmin, Src: src, Dst: dst})
		}
	}
	return append(out, Transition{Role: RoleStaff, Src: StatusPending, Dst: StatusInProgress})
}

// Policy is the tenant-isolated, role-based authorization policy.
// Decide is pure: it performs no I/O and holds no mutable state, so a single
// Policy is safe for unlimited concurrent use.
type Policy struct {
	transitions TransitionValidator
}

// Compile-time check: Policy implements Authorizer.
var _ Authorizer = (*Policy)(nil)

// NewPolicy creates a policy that consults transitions for status changes.
func NewPolicy(transitions TransitionValidator) *Policy {
	return &Policy{transitions: transitions}
}

// Decide evaluates action for actor against the existing order (nil for Create).
// Tenant isolation is always checked before any role rule.
func (p *Policy) Decide(actor Actor, existing *Order, action Action) Decision {
	if _, ok := action.(CreateAction); ok {
		return Decision{Allowed: true, actor: actor}
	}

	if existing == nil {
		return deny(actor, "", ReasonPermissionDenied, RuleOrderRequired)
	}
	if existing.TenantID != actor.TenantID {
		return deny(actor, existing.ID, ReasonCrossTenantAccess, "")
	}

	switch a := action.(type) {
	case ChangeStatusAction:
		if p.transitions.CanTransition(actor.Role, existing.Status, a.To) {
			return Decision{Allowed: true, actor: actor, orderID: existing.ID}
		}
		return deny(actor, existing.ID, ReasonPermissionDenied, statusRule(actor.Role, existing.Status, a.To))
	case DeleteAction:
		if actor.Role == RoleAdmin {
			return Decision{Allowed: true, actor: actor, orderID: existing.ID}
		}
		return deny(actor, existing.ID, ReasonPermissionDenied, RuleAdminOnlyDelete)
	}

	return deny(actor, existing.ID, ReasonPermissionDenied, fmt.Sprintf("unsupported action %q", action.Name()))
}

func deny(actor Actor, orderID string, reason DenialReason, rule string) Decision {
	return Decision{Reason: reason, Rule: rule, actor: actor, orderID: orderID}
}

func statusRule(role Role, from, to Status) string {
	if role == RoleStaff {
		return RuleStaffStatusChange
	}
	return fmt.Sprintf("role %q may not change status from %s to %s", role, from, to)
}
