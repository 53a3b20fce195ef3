package domain_test

import (
	"errors"
	"testing"

	"github.com/neomorfeo/orderguard/internal/domain"
)

// tableValidator is a local TransitionValidator backed by domain.RoleTransitions.
type tableValidator struct{}

func (tableValidator) CanTransition(role domain.Role, from, to domain.Status) bool {
	for _, tr := range domain.RoleTransitions {
		if tr.Role == role && tr.Src == from && tr.Dst == to {
			return true
		}
	}
	return false
}

var (
	adminA = domain.Actor{TenantID: "tenantA", Role: domain.RoleAdmin}
	staffA = domain.Actor{TenantID: "tenantA", Role: domain.RoleStaff}
	adminB = domain.Actor{TenantID: "tenantB", Role: domain.RoleAdmin}
	staffB = domain.Actor{TenantID: "tenantB", Role: domain.RoleStaff}
)

func orderIn(tenantID string, status domain.Status) *domain.Order {
	o := domain.NewOrder("o-1", tenantID, "Alice", status)
	return &o
}

func TestPolicy_CreateAlwaysAllowed(t *testing.T) {
	p := domain.NewPolicy(tableValidator{})

	for _, actor := range []domain.Actor{adminA, staffA, adminB, staffB} {
		d := p.Decide(actor, nil, domain.CreateAction{})
		if !d.Allowed {
			t.Errorf("Create by %+v denied: %v", actor, d.Err())
		}
		if d.Err() != nil {
			t.Errorf("allowed decision Err() = %v, want nil", d.Err())
		}
	}
}

func TestPolicy_CrossTenantPrecedesRole(t *testing.T) {
	p := domain.NewPolicy(tableValidator{})

	actions := []domain.Action{domain.DeleteAction{}}
	for _, s := range domain.Statuses {
		actions = append(actions, domain.ChangeStatusAction{To: s})
	}

	for _, actor := range []domain.Actor{adminB, staffB} {
		for _, from := range domain.Statuses {
			for _, action := range actions {
				d := p.Decide(actor, orderIn("tenantA", from), action)
				if d.Allowed {
					t.Fatalf("%+v %s on tenantA order (%s) allowed", actor, action.Name(), from)
				}
				if d.Reason != domain.ReasonCrossTenantAccess {
					t.Errorf("%+v %s from %s: reason = %q, want %q", actor, action.Name(), from, d.Reason, domain.ReasonCrossTenantAccess)
				}

				var ctErr *domain.CrossTenantError
				if !errors.As(d.Err(), &ctErr) {
					t.Fatalf("expected CrossTenantError, got %v", d.Err())
				}
				if ctErr.OrderID != "o-1" || ctErr.ActorTenant != "tenantB" {
					t.Errorf("CrossTenantError = %+v", ctErr)
				}
			}
		}
	}
}

func TestPolicy_StaffOnlyStartsPendingOrders(t *testing.T) {
	p := domain.NewPolicy(tableValidator{})

	for _, from := range domain.Statuses {
		for _, to := range domain.Statuses {
			d := p.Decide(staffA, orderIn("tenantA", from), domain.ChangeStatusAction{To: to})

			wantAllowed := from == domain.StatusPending && to == domain.StatusInProgress
			if d.Allowed != wantAllowed {
				t.Errorf("staff %s → %s: allowed = %v, want %v", from, to, d.Allowed, wantAllowed)
				continue
			}
			if wantAllowed {
				continue
			}

			var permErr *domain.PermissionError
			if !errors.As(d.Err(), &permErr) {
				t.Fatalf("staff %s → %s: expected PermissionError, got %v", from, to, d.Err())
			}
			if permErr.Rule != domain.RuleStaffStatusChange {
				t.Errorf("rule = %q, want %q", permErr.Rule, domain.RuleStaffStatusChange)
			}
		}
	}
}

func TestPolicy_AdminAnyTransition(t *testing.T) {
	p := domain.NewPolicy(tableValidator{})

	// Includes no-ops and backward moves such as completed → pending.
	for _, from := range domain.Statuses {
		for _, to := range domain.Statuses {
			d := p.Decide(adminA, orderIn("tenantA", from), domain.ChangeStatusAction{To: to})
			if !d.Allowed {
				t.Errorf("admin %s → %s denied: %v", from, to, d.Err())
			}
		}
	}
}

func TestPolicy_DeleteAdminOnly(t *testing.T) {
	p := domain.NewPolicy(tableValidator{})

	for _, s := range domain.Statuses {
		if d := p.Decide(adminA, orderIn("tenantA", s), domain.DeleteAction{}); !d.Allowed {
			t.Errorf("admin delete (%s) denied: %v", s, d.Err())
		}

		d := p.Decide(staffA, orderIn("tenantA", s), domain.DeleteAction{})
		if d.Allowed {
			t.Fatalf("staff delete (%s) allowed", s)
		}
		if d.Reason != domain.ReasonPermissionDenied {
			t.Errorf("reason = %q, want %q", d.Reason, domain.ReasonPermissionDenied)
		}
		if d.Rule != domain.RuleAdminOnlyDelete {
			t.Errorf("rule = %q, want %q", d.Rule, domain.RuleAdminOnlyDelete)
		}
		if !errors.Is(d.Err(), domain.ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", d.Err())
		}
	}
}

func TestPolicy_MissingOrderDenied(t *testing.T) {
	p := domain.NewPolicy(tableValidator{})

	d := p.Decide(adminA, nil, domain.DeleteAction{})
	if d.Allowed {
		t.Fatal("delete without an order should be denied")
	}
	if d.Rule != domain.RuleOrderRequired {
		t.Errorf("rule = %q, want %q", d.Rule, domain.RuleOrderRequired)
	}
}

func TestRoleTransitions_StaffHasSingleEntry(t *testing.T) {
	var staff []domain.Transition
	for _, tr := range domain.RoleTransitions {
		if tr.Role == domain.RoleStaff {
			staff = append(staff, tr)
		}
	}

	if len(staff) != 1 {
		t.Fatalf("got %d staff transitions, want 1", len(staff))
	}
	if staff[0].Src != domain.StatusPending || staff[0].Dst != domain.StatusInProgress {
		t.Errorf("staff transition = %s → %s, want pending → in_progress", staff[0].Src, staff[0].Dst)
	}
}
