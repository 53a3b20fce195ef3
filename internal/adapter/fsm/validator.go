package fsm

import (
	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/orderguard/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// eventName is the FSM event that moves an order into dst.
func eventName(dst domain.Status) string {
	return "to_" + string(dst)
}

// buildEvents converts domain.RoleTransitions into one looplab/fsm event table
// per role. Transitions sharing a destination are consolidated into a single
// EventDesc with multiple source states.
func buildEvents() map[domain.Role][]loopfsm.EventDesc {
	type key struct {
		role domain.Role
		dst  domain.Status
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range domain.RoleTransitions {
		k := key{role: t.Role, dst: t.Dst}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make(map[domain.Role][]loopfsm.EventDesc)
	for _, k := range order {
		out[k.role] = append(out[k.role], loopfsm.EventDesc{
			Name: eventName(k.dst),
			Src:  grouped[k],
			Dst:  string(k.dst),
		})
	}
	return out
}

// Validator implements domain.TransitionValidator using looplab/fsm.
// It creates a short-lived FSM instance per call, initialized with the order's
// current status, because looplab/fsm tracks its current state internally.
// Self-transitions (no-ops) are answered with Can rather than by firing the
// event, since looplab/fsm reports those as NoTransitionError.
type Validator struct {
	events map[domain.Role][]loopfsm.EventDesc
}

// New creates a new FSM-backed transition validator.
func New() *Validator {
	return &Validator{events: buildEvents()}
}

// CanTransition reports whether role may move an order from one status to another.
// Unknown roles have no transitions.
func (v *Validator) CanTransition(role domain.Role, from, to domain.Status) bool {
	events, ok := v.events[role]
	if !ok {
		return false
	}

	machine := loopfsm.NewFSM(string(from), events, nil)
	return machine.Can(eventName(to))
}
