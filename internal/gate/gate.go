// Package gate is the authorization checkpoint. A Gate holds one Policy
// per resource type; handlers ask it whether the current identity may
// perform an action instead of hardcoding identifier checks inline.
package gate

import "context"

// Gate is the central authorization registry.
// U is the subject type (user ID here; must be comparable for the
// zero-value anonymous check).
type Gate[U comparable] struct {
	policies map[string]Policy[U]
}

// NewGate creates an empty Gate ready to register policies.
func NewGate[U comparable]() *Gate[U] {
	return &Gate[U]{policies: make(map[string]Policy[U])}
}

// Register adds a policy for a resource type (e.g. "cafe"), overwriting
// any existing one.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize returns nil when user may perform action on resourceType.
// A zero-value (anonymous) user or a denying policy yields ErrForbidden;
// an unregistered resource type yields ErrNoPolicyDefined. Denial is an
// explicit error, never a silent no-op.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string) error {
	var zero U
	if user == zero {
		return ErrForbidden
	}
	p, ok := g.policies[resourceType]
	if !ok {
		return ErrNoPolicyDefined
	}
	if !p.Can(ctx, user, action) {
		return ErrForbidden
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string) bool {
	return g.Authorize(ctx, user, action, resourceType) == nil
}
