// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// ActorContext identifies who is performing the current operation.
// Stamped onto activity-log entries and stock movements.
type ActorContext struct {
	UserID string
	Name   string
	Roles  []string
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetActorName returns the acting user's display name or empty string.
func GetActorName(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.Name
	}
	return ""
}

// HasRole checks if the actor has a specific role.
func HasRole(ctx context.Context, role string) bool {
	a := GetActor(ctx)
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
