// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Actor identifies the authenticated user performing a request.
// The core treats it purely as an opaque audit identity; role gating
// happens in the HTTP layer.
type Actor struct {
	UserID int64
	Login  string
	Role   string
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context, or nil if the request is anonymous.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}
