// Package identity carries the authenticated user through request context.
// All persistence is scoped to the current user's ID; services read it from
// context rather than taking it as a parameter.
package identity

import (
	"context"

	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email,omitempty"`
}

type contextKey string

const userKey contextKey = "user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userKey).(*User)
	return u
}

// IDFromContext returns the current user's ID, or uuid.Nil when the context
// carries no identity. Queries filtered by uuid.Nil match nothing, so an
// unauthenticated context can never read another owner's rows.
func IDFromContext(ctx context.Context) uuid.UUID {
	if u := FromContext(ctx); u != nil {
		return u.ID
	}
	return uuid.Nil
}
