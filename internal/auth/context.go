package auth

import (
	"context"
	"errors"
)

const (
	RoleClient  = "client"
	RoleTrainer = "trainer"
)

var ErrNoAuthContext = errors.New("no auth context")

// Context is the identity a request or an engine acts on behalf of.
type Context struct {
	ClientID int64  `json:"clientId"`
	Token    string `json:"-"`
	Role     string `json:"role"`
}

// CanActFor reports whether the holder may read and write the given client's log.
func (c Context) CanActFor(clientID int64) bool {
	return c.Role == RoleTrainer || c.ClientID == clientID
}

type ctxKey struct{}

func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

func FromContext(ctx context.Context) (Context, error) {
	ac, ok := ctx.Value(ctxKey{}).(Context)
	if !ok {
		return Context{}, ErrNoAuthContext
	}
	return ac, nil
}
