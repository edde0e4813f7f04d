package auth

import (
	"context"
	"errors"
)

// Identity is the authenticated console user behind a request.
type Identity struct {
	UserID      string
	WorkspaceID string
	Role        string
}

type ctxKey struct{}

var ErrNoIdentity = errors.New("auth: identity not in context")

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

func WorkspaceID(ctx context.Context) (string, error) {
	id, err := IdentityFrom(ctx)
	if err != nil || id.WorkspaceID == "" {
		return "", errors.New("workspace_id not in context")
	}
	return id.WorkspaceID, nil
}

func Role(ctx context.Context) (string, error) {
	id, err := IdentityFrom(ctx)
	if err != nil || id.Role == "" {
		return "", errors.New("role not in context")
	}
	return id.Role, nil
}
