package session

import (
	"context"
	"strings"
)

// Provider resolves the signed-in user for a request.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type contextKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", false
	}
	return userID, true
}

// ContextProvider reads the user id placed on the context by auth.Middleware.
type ContextProvider struct{}

func (ContextProvider) CurrentUserID(ctx context.Context) (string, bool) {
	return UserIDFromContext(ctx)
}

// Static always reports the same user. An empty Static means signed out.
type Static string

func (s Static) CurrentUserID(context.Context) (string, bool) {
	if strings.TrimSpace(string(s)) == "" {
		return "", false
	}
	return string(s), true
}
