package auth

import "context"

type sessionKey struct{}

// WithSession returns a copy of ctx carrying the session user
func WithSession(ctx context.Context, user SessionUser) context.Context {
	return context.WithValue(ctx, sessionKey{}, user)
}

// SessionFromContext returns the session user stored in ctx, if any
func SessionFromContext(ctx context.Context) (SessionUser, bool) {
	user, ok := ctx.Value(sessionKey{}).(SessionUser)
	return user, ok
}
