package auth

import "context"

// Identity is the authenticated caller bound to a single request.
type Identity struct {
	ID int64
}

type identityKey struct{}

// WithIdentity stores the caller in the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller bound by the authorization gate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
