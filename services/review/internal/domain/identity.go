package domain

import "context"

// CallerIdentity is the verified identity of the user making a request.
type CallerIdentity struct {
	ID    string
	Email string
}

type identityKey struct{}

// WithCaller stores the verified caller in ctx.
func WithCaller(ctx context.Context, id CallerIdentity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// CallerFromContext returns the caller stored by WithCaller.
func CallerFromContext(ctx context.Context) (CallerIdentity, bool) {
	id, ok := ctx.Value(identityKey{}).(CallerIdentity)
	if !ok || id.ID == "" {
		return CallerIdentity{}, false
	}
	return id, true
}
