// Package identity answers "who is the current user" for the storage layer.
package identity

import "context"

// Provider exposes the id of the authenticated user, if any.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// FromContext reads the user id stored by WithUserID.
type FromContext struct{}

// CurrentUserID implements Provider.
func (FromContext) CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Static always reports the same user. An empty id means nobody is signed in.
type Static string

// CurrentUserID implements Provider.
func (s Static) CurrentUserID(context.Context) (string, bool) {
	return string(s), s != ""
}
