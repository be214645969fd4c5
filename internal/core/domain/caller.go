package domain

import "context"

// Caller is the resolved, request-scoped identity used for authorization
// decisions. It is built fresh for every request and travels through the
// call chain inside the request's context.Context, never through shared
// process state: two concurrent requests must never observe each other's
// caller.
type Caller struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
	Verified bool   `json:"verified"`
}

// HasRole reports exact role membership for a verified caller. Unverified
// callers hold no effective roles.
func (c *Caller) HasRole(name RoleName) bool {
	if c == nil || !c.Verified {
		return false
	}
	for _, r := range c.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

type callerCtxKey struct{}

// WithCaller returns a child context carrying the resolved caller.
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, caller)
}

// CallerFrom extracts the resolved caller from the request context, if any.
func CallerFrom(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerCtxKey{}).(*Caller)
	return caller, ok && caller != nil
}
