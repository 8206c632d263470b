package businesscontext

import (
	"context"
)

type keyType int

const (
	storeContextKey keyType = iota
)

// NewContext creates a new context that includes store as a value.
// The store can be retrieved using businesscontext.FromContext(ctx).
func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, store)
}

// FromContext returns the Store bound to ctx. When ctx carries no store a
// detached store backed by its own diagnostic context is returned, so call
// sites never need to nil-check; writes to a detached store are simply
// invisible to the invocation's logs.
func FromContext(ctx context.Context) *Store {
	if s, ok := ctx.Value(storeContextKey).(*Store); ok {
		return s
	}
	return NewStore(nil)
}
