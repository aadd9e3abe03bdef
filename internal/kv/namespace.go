package kv

import "context"

// Namespaced prefixes every key of an underlying store. Separate namespaces
// stand in for separate stores (submissions, sites, admin) that share one
// physical backend.
type Namespaced struct {
	inner  Store
	prefix string
}

// Namespace returns a view of s whose keys are stored as prefix+":"+key.
func Namespace(s Store, prefix string) *Namespaced {
	return &Namespaced{inner: s, prefix: prefix + ":"}
}

// Prefix returns the full key prefix including the trailing separator.
func (n *Namespaced) Prefix() string { return n.prefix }

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Put(ctx context.Context, key string, value []byte) error {
	return n.inner.Put(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

func (n *Namespaced) Ping(ctx context.Context) error { return n.inner.Ping(ctx) }

// Close is a no-op: the namespace does not own the underlying store.
func (n *Namespaced) Close() error { return nil }
