package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/siteboard/internal/kv"
)

// Index maintains ordered id lists stored as JSON arrays, one list per key.
//
// Every mutation reads the whole list, changes it in memory and writes it
// back. Two writers on the same key can interleave their read and write and
// lose one update; the store has no compare-and-swap to prevent it. Lists
// are expected to stay in the hundreds to low thousands, so the O(n) cost
// per mutation is fine.
type Index struct {
	store kv.Store
}

// NewIndex creates an index manager over one namespace.
func NewIndex(s kv.Store) *Index {
	return &Index{store: s}
}

// Read returns the ids stored under listKey, or an empty slice when the key
// does not exist.
func (x *Index) Read(ctx context.Context, listKey string) ([]string, error) {
	data, err := x.store.Get(ctx, listKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read list %s: %w", listKey, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode list %s: %w", listKey, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Append adds id at the end of listKey. Duplicates are not checked.
func (x *Index) Append(ctx context.Context, listKey, id string) error {
	ids, err := x.Read(ctx, listKey)
	if err != nil {
		return err
	}
	return x.Write(ctx, listKey, append(ids, id))
}

// Remove drops every occurrence of id from listKey. The list is written
// back even when id was absent.
func (x *Index) Remove(ctx context.Context, listKey, id string) error {
	ids, err := x.Read(ctx, listKey)
	if err != nil {
		return err
	}
	return x.Write(ctx, listKey, without(ids, id))
}

// Write replaces the whole list. Used by Append/Remove and by the
// reconciliation sweep.
func (x *Index) Write(ctx context.Context, listKey string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode list %s: %w", listKey, err)
	}
	if err := x.store.Put(ctx, listKey, data); err != nil {
		return fmt.Errorf("failed to write list %s: %w", listKey, err)
	}
	return nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
