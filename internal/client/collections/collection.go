// Package collections keeps per-view snapshots of backend records and keeps
// them consistent after mutations.
//
// A Collection is created by the view that shows it and is never shared.
// With PolicyRelist every successful mutation is followed by a fresh List;
// PolicyLocal applies the mutation result to the snapshot instead. Gateway
// errors are returned as is and a failed mutation leaves the snapshot
// untouched. Once closed, a collection still returns results to its caller
// but no longer applies them.
package collections

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/voicedesk/internal/logging"
)

var (
	// ErrUnsupported is returned for verbs the backend does not offer on a
	// collection.
	ErrUnsupported = errors.New("operation not supported by this collection")

	// ErrRefreshFailed accompanies a successful mutation whose follow-up
	// List failed. The mutation result is still returned.
	ErrRefreshFailed = errors.New("refresh after mutation failed")
)

// Record is anything with a backend id.
type Record interface {
	RecordID() int64
}

// None stands in for an input a verb does not take.
type None struct{}

type Policy int

const (
	PolicyRelist Policy = iota
	PolicyLocal
)

// Backend holds the calls behind each verb. A nil func makes the verb
// unsupported.
type Backend[T Record, C, U any] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, in C) (T, error)
	Update func(ctx context.Context, id int64, in U) (T, error)
	Delete func(ctx context.Context, id int64) error
}

type Collection[T Record, C, U any] struct {
	name    string
	backend Backend[T, C, U]
	policy  Policy
	log     logging.Logger

	mu     sync.RWMutex
	items  []T
	loaded bool
	closed bool
}

func New[T Record, C, U any](name string, backend Backend[T, C, U], policy Policy, log logging.Logger) *Collection[T, C, U] {
	if log == nil {
		log = logging.Discard()
	}
	return &Collection[T, C, U]{
		name:    name,
		backend: backend,
		policy:  policy,
		log:     log.With("collection", name),
	}
}

func (c *Collection[T, C, U]) Name() string { return c.name }

// List fetches the collection and replaces the snapshot.
func (c *Collection[T, C, U]) List(ctx context.Context) ([]T, error) {
	if c.backend.List == nil {
		return nil, ErrUnsupported
	}
	items, err := c.backend.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.log.Debug(ctx, "discarding list result for closed view")
		return slices.Clone(items), nil
	}
	c.items = slices.Clone(items)
	c.loaded = true
	return slices.Clone(items), nil
}

func (c *Collection[T, C, U]) Create(ctx context.Context, in C) (T, error) {
	var zero T
	if c.backend.Create == nil {
		return zero, ErrUnsupported
	}
	rec, err := c.backend.Create(ctx, in)
	if err != nil {
		return zero, err
	}
	return rec, c.settle(ctx, func(items []T) []T {
		return append(items, rec)
	})
}

func (c *Collection[T, C, U]) Update(ctx context.Context, id int64, in U) (T, error) {
	var zero T
	if c.backend.Update == nil {
		return zero, ErrUnsupported
	}
	rec, err := c.backend.Update(ctx, id, in)
	if err != nil {
		return zero, err
	}
	return rec, c.settle(ctx, func(items []T) []T {
		for i := range items {
			if items[i].RecordID() == id {
				items[i] = rec
			}
		}
		return items
	})
}

func (c *Collection[T, C, U]) Delete(ctx context.Context, id int64) error {
	if c.backend.Delete == nil {
		return ErrUnsupported
	}
	if err := c.backend.Delete(ctx, id); err != nil {
		return err
	}
	return c.settle(ctx, func(items []T) []T {
		return slices.DeleteFunc(items, func(it T) bool { return it.RecordID() == id })
	})
}

// Run performs a mutation the verbs do not cover and then re-lists,
// whatever the policy.
func (c *Collection[T, C, U]) Run(ctx context.Context, mutate func(ctx context.Context) error) error {
	if err := mutate(ctx); err != nil {
		return err
	}
	return c.refresh(ctx)
}

// settle brings the snapshot up to date after a successful mutation.
func (c *Collection[T, C, U]) settle(ctx context.Context, apply func([]T) []T) error {
	if c.policy == PolicyRelist {
		return c.refresh(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.items = apply(c.items)
	}
	return nil
}

func (c *Collection[T, C, U]) refresh(ctx context.Context) error {
	if c.backend.List == nil {
		return nil
	}
	if _, err := c.List(ctx); err != nil {
		c.log.Warn(ctx, "refresh after mutation failed", "error", err)
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return nil
}

// Snapshot returns a copy of the current records.
func (c *Collection[T, C, U]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Loaded reports whether a List has ever been applied.
func (c *Collection[T, C, U]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Collection[T, C, U]) Find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return find(c.items, id)
}

// Close detaches the collection from its view and drops the snapshot.
func (c *Collection[T, C, U]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.items = nil
	c.loaded = false
}

func find[T Record](items []T, id int64) (T, bool) {
	for _, it := range items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
