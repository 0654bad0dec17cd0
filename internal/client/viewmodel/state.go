package viewmodel

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrMutationPending is returned while an earlier change on the same
// view-model, including its rollback reload, is still in flight.
var ErrMutationPending = errors.New("another change is still being saved")

// rollbackTimeout bounds the reload that discards a failed optimistic change.
const rollbackTimeout = 15 * time.Second

// rollbackContext detaches from ctx's cancellation so a change that failed
// on an expired or cancelled context is still rolled back.
func rollbackContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
}

// collection is the state shared by the list view-models. Readers always
// get copies.
type collection[T any] struct {
	mu       sync.RWMutex
	items    []T
	loads    int
	mutating bool
}

func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[T]) replace(items []T) {
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

func (c *collection[T]) add(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
}

// update applies fn to the first item matching and reports whether one did.
func (c *collection[T]) update(match func(T) bool, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if match(c.items[i]) {
			fn(&c.items[i])
			return true
		}
	}
	return false
}

func (c *collection[T]) remove(match func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, it := range c.items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

func (c *collection[T]) find(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) beginLoad() {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
}

func (c *collection[T]) endLoad() {
	c.mu.Lock()
	c.loads--
	c.mu.Unlock()
}

func (c *collection[T]) loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads > 0
}

// beginMutation claims the single mutation slot.
func (c *collection[T]) beginMutation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutating {
		return ErrMutationPending
	}
	c.mutating = true
	return nil
}

func (c *collection[T]) endMutation() {
	c.mu.Lock()
	c.mutating = false
	c.mu.Unlock()
}

func (c *collection[T]) pending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mutating
}
