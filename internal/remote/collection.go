// Package remote models the lifecycle of a collection fetched from the
// backend. Every resource view follows the same four states, so the
// per-view loading/empty/error handling lives here once instead of being
// repeated in each handler.
package remote

import "context"

// State is the position of a collection in its fetch lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Collection is a fetched remote collection. The zero value is Idle.
// Transitions: Idle -> Loading (Begin), Loading -> Loaded (Resolve) or
// Loading -> Failed (Reject). A failed collection is never retried
// automatically; a fresh fetch starts over from Begin.
type Collection[T any] struct {
	state State
	items []T
	err   error
}

// Begin marks the collection as loading and discards any previous result.
func (c *Collection[T]) Begin() {
	c.state = StateLoading
	c.items = nil
	c.err = nil
}

// Resolve records a successful fetch. A nil slice is a valid zero-item
// result, not an error.
func (c *Collection[T]) Resolve(items []T) {
	c.state = StateLoaded
	c.items = items
	c.err = nil
}

// Reject records a failed fetch.
func (c *Collection[T]) Reject(err error) {
	c.state = StateFailed
	c.items = nil
	c.err = err
}

func (c *Collection[T]) State() State { return c.state }
func (c *Collection[T]) Err() error   { return c.err }

// Items returns the loaded result. Empty unless the collection is Loaded.
func (c *Collection[T]) Items() []T { return c.items }

// Empty reports a loaded collection with no items, which views render as
// the empty-state message rather than an error.
func (c *Collection[T]) Empty() bool {
	return c.state == StateLoaded && len(c.items) == 0
}

// Failed reports whether the last fetch was rejected.
func (c *Collection[T]) Failed() bool {
	return c.state == StateFailed
}

// Filter returns the loaded items that satisfy keep. Filtering a collection
// that is not Loaded yields nothing.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	if c.state != StateLoaded {
		return nil
	}
	var out []T
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Fetch runs one fetch through the full state machine and returns the
// resulting collection.
func Fetch[T any](ctx context.Context, load func(context.Context) ([]T, error)) Collection[T] {
	var c Collection[T]
	c.Begin()
	items, err := load(ctx)
	if err != nil {
		c.Reject(err)
		return c
	}
	c.Resolve(items)
	return c
}
