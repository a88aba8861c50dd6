// Package gesture turns horizontal swipes on a set slot into delete requests.
package gesture

import (
	"context"
	"fmt"
	"math"
	"sync"
)

const (
	// MaxOffset is the farthest a slot can be dragged to the left.
	MaxOffset = 100
	// DeleteThreshold is the offset a released drag must exceed to delete.
	DeleteThreshold = 50
)

type Key struct {
	ExerciseID int64
	SetNumber  int
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%d", k.ExerciseID, k.SetNumber)
}

// DeleteFunc removes whatever the slot holds. It is called at most once per drag.
type DeleteFunc func(ctx context.Context, key Key) error

type drag struct {
	startX float64
	offset float64
}

// Controller tracks in-progress drags per slot. It keeps no other state.
type Controller struct {
	mu       sync.Mutex
	deleteFn DeleteFunc
	drags    map[Key]*drag
}

func NewController(deleteFn DeleteFunc) *Controller {
	return &Controller{
		deleteFn: deleteFn,
		drags:    make(map[Key]*drag),
	}
}

// TouchStart begins a drag, replacing any unfinished one on the same slot.
func (c *Controller) TouchStart(key Key, x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drags[key] = &drag{startX: x}
}

// TouchMove returns the new offset of the slot. Moves without a started drag are ignored.
func (c *Controller) TouchMove(key Key, x float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.drags[key]
	if !ok {
		return 0
	}
	d.offset = clampOffset(d.startX - x)
	return d.offset
}

// TouchEnd finishes the drag. Past the threshold the delete func is invoked,
// otherwise the slot springs back.
func (c *Controller) TouchEnd(ctx context.Context, key Key) (bool, error) {
	c.mu.Lock()
	d, ok := c.drags[key]
	delete(c.drags, key)
	c.mu.Unlock()

	if !ok || d.offset <= DeleteThreshold {
		return false, nil
	}

	if err := c.deleteFn(ctx, key); err != nil {
		return false, fmt.Errorf("delete slot %s: %w", key, err)
	}
	return true, nil
}

func (c *Controller) Cancel(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drags, key)
}

// Offset is the current offset of the slot, 0 when it is not dragged.
func (c *Controller) Offset(key Key) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.drags[key]; ok {
		return d.offset
	}
	return 0
}

func clampOffset(dx float64) float64 {
	if math.IsNaN(dx) {
		return 0
	}
	return min(max(dx, 0), MaxOffset)
}
