package core

import (
	"sync"
	"time"
)

// IDGenerator hands out record ids derived from the current time in milliseconds.
// Ids are strictly increasing: two allocations in the same millisecond get consecutive values.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns an id greater than every id returned or observed so far.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixNano() / int64(time.Millisecond)
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe makes sure future ids are greater than `id` (e.g. ids already stored on disk).
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
