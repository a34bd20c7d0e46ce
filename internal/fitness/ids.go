package fitness

import (
	"sync"
	"time"
)

// IDGenerator hands out millisecond based identifiers, strictly increasing
// within the process, even when the clock stalls or goes backwards.
type IDGenerator struct {
	mutex sync.Mutex
	last  int64
	now   func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{
		now: now,
	}
}

func (g *IDGenerator) Next() int64 {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe makes sure future IDs are greater than an already persisted one.
func (g *IDGenerator) Observe(id int64) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if id > g.last {
		g.last = id
	}
}
