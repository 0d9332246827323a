package sim

import "sync"

// ChangeCounter is a joint.SceneSink that tallies topology notifications.
// The runtime uses it to decide when exported views need refreshing.
type ChangeCounter struct {
	mu       sync.Mutex
	topology uint64
	quiet    uint64
}

func NewChangeCounter() *ChangeCounter {
	return &ChangeCounter{}
}

func (c *ChangeCounter) SceneChanged(topology bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if topology {
		c.topology++
	} else {
		c.quiet++
	}
}

// Counts returns the number of topology-changing and no-op notifications.
func (c *ChangeCounter) Counts() (topology, quiet uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topology, c.quiet
}
