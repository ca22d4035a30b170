// internal/media/collector.go
package media

import "sync"

// collector accumulates resources pushed from browser event handlers
type collector struct {
	mu        sync.Mutex
	resources []MediaResource
}

func (c *collector) add(r MediaResource) {
	c.mu.Lock()
	c.resources = append(c.resources, r)
	c.mu.Unlock()
}

func (c *collector) snapshot() []MediaResource {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]MediaResource, len(c.resources))
	copy(out, c.resources)
	return out
}
