package mainloop

import "sync"

// Coalescer merges bursts of same-key tasks into one run of the latest
// task. Repaint requests are keyed by fence id.
type Coalescer struct {
	mu        sync.Mutex
	latest    map[string]func()
	post      func(func()) bool
	destroyed bool
}

// NewCoalescer creates a coalescer scheduling through post, usually
// Loop.Post.
func NewCoalescer(post func(func()) bool) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}
	return &Coalescer{latest: make(map[string]func()), post: post}
}

// Post schedules fn under key. If a task for key is already scheduled, fn
// replaces it and no new task is scheduled.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	_, scheduled := c.latest[key]
	c.latest[key] = fn
	c.mu.Unlock()
	if scheduled {
		return
	}

	if !c.post(func() { c.run(key) }) {
		c.mu.Lock()
		delete(c.latest, key)
		c.mu.Unlock()
	}
}

func (c *Coalescer) run(key string) {
	c.mu.Lock()
	fn := c.latest[key]
	delete(c.latest, key)
	destroyed := c.destroyed
	c.mu.Unlock()

	if fn != nil && !destroyed {
		fn()
	}
}

// Destroy drops all pending work. Later posts are ignored.
func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.latest = map[string]func(){}
	c.mu.Unlock()
}
