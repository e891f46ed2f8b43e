package webhook

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultDebounce is the trailing window that coalesces event bursts
	// into one recomputation.
	DefaultDebounce = 1000 * time.Millisecond
	// DefaultCooldown is the quiet period after a run during which
	// same-key events are dropped. The engine's own field writes echo
	// back as project-item events inside this window.
	DefaultCooldown = 5000 * time.Millisecond

	// maxTrackedKeys bounds the pending and cooldown caches so abandoned
	// projects cannot leak timers.
	maxTrackedKeys = 500
)

// Key identifies the per-project serialization domain.
type Key struct {
	InstallationID int64
	ProjectNumber  int
}

// RunFunc executes one recomputation for a key. It runs on a timer
// goroutine; at most one run per key is in flight.
type RunFunc func(key Key)

// Coordinator coalesces recomputation requests per project. A request
// during the debounce window resets the timer; a request while a run is in
// flight or cooling down is dropped silently.
type Coordinator struct {
	run      RunFunc
	debounce time.Duration
	cooldown time.Duration

	mu      sync.Mutex
	pending *expirable.LRU[Key, *time.Timer]
	cooling *expirable.LRU[Key, time.Time]
	running map[Key]bool
}

// Option adjusts coordinator timing; tests shrink the windows.
type Option func(*Coordinator)

func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) { c.debounce = d }
}

func WithCooldown(d time.Duration) Option {
	return func(c *Coordinator) { c.cooldown = d }
}

// NewCoordinator builds the coordinator around the given run function.
func NewCoordinator(run RunFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		run:      run,
		debounce: DefaultDebounce,
		cooldown: DefaultCooldown,
		running:  make(map[Key]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	// TTL eviction stops the timer of any key abandoned mid-debounce.
	c.pending = expirable.NewLRU[Key, *time.Timer](maxTrackedKeys, func(_ Key, timer *time.Timer) {
		timer.Stop()
	}, 10*c.debounce)
	c.cooling = expirable.NewLRU[Key, time.Time](maxTrackedKeys, nil, c.cooldown)
	return c
}

// Schedule requests a recomputation for the key. Returns false when the
// request was dropped by the cooldown or an in-flight run.
func (c *Coordinator) Schedule(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running[key] || c.inCooldown(key) {
		log.Debug().
			Int64("installation", key.InstallationID).
			Int("projectNumber", key.ProjectNumber).
			Msg("recalculation request dropped during cooldown")
		return false
	}

	if timer, ok := c.pending.Get(key); ok {
		timer.Stop()
	}
	c.pending.Add(key, time.AfterFunc(c.debounce, func() {
		c.fire(key)
	}))
	return true
}

// Pending reports whether a debounce timer is armed for the key.
func (c *Coordinator) Pending(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.Contains(key)
}

// Stop cancels every armed timer. In-flight runs finish on their own.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending.Purge()
}

func (c *Coordinator) inCooldown(key Key) bool {
	if started, ok := c.cooling.Get(key); ok {
		// The LRU's TTL sweep is coarse; check the deadline exactly.
		if time.Since(started) < c.cooldown {
			return true
		}
		c.cooling.Remove(key)
	}
	return false
}

func (c *Coordinator) fire(key Key) {
	c.mu.Lock()
	c.pending.Remove(key)
	if c.running[key] {
		c.mu.Unlock()
		return
	}
	c.running[key] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.running, key)
		c.cooling.Add(key, time.Now())
		c.mu.Unlock()
	}()
	c.run(key)
}
