package errors

import (
	"fmt"
	"sync"
)

// TargetError associates an error with the batch target it occurred on.
type TargetError struct {
	Target string
	Err    error
}

// Collector accumulates per-target failures during a batch operation
// (add/remove/compile over several subjects or notes). A batch keeps
// going past individual failures; the collector holds what is reported
// at the end.
type Collector struct {
	mu     sync.Mutex
	errors []TargetError
}

// NewCollector creates a new error collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a failure for the named target. Nil errors are ignored.
func (c *Collector) Add(target string, err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, TargetError{Target: target, Err: err})
}

// Errors returns a copy of all recorded failures.
func (c *Collector) Errors() []TargetError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TargetError, len(c.errors))
	copy(out, c.errors)
	return out
}

// HasErrors reports whether any failure was recorded.
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) > 0
}

// Summary renders a consolidated failure list for CLI output.
func (c *Collector) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errors) == 0 {
		return ""
	}

	out := fmt.Sprintf("%d target(s) failed:\n", len(c.errors))
	for _, te := range c.errors {
		out += fmt.Sprintf("  - %s: %v\n", te.Target, te.Err)
	}
	return out
}
