// Package telemetry counts command invocations for the superadmin report.
// Counts live in memory only and reset on restart.
package telemetry

import (
	"strconv"
	"strings"
	"sync"
)

// Entry is one command and the number of times it was dispatched.
type Entry struct {
	Command string
	Count   int
}

// Counter maps command names to invocation counts and remembers the order in
// which names were first seen. It is safe for concurrent use.
type Counter struct {
	mu     sync.Mutex
	order  []string
	counts map[string]int
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Increment records one invocation of command.
func (c *Counter) Increment(command string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.counts[command]; !ok {
		c.order = append(c.order, command)
	}
	c.counts[command]++
}

// Count returns the invocations recorded for command.
func (c *Counter) Count(command string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[command]
}

// Snapshot returns every entry in first-seen order.
func (c *Counter) Snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, len(c.order))
	for _, command := range c.order {
		entries = append(entries, Entry{Command: command, Count: c.counts[command]})
	}
	return entries
}

// Report renders the snapshot as the text shown by /view_stats.
func (c *Counter) Report() string {
	var b strings.Builder
	b.WriteString("Command Usage Stats:\n\n")
	for _, entry := range c.Snapshot() {
		b.WriteString(entry.Command)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(entry.Count))
		b.WriteString("\n")
	}
	return b.String()
}
