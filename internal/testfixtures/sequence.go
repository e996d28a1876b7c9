package testfixtures

import (
	"fmt"
	"sync"
)

// Sequence produces deterministic identifiers for tests.
type Sequence struct {
	mu      sync.Mutex
	prefix  string
	counter int64
}

// NewSequence constructs a sequence whose string form carries prefix. When
// prefix is empty, "id" is used.
func NewSequence(prefix string) *Sequence {
	if prefix == "" {
		prefix = "id"
	}
	return &Sequence{prefix: prefix}
}

// NextInt returns the next number in the sequence, starting at 1.
func (s *Sequence) NextInt() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return s.counter
}

// Next returns the next identifier as "<prefix>-<n>".
func (s *Sequence) Next() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.NextInt())
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (s *Sequence) NextFunc() func() string {
	if s == nil {
		return func() string { return "" }
	}
	return s.Next
}

// Reset rewinds the sequence so the next value is counter+1.
func (s *Sequence) Reset(counter int64) {
	s.mu.Lock()
	s.counter = counter
	s.mu.Unlock()
}
