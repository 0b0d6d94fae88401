// Package idgen provides element identity generators.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUID mints random RFC 4122 identifiers.
type UUID struct{}

// NewID returns a new random UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence mints deterministic ids ("<prefix>1", "<prefix>2", ...).
// Used for scenarios and golden tests where ids must be reproducible.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

// NewSequence creates a sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next id of the sequence.
func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s%d", s.prefix, s.n.Add(1))
}
