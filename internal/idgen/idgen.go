// Package idgen supplies globally unique string identifiers for new entities.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator produces globally unique identifiers.
type Generator interface {
	NewID() string
}

// ULID generates lexicographically sortable ULIDs. This is the default.
type ULID struct{}

// NewID returns a new ULID string.
func (ULID) NewID() string {
	return ulid.Make().String()
}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewID returns a new UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Func adapts a plain function to Generator.
type Func func() string

// NewID calls f.
func (f Func) NewID() string {
	return f()
}

// New returns the generator named by strategy ("ulid" or "uuid").
func New(strategy string) (Generator, error) {
	switch strategy {
	case "", "ulid":
		return ULID{}, nil
	case "uuid":
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}

// Sequence returns a deterministic generator yielding prefix-1, prefix-2, ...
// It is not safe for concurrent use.
func Sequence(prefix string) Generator {
	n := 0
	return Func(func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}
