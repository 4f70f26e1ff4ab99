package entityc

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGeneration is the identity generation policy of an entity.
type IDGeneration uint8

const (
	// IDTimeOrdered generates UUIDv7 identifiers whose prefix encodes the
	// creation time, keeping index pages append-ordered.
	IDTimeOrdered IDGeneration = iota
	// IDRandom generates UUIDv4 identifiers.
	IDRandom
)

// String returns the directive token of the policy.
func (g IDGeneration) String() string {
	if g == IDRandom {
		return "v4"
	}
	return "v7"
}

// ParseIDGeneration parses an identity generation directive. The empty
// string selects the time-ordered default.
func ParseIDGeneration(s string) (IDGeneration, error) {
	switch s {
	case "", "v7", "time":
		return IDTimeOrdered, nil
	case "v4", "random":
		return IDRandom, nil
	default:
		return 0, fmt.Errorf("entityc: unknown id generation %q (want v7 or v4)", s)
	}
}

// NewID generates a fresh identity value under the given policy.
func NewID(g IDGeneration) (uuid.UUID, error) {
	if g == IDRandom {
		return uuid.NewRandom()
	}
	return uuid.NewV7()
}

// MustNewID is like NewID but panics on failure. Generated repositories use
// it when filling identity values before insert.
func MustNewID(g IDGeneration) uuid.UUID {
	id, err := NewID(g)
	if err != nil {
		panic(err)
	}
	return id
}
