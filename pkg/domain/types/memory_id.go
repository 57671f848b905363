package types

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// MemoryID is the unique identifier of a memory. IDs carry a "mem_" prefix
// followed by a ULID, so they are lexicographically sortable by creation time
// and safe to generate concurrently.
type MemoryID string

// NewMemoryID generates a new collision-safe MemoryID.
func NewMemoryID() MemoryID {
	return MemoryID("mem_" + ulid.Make().String())
}

// String returns the string representation of the memory ID
func (id MemoryID) String() string {
	return string(id)
}

// IsValid checks if the memory ID has the expected shape
func (id MemoryID) IsValid() bool {
	s := string(id)
	if !strings.HasPrefix(s, "mem_") {
		return false
	}
	_, err := ulid.ParseStrict(s[len("mem_"):])
	return err == nil
}
