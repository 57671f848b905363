package types

import "fmt"

// SearchType selects the retrieval strategy for a memory search
type SearchType string

const (
	SearchTypeVector SearchType = "vector"
	SearchTypeGraph  SearchType = "graph"
	SearchTypeHybrid SearchType = "hybrid"
)

// AllSearchTypes returns all valid search types
func AllSearchTypes() []SearchType {
	return []SearchType{
		SearchTypeVector,
		SearchTypeGraph,
		SearchTypeHybrid,
	}
}

// IsValid checks if the search type is valid
func (t SearchType) IsValid() bool {
	switch t {
	case SearchTypeVector,
		SearchTypeGraph,
		SearchTypeHybrid:
		return true
	default:
		return false
	}
}

// Normalize returns the search type, treating empty as SearchTypeHybrid.
func (t SearchType) Normalize() SearchType {
	if t == "" {
		return SearchTypeHybrid
	}
	return t
}

// String returns the string representation of the search type
func (t SearchType) String() string {
	return string(t)
}

// ParseSearchType parses a string into a SearchType
func ParseSearchType(s string) (SearchType, error) {
	t := SearchType(s).Normalize()
	if !t.IsValid() {
		return "", fmt.Errorf("invalid search type: %s", s)
	}
	return t, nil
}
