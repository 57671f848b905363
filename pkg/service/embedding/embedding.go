// Package embedding provides text-embedding providers behind the
// interfaces.Embedder contract. A failed provider call must fail the
// whole operation: storing a zero or truncated vector would silently
// corrupt similarity search.
package embedding

import "github.com/m-mizutani/goerr/v2"

// DefaultDimension matches all-MiniLM-L6-v2 and the truncated
// text-embedding-3-small configuration.
const DefaultDimension = 384

// ErrEmptyText is returned when an empty string is submitted for embedding.
// Embedding of empty text is undefined; callers are expected to validate
// their input first.
var ErrEmptyText = goerr.New("cannot embed empty text")
