package interfaces

import "context"

// Embedder maps free text to a fixed-length semantic vector
type Embedder interface {
	// Embed returns the embedding of text. Implementations must return an
	// error rather than a zero or truncated vector on failure.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the length of the vectors produced by Embed
	Dimension() int
}

// Projector reduces high-dimensional vectors to 2-D coordinates for the
// mood map. Projections must be deterministic: the same input vectors, in
// the same order, always yield the same coordinates.
type Projector interface {
	Project(vectors [][]float32) []Point2D
}

// Point2D is a projected coordinate pair
type Point2D struct {
	X float64
	Y float64
}
