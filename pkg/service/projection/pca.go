// Package projection reduces embeddings to 2-D mood-map coordinates.
package projection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/memora-app/memora/pkg/domain/interfaces"
)

// PCA projects vectors onto their top two principal components and
// normalizes the result to the unit square. The projection is fully
// deterministic: there is no random initialization, and each component's
// sign is fixed so that its largest-magnitude loading is positive.
// Repeated calls over the same vectors yield identical coordinates.
type PCA struct{}

var _ interfaces.Projector = (*PCA)(nil)

// NewPCA creates a deterministic PCA projector
func NewPCA() *PCA {
	return &PCA{}
}

func (p *PCA) Project(vectors [][]float32) []interfaces.Point2D {
	n := len(vectors)
	if n == 0 {
		return []interfaces.Point2D{}
	}

	center := interfaces.Point2D{X: 0.5, Y: 0.5}
	if n == 1 {
		return []interfaces.Point2D{center}
	}

	dim := len(vectors[0])
	if dim == 0 {
		out := make([]interfaces.Point2D, n)
		for i := range out {
			out[i] = center
		}
		return out
	}

	// Center the data
	means := make([]float64, dim)
	for _, v := range vectors {
		for j := 0; j < dim && j < len(v); j++ {
			means[j] += float64(v[j])
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}

	data := mat.NewDense(n, dim, nil)
	for i, v := range vectors {
		for j := 0; j < dim; j++ {
			var val float64
			if j < len(v) {
				val = float64(v[j])
			}
			data.Set(i, j, val-means[j])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(data, mat.SVDThin) {
		// All-identical vectors centered to zero still factorize; a failed
		// factorization means the data is numerically unusable.
		out := make([]interfaces.Point2D, n)
		for i := range out {
			out[i] = center
		}
		return out
	}

	var v mat.Dense
	svd.VTo(&v)

	axes := v.RawMatrix().Cols
	coords := make([]interfaces.Point2D, n)
	xs := projectAxis(data, &v, 0, axes)
	ys := projectAxis(data, &v, 1, axes)
	for i := range coords {
		coords[i] = interfaces.Point2D{X: xs[i], Y: ys[i]}
	}

	normalize(coords)
	return coords
}

// projectAxis computes the scores of all rows against principal component
// k, with a deterministic sign convention.
func projectAxis(data *mat.Dense, v *mat.Dense, k, axes int) []float64 {
	n, dim := data.Dims()
	out := make([]float64, n)
	if k >= axes {
		return out
	}

	component := make([]float64, dim)
	for j := 0; j < dim; j++ {
		component[j] = v.At(j, k)
	}

	// Sign convention: the loading with the largest magnitude is positive
	maxAbs, sign := 0.0, 1.0
	for _, c := range component {
		if a := math.Abs(c); a > maxAbs {
			maxAbs = a
			if c < 0 {
				sign = -1.0
			} else {
				sign = 1.0
			}
		}
	}

	for i := 0; i < n; i++ {
		var score float64
		for j := 0; j < dim; j++ {
			score += data.At(i, j) * component[j]
		}
		out[i] = score * sign
	}
	return out
}

// normalize rescales coordinates to [0, 1] per axis. Axes with no spread
// collapse to the midpoint.
func normalize(points []interfaces.Point2D) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	scale := func(v, lo, hi float64) float64 {
		if hi-lo < 1e-12 {
			return 0.5
		}
		return (v - lo) / (hi - lo)
	}

	for i := range points {
		points[i].X = scale(points[i].X, minX, maxX)
		points[i].Y = scale(points[i].Y, minY, maxY)
	}
}
