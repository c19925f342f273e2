// Package vector provides distance and similarity computations over
// fixed-dimension float32 embeddings.
package vector

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by distance computations.
var (
	// ErrDimensionMismatch indicates two vectors of unequal length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDegenerateVector indicates a zero-magnitude vector, for which
	// cosine similarity is undefined.
	ErrDegenerateVector = errors.New("degenerate zero-magnitude vector")
)

// Metric identifies a distance metric.
type Metric int

const (
	// MetricCosine is cosine distance: 1 - cosine similarity, bounded [0, 2].
	MetricCosine Metric = iota
	// MetricDot is negative dot product (higher dot product ranks closer).
	MetricDot
	// MetricSquaredL2 is squared Euclidean distance.
	MetricSquaredL2
)

func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "cosine"
	case MetricDot:
		return "dot"
	case MetricSquaredL2:
		return "l2"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMetric parses a metric name as used in config files.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "cosine", "":
		return MetricCosine, nil
	case "dot":
		return MetricDot, nil
	case "l2", "euclidean":
		return MetricSquaredL2, nil
	default:
		return 0, fmt.Errorf("unsupported metric: %q", name)
	}
}

// Distance computes the distance between a and b under metric m.
// Both vectors must have the same length. Intermediate accumulation is
// done in float64; each sum is a single left-to-right pass, so results
// are deterministic within a run.
func Distance(m Metric, a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	switch m {
	case MetricCosine:
		return cosineDistance(a, b)
	case MetricDot:
		return -dot(a, b), nil
	case MetricSquaredL2:
		return squaredL2(a, b), nil
	default:
		return 0, fmt.Errorf("unsupported metric: %v", m)
	}
}

// CosineDistance computes 1 - cosine_similarity(a, b).
// Fails with ErrDegenerateVector if either vector has zero magnitude.
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return cosineDistance(a, b)
}

func cosineDistance(a, b []float32) (float64, error) {
	var dotProd, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dotProd += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, ErrDegenerateVector
	}
	return 1 - dotProd/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// Norm returns the L2 norm of v, accumulated in float64.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// IsZero reports whether every component of v is zero.
func IsZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Normalize returns an L2-normalized copy of v.
// Fails with ErrDegenerateVector if v has zero magnitude.
func Normalize(v []float32) ([]float32, error) {
	norm := Norm(v)
	if norm == 0 {
		return nil, ErrDegenerateVector
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}
