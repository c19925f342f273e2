package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func TestCosineDistanceIdentity(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0, 0},
		{0.5, 0.5, 0.5, 0.5},
		{-1, 2, -3, 4},
		{0.001, 0.002, 0.003, 0.004},
	}

	for _, v := range vectors {
		d, err := CosineDistance(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, epsilon)
	}
}

func TestCosineDistanceSymmetry(t *testing.T) {
	a := []float32{0.1, -0.2, 0.3, 0.4}
	b := []float32{0.9, 0.1, -0.5, 0.2}

	dab, err := CosineDistance(a, b)
	require.NoError(t, err)
	dba, err := CosineDistance(b, a)
	require.NoError(t, err)

	assert.InDelta(t, dab, dba, epsilon)
}

func TestCosineDistanceOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	d, err := CosineDistance(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, epsilon)
}

func TestCosineDistanceOpposite(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}

	d, err := CosineDistance(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, epsilon)
}

func TestCosineDistanceDimensionMismatch(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0}

	_, err := CosineDistance(a, b)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCosineDistanceDegenerateVector(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}

	_, err := CosineDistance(a, b)
	assert.ErrorIs(t, err, ErrDegenerateVector)

	// Same for the other side
	_, err = CosineDistance(b, a)
	assert.ErrorIs(t, err, ErrDegenerateVector)
}

func TestCosineDistanceScaleInvariance(t *testing.T) {
	a := []float32{0.3, 0.7, 0.1}
	b := []float32{0.6, 1.4, 0.2} // a scaled by 2

	d, err := CosineDistance(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, epsilon)
}

func TestDistanceMetrics(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	cos, err := Distance(MetricCosine, a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cos, epsilon)

	dot, err := Distance(MetricDot, a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, dot, epsilon)

	l2, err := Distance(MetricSquaredL2, a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, l2, epsilon)
}

func TestDistanceDimensionMismatch(t *testing.T) {
	for _, m := range []Metric{MetricCosine, MetricDot, MetricSquaredL2} {
		_, err := Distance(m, []float32{1, 2}, []float32{1, 2, 3})
		assert.ErrorIs(t, err, ErrDimensionMismatch, "metric %v", m)
	}
}

func TestHighDimensionalAccumulation(t *testing.T) {
	// 384-dimensional vectors with small components should not lose
	// precision to float32 accumulation.
	const dim = 384
	a := make([]float32, dim)
	for i := range a {
		a[i] = 1e-4
	}

	d, err := CosineDistance(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, epsilon)

	norm := Norm(a)
	assert.InDelta(t, 1e-4*math.Sqrt(dim), norm, 1e-9)
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		input   string
		want    Metric
		wantErr bool
	}{
		{"cosine", MetricCosine, false},
		{"", MetricCosine, false},
		{"dot", MetricDot, false},
		{"l2", MetricSquaredL2, false},
		{"euclidean", MetricSquaredL2, false},
		{"hamming", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMetric(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "cosine", MetricCosine.String())
	assert.Equal(t, "dot", MetricDot.String())
	assert.Equal(t, "l2", MetricSquaredL2.String())
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	normalized, err := Normalize(v)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, float64(normalized[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(normalized[1]), 1e-6)

	// Original is untouched
	assert.Equal(t, float32(3), v[0])

	_, err = Normalize([]float32{0, 0})
	assert.ErrorIs(t, err, ErrDegenerateVector)
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero([]float32{0, 0, 0}))
	assert.True(t, IsZero(nil))
	assert.False(t, IsZero([]float32{0, 1e-10, 0}))
}
