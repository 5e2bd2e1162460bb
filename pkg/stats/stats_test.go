package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	x := []float64{4, 1, 3, 2, 5}
	assert.Equal(t, 1.0, Percentile(x, 0))
	assert.Equal(t, 3.0, Percentile(x, 50))
	assert.Equal(t, 5.0, Percentile(x, 100))
	assert.InDelta(t, 2.0, Percentile(x, 25), 1e-12)
	assert.Equal(t, []float64{4, 1, 3, 2, 5}, x, "input must stay unsorted")
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestQuantiles(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	q := Quantiles(x, 0, 0.25, 0.5, 0.75, 1)
	assert.InDeltaSlice(t, []float64{1, 3, 5, 7, 9}, q, 1e-12)
}

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 8, s.N)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 4.5, s.Median, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev, 1e-12)
	assert.Equal(t, 4.0, s.Q1)
	assert.Equal(t, 6.0, s.Q3)

	one, err := Describe([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, one.Q1)
	assert.Equal(t, 3.0, one.Q3)

	_, err = Describe(nil)
	assert.Error(t, err)
}

func TestFrequencies(t *testing.T) {
	counts, order := Frequencies([]string{"b", "a", "c", "a", "b", "a"})
	assert.Equal(t, map[string]int{"a": 3, "b": 2, "c": 1}, counts)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestStandardizer(t *testing.T) {
	s := FitStandardizer([][]float64{{1, 3}, {5, 5}})
	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Std, "constant columns keep unit scale")

	got := s.Row(nil, []float64{4, 7})
	assert.Equal(t, []float64{2, 2}, got)

	pop := FitStandardizer([][]float64{{1, 2, 3, 4}})
	assert.InDelta(t, 2.5, pop.Mean[0], 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), pop.Std[0], 1e-12, "population deviation")

	dst := make([]float64, 2)
	assert.Same(t, &dst[0], &s.Row(dst, []float64{2, 5})[0])
	assert.Equal(t, []float64{0, 0}, dst)
}
