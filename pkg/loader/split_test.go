package loader

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseprice/pkg/data"
)

// skewedDataset builds n records whose target grows exponentially with the row.
func skewedDataset(t *testing.T, n int) *data.Dataset {
	t.Helper()
	schema, err := data.NewSchema(
		data.Column{Name: "price", Kind: data.Numeric},
		data.Column{Name: "hood", Kind: data.Nominal},
	)
	require.NoError(t, err)
	price := make([]float64, n)
	hood := make([]string, n)
	for i := range n {
		price[i] = 50000 * math.Exp(float64(i%37)/10)
		hood[i] = []string{"a", "b", "c"}[i%3]
	}
	ds, err := data.FromColumns(schema, map[string][]float64{"price": price}, map[string][]string{"hood": hood})
	require.NoError(t, err)
	return ds
}

func TestStratifiedSplit_InvalidProportion(t *testing.T) {
	ds := skewedDataset(t, 10)
	for _, p := range []float64{0, 1, -0.2, 1.5, math.NaN()} {
		opts := DefaultSplitOptions("price")
		opts.Prop = p
		_, err := StratifiedSplit(ds, opts)
		assert.True(t, errors.Is(err, ErrInvalidProportion), "prop %v", p)
	}
}

func TestStratifiedSplit_Partition(t *testing.T) {
	ds := skewedDataset(t, 1000)
	for _, p := range []float64{0.1, 0.5, 0.75, 0.8, 0.95} {
		for _, seed := range []int64{1, 42, 2024} {
			opts := DefaultSplitOptions("price")
			opts.Prop = p
			opts.Seed = seed
			split, err := StratifiedSplit(ds, opts)
			require.NoError(t, err)

			assert.Equal(t, ds.Len(), len(split.TrainRows)+len(split.TestRows))
			seen := make(map[int]bool, ds.Len())
			for _, r := range append(append([]int(nil), split.TrainRows...), split.TestRows...) {
				assert.False(t, seen[r], "row %d appears twice", r)
				seen[r] = true
			}
			assert.Len(t, seen, ds.Len())

			// floor per stratum loses at most one record per stratum
			got := float64(len(split.TrainRows)) / float64(ds.Len())
			assert.InDelta(t, p, got, 4.0/float64(ds.Len()), "prop %v seed %d", p, seed)
			assert.Equal(t, len(split.TrainRows), split.Train.Len())
			assert.Equal(t, len(split.TestRows), split.Test.Len())
		}
	}
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	ds := skewedDataset(t, 300)
	opts := DefaultSplitOptions("price")
	opts.Seed = 99

	a, err := StratifiedSplit(ds, opts)
	require.NoError(t, err)
	b, err := StratifiedSplit(ds, opts)
	require.NoError(t, err)
	assert.Equal(t, a.TrainRows, b.TrainRows)
	assert.Equal(t, a.TestRows, b.TestRows)

	opts.Seed = 100
	c, err := StratifiedSplit(ds, opts)
	require.NoError(t, err)
	assert.NotEqual(t, a.TrainRows, c.TrainRows)
}

func TestStratifiedSplit_TenRecords(t *testing.T) {
	ds := skewedDataset(t, 10)
	opts := DefaultSplitOptions("price")
	opts.Prop = 0.8
	opts.Seed = 123

	split, err := StratifiedSplit(ds, opts)
	require.NoError(t, err)
	assert.Equal(t, 8, split.Train.Len())
	assert.Equal(t, 2, split.Test.Len())
}

func TestStratifiedSplit_Balanced(t *testing.T) {
	ds := skewedDataset(t, 2000)
	opts := DefaultSplitOptions("price")
	split, err := StratifiedSplit(ds, opts)
	require.NoError(t, err)

	y, _ := ds.Float("price")
	strata := Strata(y, opts.Breaks, opts.Pool)
	require.Len(t, strata, 4)

	inTrain := make(map[int]bool)
	for _, r := range split.TrainRows {
		inTrain[r] = true
	}
	for _, s := range strata {
		k := 0
		for _, r := range s {
			if inTrain[r] {
				k++
			}
		}
		assert.Equal(t, int(math.Floor(float64(len(s))*opts.Prop)), k)
	}
}

func TestStrata(t *testing.T) {
	t.Run("small samples use one stratum", func(t *testing.T) {
		y := make([]float64, 60)
		for i := range y {
			y[i] = float64(i)
		}
		assert.Len(t, Strata(y, 4, 0.1), 3, "60/20 = 3 buckets")
		assert.Len(t, Strata(y[:30], 4, 0.1), 1)
	})

	t.Run("constant target collapses", func(t *testing.T) {
		y := make([]float64, 200)
		assert.Len(t, Strata(y, 4, 0.1), 1)
	})

	t.Run("tiny strata are pooled", func(t *testing.T) {
		buckets := [][]int{{0}, {1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, {11, 12, 13, 14, 15, 16, 17, 18, 19}}
		out := poolStrata(buckets, 0.1, 20)
		require.Len(t, out, 2)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, out[0])
	})

	t.Run("every row lands in a stratum", func(t *testing.T) {
		y := []float64{5, 1, 9, 3, 3, 3, 7, 2, 8, 6}
		y = append(y, y...)
		y = append(y, y...)
		y = append(y, y...)
		total := 0
		for _, s := range Strata(y, 4, 0.1) {
			total += len(s)
		}
		assert.Equal(t, len(y), total)
	})
}
