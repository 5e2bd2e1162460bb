package pipeline_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseprice/pkg/core"
	"houseprice/pkg/data"
	"houseprice/pkg/dataprep"
	"houseprice/pkg/pipeline"
)

func sales(t *testing.T, price, area []float64, hood []string) *data.Dataset {
	t.Helper()
	schema, err := data.NewSchema(
		data.Column{Name: "price", Kind: data.Numeric},
		data.Column{Name: "area", Kind: data.Numeric},
		data.Column{Name: "hood", Kind: data.Nominal},
	)
	require.NoError(t, err)
	ds, err := data.FromColumns(schema,
		map[string][]float64{"price": price, "area": area},
		map[string][]string{"hood": hood},
	)
	require.NoError(t, err)
	return ds
}

func recipe() *pipeline.Recipe {
	return dataprep.NewRecipe(dataprep.RecipeOptions{Outcome: "price", LogBase: 10, Threshold: 0.2})
}

func TestRecipe_FitOnTrainApplyToTest(t *testing.T) {
	train := sales(t,
		[]float64{100, 1000, 10000, 100, 1000, 10000, 100, 1000, 10000, 100},
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		[]string{"n", "n", "n", "n", "s", "s", "s", "s", "w", "e"},
	)
	prepped, err := recipe().Prep(train)
	require.NoError(t, err)
	assert.Equal(t, []string{"area", "hood_other", "hood_s"}, prepped.Schema().FeatureNames)
	assert.Equal(t, "price", prepped.Outcome())
	var steps []string
	for _, s := range prepped.Steps() {
		steps = append(steps, s.Name())
	}
	assert.Equal(t, []string{"log", "other", "dummy", "zv"}, steps)

	x, y, err := prepped.Bake(train)
	require.NoError(t, err)
	r, c := x.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 3, c)
	assert.InDeltaSlice(t, []float64{2, 3, 4, 2, 3, 4, 2, 3, 4, 2}, y, 1e-12)

	// "e" and "w" were rare in training and "q" is new: all collapse to other.
	test := sales(t, []float64{100, 1000}, []float64{3, 4}, []string{"q", "s"})
	tx, ty, err := prepped.Bake(test)
	require.NoError(t, err)
	assert.Equal(t, prepped.Schema().FeatureNames, tx.Names())
	assert.Len(t, ty, 2)
	other, _ := tx.Col("hood_other")
	s, _ := tx.Col("hood_s")
	assert.Equal(t, []float64{1, 0}, other)
	assert.Equal(t, []float64{0, 1}, s)
}

func TestRecipe_PrepDoesNotSeeTestData(t *testing.T) {
	train := sales(t, []float64{10, 20, 30, 40}, []float64{1, 2, 3, 4}, []string{"a", "a", "b", "b"})
	test := sales(t, []float64{10, 20}, []float64{1, 2}, []string{"c", "c"})

	prepped, err := recipe().Prep(train)
	require.NoError(t, err)
	before := prepped.Schema()

	_, _, err = prepped.Bake(test)
	require.NoError(t, err)
	assert.Equal(t, before, prepped.Schema())
}

func TestRecipe_NonPositiveOutcome(t *testing.T) {
	train := sales(t, []float64{10, -20, 30}, []float64{1, 2, 3}, []string{"a", "a", "b"})
	_, err := recipe().Prep(train)
	assert.True(t, errors.Is(err, dataprep.ErrNonPositive))

	good := sales(t, []float64{10, 20, 30}, []float64{1, 2, 3}, []string{"a", "a", "b"})
	prepped, err := recipe().Prep(good)
	require.NoError(t, err)
	_, _, err = prepped.Bake(sales(t, []float64{0}, []float64{1}, []string{"a"}))
	assert.True(t, errors.Is(err, dataprep.ErrNonPositive))
}

func TestRecipe_SchemaMismatch(t *testing.T) {
	train := sales(t, []float64{10, 20, 30}, []float64{1, 2, 3}, []string{"a", "a", "b"})
	prepped, err := recipe().Prep(train)
	require.NoError(t, err)

	extra, err := sales(t, []float64{10}, []float64{1}, []string{"a"}).WithFloat("rooms", []float64{3})
	require.NoError(t, err)
	_, _, err = prepped.Bake(extra)
	assert.True(t, errors.Is(err, core.ErrSchemaMismatch))
}

func TestRecipe_Errors(t *testing.T) {
	empty := sales(t, nil, nil, nil)
	_, err := recipe().Prep(empty)
	assert.Error(t, err)

	train := sales(t, []float64{10}, []float64{1}, []string{"a"})
	_, err = pipeline.NewRecipe("missing").Prep(train)
	assert.True(t, errors.Is(err, data.ErrUnknownColumn))

	_, err = pipeline.NewRecipe("price").Prep(train)
	assert.True(t, errors.Is(err, pipeline.ErrNotNumeric), "nominal predictors must be encoded")
}
