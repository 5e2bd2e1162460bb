package viz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseprice/pkg/model"
)

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()
	values := []float64{120, 150, 180, 200, 240, 90, 310, 175, 160, 500}
	labels := []string{"a", "b", "a", "c", "b", "a", "c", "a", "b", "a"}

	hist := filepath.Join(dir, "hist.png")
	require.NoError(t, Histogram(hist, "Sale price", "USD", values, 5))
	assertFile(t, hist)

	counts := filepath.Join(dir, "counts.png")
	require.NoError(t, CategoryCounts(counts, "Sales per neighborhood", labels))
	assertFile(t, counts)

	box := filepath.Join(dir, "box.svg")
	require.NoError(t, BoxPlotByCategory(box, "Price by neighborhood", "USD", labels, values))
	assertFile(t, box)

	assert.Error(t, Histogram(hist, "", "", nil, 5))
	assert.Error(t, CategoryCounts(counts, "", nil))
	assert.Error(t, BoxPlotByCategory(box, "", "", labels[:2], values))
}

func TestSampleRows(t *testing.T) {
	rows := SampleRows(100, 10, 4)
	assert.Len(t, rows, 10)
	assert.IsIncreasing(t, rows)
	assert.Equal(t, rows, SampleRows(100, 10, 4))
	assert.Len(t, SampleRows(5, 10, 4), 5)
	assert.Empty(t, SampleRows(5, -1, 4))
}

func TestPalette(t *testing.T) {
	groups := []string{"z", "a", "m", "a"}
	p := newPalette(groups)
	require.Len(t, p, 3)
	assert.NotEqual(t, p["a"].color, p["m"].color)
	assert.Equal(t, p, newPalette([]string{"m", "z", "a"}), "palette depends only on the set of groups")
}

func TestGeoScatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	lon := []float64{-93.6, -93.62, -93.65}
	lat := []float64{42.0, 42.02, 42.05}
	require.NoError(t, GeoScatter(path, "Sample of sales", lon, lat, []string{"x", "y", "x"}))
	assertFile(t, path)

	assert.Error(t, GeoScatter(path, "", lon, lat[:1], []string{"x"}))
}

func TestPredictedVsActual(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pred.png")
	preds := model.Pair([]float64{5.1, 5.3, 5.0}, []float64{5.15, 5.2, 5.05})
	require.NoError(t, PredictedVsActual(path, "Test set", preds))
	assertFile(t, path)
	assert.Error(t, PredictedVsActual(path, "", nil))
}
