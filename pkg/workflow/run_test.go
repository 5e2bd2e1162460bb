package workflow

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseprice/pkg/config"
	"houseprice/pkg/data"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Rows = 300
	cfg.SampleSize = 100
	cfg.Bins = 10
	return cfg
}

func TestRun_Synthetic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rows = 1000
	res, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)

	r := res.Report
	assert.Equal(t, 1000, r.TrainRows+r.TestRows)
	assert.InDelta(t, 750, r.TrainRows, 4)
	assert.Len(t, r.Predictions, r.TestRows)
	assert.False(t, math.IsNaN(r.Metrics.R2) || math.IsInf(r.Metrics.R2, 0))
	assert.Greater(t, r.Metrics.R2, 0.0)
	assert.Greater(t, r.Metrics.RMSE, 0.0)
	assert.NotEmpty(t, r.Coefficients)
	assert.Equal(t, r.TestRows, r.Baseline.N)

	for _, name := range []string{PriceHistogram, LogPriceHistogram, NeighborhoodBars, NeighborhoodBoxes, SampleMap, PredictionChart, Workbook} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}
	assert.Len(t, res.Artifacts, 7)
}

func TestRun_FromCSV(t *testing.T) {
	ds, err := data.Materialize(120, 3)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ames.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, data.WriteCSV(f, ds))
	require.NoError(t, f.Close())

	cfg := testConfig(t)
	cfg.CSVPath = path
	cfg.SampleSize = 0
	res, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 120, res.Report.TrainRows+res.Report.TestRows)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, SampleMap))
}

func TestAnalyze_TenSales(t *testing.T) {
	schema, err := data.NewSchema(
		data.Column{Name: data.SalePrice, Kind: data.Numeric},
		data.Column{Name: data.GrLivArea, Kind: data.Numeric},
		data.Column{Name: data.Latitude, Kind: data.Numeric},
		data.Column{Name: data.Longitude, Kind: data.Numeric},
		data.Column{Name: data.Neighborhood, Kind: data.Nominal},
	)
	require.NoError(t, err)
	ds, err := data.FromColumns(schema,
		map[string][]float64{
			data.SalePrice: {105000, 142000, 181000, 129500, 215000, 98000, 263000, 174000, 155000, 310000},
			data.GrLivArea: {900, 1250, 1600, 1100, 1900, 850, 2300, 1500, 1400, 2700},
			data.Latitude:  {42.01, 42.02, 42.03, 42.04, 42.05, 42.06, 42.07, 42.08, 42.09, 42.10},
			data.Longitude: {-93.61, -93.63, -93.62, -93.64, -93.66, -93.65, -93.60, -93.67, -93.68, -93.69},
		},
		map[string][]string{
			data.Neighborhood: {"North_Ames", "Old_Town", "North_Ames", "Old_Town", "Gilbert", "Old_Town", "Gilbert", "North_Ames", "Gilbert", "North_Ames"},
		},
	)
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Prop = 0.8
	res, err := Analyze(context.Background(), ds, cfg, quietLogger())
	require.NoError(t, err)

	r := res.Report
	assert.Equal(t, 8, r.TrainRows)
	assert.Equal(t, 2, r.TestRows)
	require.Len(t, r.Predictions, 2)
	for _, p := range r.Predictions {
		assert.False(t, math.IsNaN(p.Predicted) || math.IsInf(p.Predicted, 0))
	}
	assert.False(t, math.IsInf(r.Metrics.R2, 0))
	assert.False(t, math.IsNaN(r.Metrics.RMSE))
}

func TestAnalyze_NonPositivePrice(t *testing.T) {
	ds, err := data.Materialize(50, 1)
	require.NoError(t, err)
	price, err := ds.Float(data.SalePrice)
	require.NoError(t, err)
	price[7] = 0
	ds, err = ds.WithFloat(data.SalePrice, price)
	require.NoError(t, err)

	_, err = Analyze(context.Background(), ds, testConfig(t), quietLogger())
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, testConfig(t), quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Prop = 1
	_, err := Run(context.Background(), cfg, quietLogger())
	assert.ErrorIs(t, err, config.ErrInvalid)
}
