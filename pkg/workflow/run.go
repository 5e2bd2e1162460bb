package workflow

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"houseprice/pkg/config"
	"houseprice/pkg/core"
	"houseprice/pkg/data"
	"houseprice/pkg/dataprep"
	"houseprice/pkg/loader"
	"houseprice/pkg/model"
	"houseprice/pkg/report"
	"houseprice/pkg/stats"
	"houseprice/pkg/viz"
)

// Artifact file names inside the output directory.
const (
	PriceHistogram    = "sale_price_hist.png"
	LogPriceHistogram = "log_sale_price_hist.png"
	NeighborhoodBars  = "neighborhood_counts.png"
	NeighborhoodBoxes = "neighborhood_price_box.png"
	SampleMap         = "sample_map.png"
	PredictionChart   = "predicted_vs_actual.png"
	Workbook          = "report.xlsx"
)

// Result is what one run produced.
type Result struct {
	Report    *report.Report
	Artifacts []string
}

// Run materializes the dataset (or reads cfg.CSVPath) and analyzes it.
func Run(ctx context.Context, cfg config.Config, l logrus.FieldLogger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		ds  *data.Dataset
		err error
	)
	if cfg.CSVPath != "" {
		ds, err = data.LoadCSV(cfg.CSVPath, data.AmesSchema())
	} else {
		ds, err = data.Materialize(cfg.Rows, cfg.Seed)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load dataset")
	}
	l.WithFields(logrus.Fields{"rows": ds.Len(), "columns": ds.Schema().Len(), "csv": cfg.CSVPath}).Info("dataset ready")
	return Analyze(ctx, ds, cfg, l)
}

// Analyze runs the stages after loading, in order: descriptive charts,
// sample map, stratified split, feature recipe, least squares fit and
// evaluation, report. Every stage fails the run on error. ctx is checked
// between stages.
func Analyze(ctx context.Context, ds *data.Dataset, cfg config.Config, l logrus.FieldLogger) (*Result, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "output directory")
	}
	res := &Result{Report: report.New(time.Now())}
	l = l.WithField("run", res.Report.RunID.String())
	out := func(name string) string {
		p := filepath.Join(cfg.OutputDir, name)
		res.Artifacts = append(res.Artifacts, p)
		return p
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	summary, err := describe(ds, cfg, out)
	if err != nil {
		return nil, errors.Wrap(err, "describe")
	}
	res.Report.TargetSummary = summary
	l.WithFields(logrus.Fields{"mean": summary.Mean, "median": summary.Median, "max": summary.Max}).Info("sale price described")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.SampleSize > 0 {
		if err := sampleMap(ds, cfg, out(SampleMap)); err != nil {
			return nil, errors.Wrap(err, "sample map")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	split, err := loader.StratifiedSplit(ds, loader.SplitOptions{
		Target: data.SalePrice,
		Prop:   cfg.Prop,
		Seed:   cfg.Seed,
		Breaks: cfg.Breaks,
		Pool:   cfg.Pool,
	})
	if err != nil {
		return nil, errors.Wrap(err, "split")
	}
	res.Report.TrainRows, res.Report.TestRows = split.Train.Len(), split.Test.Len()
	l.WithFields(logrus.Fields{"train": split.Train.Len(), "test": split.Test.Len()}).Info("split")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := dataprep.DefaultRecipeOptions(data.SalePrice)
	opts.LogBase, opts.Threshold = cfg.LogBase, cfg.OtherThreshold
	rec := dataprep.NewRecipe(opts)
	prepped, err := rec.Prep(split.Train)
	if err != nil {
		return nil, errors.Wrap(err, "prep recipe")
	}
	xTrain, yTrain, err := prepped.Bake(split.Train)
	if err != nil {
		return nil, errors.Wrap(err, "bake training set")
	}
	xTest, yTest, err := prepped.Bake(split.Test)
	if err != nil {
		return nil, errors.Wrap(err, "bake test set")
	}
	steps := make([]string, 0, len(prepped.Steps()))
	for _, st := range prepped.Steps() {
		steps = append(steps, st.Name())
	}
	l.WithFields(logrus.Fields{
		"outcome":  prepped.Outcome(),
		"steps":    steps,
		"features": prepped.Schema().Len(),
	}).Info("recipe prepared")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lm := model.NewLinearRegression()
	pred, metrics, err := fitAndScore(lm, xTrain, yTrain, xTest, yTest)
	if err != nil {
		return nil, errors.Wrap(err, "linear model")
	}
	_, baseline, err := fitAndScore(model.NewKNNRegressor(cfg.Neighbors), xTrain, yTrain, xTest, yTest)
	if err != nil {
		return nil, errors.Wrap(err, "nearest-neighbour baseline")
	}
	res.Report.Baseline = baseline
	res.Report.Metrics = metrics
	res.Report.Predictions = model.Pair(yTest, pred)
	res.Report.SetModel(lm)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := viz.PredictedVsActual(out(PredictionChart), "Predicted vs actual log sale price (test set)", res.Report.Predictions); err != nil {
		return nil, errors.Wrap(err, "prediction chart")
	}
	if err := res.Report.WriteWorkbook(out(Workbook)); err != nil {
		return nil, errors.Wrap(err, "report")
	}
	res.Report.Log(l)
	return res, nil
}

func fitAndScore(m model.Regressor, xTrain *core.FeatureMatrix, yTrain []float64, xTest *core.FeatureMatrix, yTest []float64) ([]float64, model.Metrics, error) {
	if err := m.Fit(xTrain, yTrain); err != nil {
		return nil, model.Metrics{}, errors.Wrap(err, "fit")
	}
	pred, err := m.Predict(xTest)
	if err != nil {
		return nil, model.Metrics{}, errors.Wrap(err, "predict")
	}
	metrics, err := model.Evaluate(yTest, pred)
	if err != nil {
		return nil, model.Metrics{}, errors.Wrap(err, "evaluate")
	}
	return pred, metrics, nil
}

func describe(ds *data.Dataset, cfg config.Config, out func(string) string) (stats.Summary, error) {
	price, err := ds.Float(data.SalePrice)
	if err != nil {
		return stats.Summary{}, err
	}
	summary, err := stats.Describe(price)
	if err != nil {
		return stats.Summary{}, err
	}
	if err := viz.Histogram(out(PriceHistogram), "Sale price", "Sale price (USD)", price, cfg.Bins); err != nil {
		return summary, err
	}

	logPrice := make([]float64, len(price))
	for i, v := range price {
		if logPrice[i], err = dataprep.Log(v, cfg.LogBase); err != nil {
			return summary, errors.Wrapf(err, "record %d", i)
		}
	}
	if err := viz.Histogram(out(LogPriceHistogram), "Log sale price", "log sale price", logPrice, cfg.Bins); err != nil {
		return summary, err
	}

	hoods, err := ds.Strings(data.Neighborhood)
	if err != nil {
		return summary, err
	}
	if err := viz.CategoryCounts(out(NeighborhoodBars), "Sales per neighborhood", hoods); err != nil {
		return summary, err
	}
	if err := viz.BoxPlotByCategory(out(NeighborhoodBoxes), "Sale price by neighborhood", "Sale price (USD)", hoods, price); err != nil {
		return summary, err
	}
	return summary, nil
}

func sampleMap(ds *data.Dataset, cfg config.Config, path string) error {
	sample, err := ds.Subset(viz.SampleRows(ds.Len(), cfg.SampleSize, cfg.Seed))
	if err != nil {
		return err
	}
	lon, err := sample.Float(data.Longitude)
	if err != nil {
		return err
	}
	lat, err := sample.Float(data.Latitude)
	if err != nil {
		return err
	}
	hoods, err := sample.Strings(data.Neighborhood)
	if err != nil {
		return err
	}
	return viz.GeoScatter(path, "Sampled sales by neighborhood", lon, lat, hoods)
}
