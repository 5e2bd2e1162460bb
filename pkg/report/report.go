package report

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"houseprice/pkg/model"
	"houseprice/pkg/stats"
)

const (
	SheetMetrics      = "metrics"
	SheetPredictions  = "predictions"
	SheetCoefficients = "coefficients"
)

// Coefficient is one fitted weight, or the intercept.
type Coefficient struct {
	Feature string
	Value   float64
}

// Report gathers the results of one run.
type Report struct {
	RunID         uuid.UUID
	Created       time.Time
	TrainRows     int
	TestRows      int
	Rank          int
	Metrics       model.Metrics
	Baseline      model.Metrics // nearest-neighbour baseline on the same split
	TargetSummary stats.Summary
	Coefficients  []Coefficient
	Predictions   []model.Prediction
}

// New stamps a report with a fresh run id.
func New(created time.Time) *Report {
	return &Report{RunID: uuid.New(), Created: created}
}

// SetModel records the intercept followed by the coefficients in feature order.
func (r *Report) SetModel(m *model.LinearRegression) {
	coef := m.Coefficients()
	r.Coefficients = append(r.Coefficients[:0], Coefficient{Feature: "(intercept)", Value: m.Intercept()})
	for _, n := range m.Features() {
		r.Coefficients = append(r.Coefficients, Coefficient{Feature: n, Value: coef[n]})
	}
	r.Rank = m.Rank()
}

// Log writes the headline numbers.
func (r *Report) Log(l logrus.FieldLogger) {
	l.WithFields(logrus.Fields{
		"run":           r.RunID.String(),
		"train":         r.TrainRows,
		"test":          r.TestRows,
		"rank":          r.Rank,
		"r2":            r.Metrics.R2,
		"rmse":          r.Metrics.RMSE,
		"mae":           r.Metrics.MAE,
		"baseline_r2":   r.Baseline.R2,
		"baseline_rmse": r.Baseline.RMSE,
	}).Info("test set metrics")
}

// WriteWorkbook saves the report as an xlsx file with one sheet each for
// metrics, predictions and coefficients.
func (r *Report) WriteWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMetrics); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	for _, s := range []string{SheetPredictions, SheetCoefficients} {
		if _, err := f.NewSheet(s); err != nil {
			return errors.Wrapf(err, "new sheet %s", s)
		}
	}

	s := r.TargetSummary
	metrics := [][]any{
		{"metric", "value"},
		{"run_id", r.RunID.String()},
		{"created", r.Created.UTC().Format(time.RFC3339)},
		{"train_rows", r.TrainRows},
		{"test_rows", r.TestRows},
		{"rank", r.Rank},
		{"r2", cell(r.Metrics.R2)},
		{"rmse", cell(r.Metrics.RMSE)},
		{"mae", cell(r.Metrics.MAE)},
		{"baseline_r2", cell(r.Baseline.R2)},
		{"baseline_rmse", cell(r.Baseline.RMSE)},
		{"baseline_mae", cell(r.Baseline.MAE)},
		{"target_mean", cell(s.Mean)},
		{"target_sd", cell(s.StdDev)},
		{"target_min", cell(s.Min)},
		{"target_median", cell(s.Median)},
		{"target_max", cell(s.Max)},
	}
	if err := writeRows(f, SheetMetrics, metrics); err != nil {
		return err
	}

	preds := make([][]any, 0, len(r.Predictions)+1)
	preds = append(preds, []any{"actual", "predicted", "residual"})
	for _, p := range r.Predictions {
		preds = append(preds, []any{p.Actual, p.Predicted, p.Actual - p.Predicted})
	}
	if err := writeRows(f, SheetPredictions, preds); err != nil {
		return err
	}

	coef := make([][]any, 0, len(r.Coefficients)+1)
	coef = append(coef, []any{"feature", "estimate"})
	for _, c := range r.Coefficients {
		coef = append(coef, []any{c.Feature, c.Value})
	}
	if err := writeRows(f, SheetCoefficients, coef); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, ref, &row); err != nil {
			return errors.Wrapf(err, "%s row %d", sheet, i+1)
		}
	}
	return nil
}

// cell keeps NaN out of the workbook, which xlsx cannot store.
func cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NA"
	}
	return v
}
