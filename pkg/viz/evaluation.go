package viz

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"houseprice/pkg/model"
)

// PredictedVsActual scatters predictions against held-out values with the
// identity line for reference.
func PredictedVsActual(path, title string, preds []model.Prediction) error {
	if len(preds) == 0 {
		return errors.New("no predictions to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, len(preds))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, pr := range preds {
		pts[i] = plotter.XY{X: pr.Actual, Y: pr.Predicted}
		lo = math.Min(lo, math.Min(pr.Actual, pr.Predicted))
		hi = math.Max(hi, math.Max(pr.Actual, pr.Predicted))
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	s.Color = color.RGBA{R: 50, G: 50, B: 255, A: 160}
	s.Radius = vg.Points(2)
	p.Add(s)

	l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "identity line")
	}
	l.Color = color.RGBA{R: 255, A: 255}
	l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	l.Width = vg.Points(1.5)
	p.Add(l)
	return save(p, path)
}
