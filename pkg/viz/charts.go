package viz

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"houseprice/pkg/stats"
)

var (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch
)

var (
	barColor = color.RGBA{R: 50, G: 110, B: 180, A: 255}
	boxColor = color.RGBA{R: 70, G: 70, B: 70, A: 255}
)

// Histogram draws the distribution of values in bins buckets.
func Histogram(path, title, xlabel string, values []float64, bins int) error {
	if len(values) == 0 {
		return errors.New("histogram of no values")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.Wrap(err, "histogram")
	}
	h.FillColor = barColor
	p.Add(h)
	return save(p, path)
}

// CategoryCounts draws one bar per label, most frequent first.
func CategoryCounts(path, title string, labels []string) error {
	if len(labels) == 0 {
		return errors.New("count chart of no labels")
	}
	counts, order := stats.Frequencies(labels)
	values := make(plotter.Values, len(order))
	for i, l := range order {
		values[i] = float64(counts[l])
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Count"
	bars, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return errors.Wrap(err, "bar chart")
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(order...)
	rotateTicks(p)
	return save(p, path)
}

// BoxPlotByCategory draws one box of values per label, ordered by median.
func BoxPlotByCategory(path, title, ylabel string, labels []string, values []float64) error {
	if len(labels) != len(values) {
		return errors.Errorf("%d labels for %d values", len(labels), len(values))
	}
	if len(values) == 0 {
		return errors.New("box plot of no values")
	}
	groups := make(map[string][]float64)
	for i, l := range labels {
		groups[l] = append(groups[l], values[i])
	}
	_, order := stats.Frequencies(labels)
	medians := make(map[string]float64, len(groups))
	for l, g := range groups {
		medians[l] = stats.Percentile(g, 50)
	}
	sortByMedian(order, medians)

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	for i, l := range order {
		b, err := plotter.NewBoxPlot(vg.Points(12), float64(i), plotter.Values(groups[l]))
		if err != nil {
			return errors.Wrapf(err, "box plot of %s", l)
		}
		b.BoxStyle.Color = boxColor
		b.FillColor = barColor
		p.Add(b)
	}
	p.NominalX(order...)
	rotateTicks(p)
	return save(p, path)
}

func sortByMedian(order []string, medians map[string]float64) {
	// insertion sort keeps the frequency order among equal medians
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && medians[order[j]] < medians[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
}

func rotateTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
