package viz

import (
	"image/color"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SampleRows draws size distinct row positions out of n with a source seeded
// by seed. The result is sorted. size is capped at n.
func SampleRows(n, size int, seed int64) []int {
	size = min(max(size, 0), n)
	r := rand.New(rand.NewSource(seed))
	rows := r.Perm(n)[:size]
	sort.Ints(rows)
	return rows
}

// groupStyle is the glyph used for one category on a map.
type groupStyle struct {
	color color.Color
	shape draw.GlyphDrawer
}

// newPalette assigns a colour and glyph shape to each category, in sorted order.
// It is built once per chart.
func newPalette(groups []string) map[string]groupStyle {
	seen := make(map[string]bool)
	var levels []string
	for _, g := range groups {
		if !seen[g] {
			seen[g] = true
			levels = append(levels, g)
		}
	}
	sort.Strings(levels)
	out := make(map[string]groupStyle, len(levels))
	for i, l := range levels {
		out[l] = groupStyle{color: plotutil.Color(i), shape: plotutil.Shape(i / len(plotutil.DefaultColors))}
	}
	return out
}

// GeoScatter places each record at its longitude/latitude coloured by group.
func GeoScatter(path, title string, lon, lat []float64, groups []string) error {
	if len(lon) != len(lat) || len(lon) != len(groups) {
		return errors.Errorf("mismatched coordinates: %d lon, %d lat, %d groups", len(lon), len(lat), len(groups))
	}
	if len(lon) == 0 {
		return errors.New("map of no points")
	}

	styles := newPalette(groups)
	points := make(map[string]plotter.XYs, len(styles))
	for i, g := range groups {
		points[g] = append(points[g], plotter.XY{X: lon[i], Y: lat[i]})
	}
	names := make([]string, 0, len(points))
	for g := range points {
		names = append(names, g)
	}
	sort.Strings(names)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Legend.Top = true
	p.Legend.Left = true
	for _, g := range names {
		s, err := plotter.NewScatter(points[g])
		if err != nil {
			return errors.Wrapf(err, "scatter of %s", g)
		}
		s.GlyphStyle.Color = styles[g].color
		s.GlyphStyle.Shape = styles[g].shape
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(g, s)
	}
	if err := p.Save(Width+4*vg.Inch, Height+3*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
