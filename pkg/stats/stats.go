package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Summary holds the descriptive statistics reported for a numeric column.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe summarises x. It fails on empty input.
func Describe(x []float64) (Summary, error) {
	s := Summary{N: len(x)}
	var err error
	if s.Mean, err = mstats.Mean(x); err != nil {
		return s, errors.Wrap(err, "mean")
	}
	if s.StdDev, err = mstats.StandardDeviationSample(x); err != nil {
		return s, errors.Wrap(err, "standard deviation")
	}
	if s.Min, err = mstats.Min(x); err != nil {
		return s, errors.Wrap(err, "min")
	}
	if s.Max, err = mstats.Max(x); err != nil {
		return s, errors.Wrap(err, "max")
	}
	if s.Median, err = mstats.Median(x); err != nil {
		return s, errors.Wrap(err, "median")
	}
	if len(x) == 1 {
		s.Q1, s.Q3 = x[0], x[0]
		return s, nil
	}
	q, err := mstats.Quartile(x)
	if err != nil {
		return s, errors.Wrap(err, "quartiles")
	}
	s.Q1, s.Q3 = q.Q1, q.Q3
	return s, nil
}

// Percentile returns the p-th percentile (0 <= p <= 100) using linear
// interpolation between closest ranks, rank = p/100*(n-1). This is the
// type 7 definition the stratified split breaks on.
func Percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	return sortedPercentile(cp, p)
}

// Quantiles returns the values at probabilities probs (each in [0,1]).
func Quantiles(x []float64, probs ...float64) []float64 {
	out := make([]float64, len(probs))
	if len(x) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	for i, p := range probs {
		out[i] = sortedPercentile(cp, p*100)
	}
	return out
}

func sortedPercentile(cp []float64, p float64) float64 {
	n := len(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}

// Frequencies counts occurrences of each label and returns them alongside
// the labels sorted by descending count, ties broken alphabetically.
func Frequencies(labels []string) (map[string]int, []string) {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	order := make([]string, 0, len(counts))
	for l := range counts {
		order = append(order, l)
	}
	sort.Slice(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return order[i] < order[j]
	})
	return counts, order
}
