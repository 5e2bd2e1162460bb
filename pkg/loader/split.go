package loader

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"houseprice/pkg/data"
	"houseprice/pkg/stats"
)

var ErrInvalidProportion = errors.New("split proportion must be in (0,1)")

// minPerBucket is the smallest expected stratum size before the number of
// quantile buckets is reduced.
const minPerBucket = 20

// SplitOptions configures a stratified train/test split.
type SplitOptions struct {
	Target string  // numeric column used for strata; empty disables stratification
	Prop   float64 // fraction of records that go to training
	Seed   int64
	Breaks int     // number of quantile buckets
	Pool   float64 // strata holding less than this fraction of records are merged
}

// DefaultSplitOptions returns a 3/4 split stratified on target in quartiles.
func DefaultSplitOptions(target string) SplitOptions {
	return SplitOptions{Target: target, Prop: 0.75, Seed: 1, Breaks: 4, Pool: 0.1}
}

// Split is a partition of a dataset into disjoint training and test subsets.
// Row positions refer to the source dataset and are ascending.
type Split struct {
	Train, Test         *data.Dataset
	TrainRows, TestRows []int
}

// StratifiedSplit partitions ds. Records are grouped into strata by target
// quantile bucket and floor(len(stratum)*Prop) records of each stratum are
// drawn for training; the rest form the test set. The same options always
// yield the same partition.
func StratifiedSplit(ds *data.Dataset, opts SplitOptions) (*Split, error) {
	if !(opts.Prop > 0 && opts.Prop < 1) {
		return nil, errors.Wrapf(ErrInvalidProportion, "got %v", opts.Prop)
	}
	n := ds.Len()
	if n == 0 {
		return nil, errors.New("cannot split an empty dataset")
	}

	strata := [][]int{seq(n)}
	if opts.Target != "" {
		y, err := ds.Float(opts.Target)
		if err != nil {
			return nil, errors.Wrap(err, "stratification target")
		}
		strata = Strata(y, opts.Breaks, opts.Pool)
	}

	r := rand.New(rand.NewSource(opts.Seed))
	var train, test []int
	for _, stratum := range strata {
		k := int(math.Floor(float64(len(stratum))*opts.Prop + 1e-9))
		perm := r.Perm(len(stratum))
		for i, p := range perm {
			if i < k {
				train = append(train, stratum[p])
			} else {
				test = append(test, stratum[p])
			}
		}
	}
	sort.Ints(train)
	sort.Ints(test)

	trainDS, err := ds.Subset(train)
	if err != nil {
		return nil, err
	}
	testDS, err := ds.Subset(test)
	if err != nil {
		return nil, err
	}
	return &Split{Train: trainDS, Test: testDS, TrainRows: train, TestRows: test}, nil
}

// Strata buckets row positions of y by quantile. The number of buckets shrinks
// to floor(n/20) when buckets would hold fewer than 20 rows on average, and
// fewer than two buckets means a single stratum. Buckets smaller than pool*n
// are merged into their smaller neighbour.
func Strata(y []float64, breaks int, pool float64) [][]int {
	n := len(y)
	if n/max(breaks, 1) < minPerBucket {
		breaks = min(breaks, n/minPerBucket)
	}
	if breaks < 2 {
		return [][]int{seq(n)}
	}

	probs := make([]float64, breaks+1)
	for i := range probs {
		probs[i] = float64(i) / float64(breaks)
	}
	cuts := unique(stats.Quantiles(y, probs...))
	if len(cuts) < 3 {
		return [][]int{seq(n)}
	}

	// intervals are (cuts[b], cuts[b+1]] with the lowest one closed
	buckets := make([][]int, len(cuts)-1)
	for i, v := range y {
		b := sort.SearchFloat64s(cuts[1:], v)
		if b >= len(buckets) {
			b = len(buckets) - 1
		}
		buckets[b] = append(buckets[b], i)
	}
	return poolStrata(buckets, pool, n)
}

func poolStrata(buckets [][]int, pool float64, n int) [][]int {
	var out [][]int
	for _, b := range buckets {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	for len(out) > 1 {
		smallest := 0
		for i := range out {
			if len(out[i]) < len(out[smallest]) {
				smallest = i
			}
		}
		if float64(len(out[smallest])) >= pool*float64(n) {
			break
		}
		into := smallest - 1
		if smallest == 0 || (smallest+1 < len(out) && len(out[smallest+1]) < len(out[smallest-1])) {
			into = smallest + 1
		}
		merged := append(append([]int(nil), out[into]...), out[smallest]...)
		sort.Ints(merged)
		out[into] = merged
		out = append(out[:smallest], out[smallest+1:]...)
	}
	return out
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range n {
		out[i] = i
	}
	return out
}

func unique(sorted []float64) []float64 {
	var out []float64
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
