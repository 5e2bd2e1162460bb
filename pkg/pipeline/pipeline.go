package pipeline

import (
	"github.com/pkg/errors"

	"houseprice/pkg/core"
	"houseprice/pkg/data"
)

var ErrNotNumeric = errors.New("predictor is not numeric after baking")

// Step is an unfitted column transform. Prep estimates whatever the step needs
// from training data and returns the fitted form.
type Step interface {
	Name() string
	Prep(train *data.Dataset) (PreparedStep, error)
}

// PreparedStep is a fitted transform. Bake must not depend on anything but the
// state captured at Prep time and its argument.
type PreparedStep interface {
	Name() string
	Bake(ds *data.Dataset) (*data.Dataset, error)
}

// Recipe is an ordered list of steps applied to every predictor, plus the
// outcome column that is split off into the target vector.
type Recipe struct {
	Outcome string
	steps   []Step
}

func NewRecipe(outcome string, steps ...Step) *Recipe {
	return &Recipe{Outcome: outcome, steps: steps}
}

// Prep fits the steps in order on train: each step is prepped on the output of
// the previous steps baked on train. The result is immutable.
func (r *Recipe) Prep(train *data.Dataset) (*PreparedRecipe, error) {
	if train.Len() == 0 {
		return nil, errors.New("cannot prep on an empty training set")
	}
	if !train.Schema().Has(r.Outcome) {
		return nil, errors.Wrapf(data.ErrUnknownColumn, "outcome %s", r.Outcome)
	}
	p := &PreparedRecipe{outcome: r.Outcome}
	ds := train
	for _, s := range r.steps {
		prepped, err := s.Prep(ds)
		if err != nil {
			return nil, errors.Wrapf(err, "prep %s", s.Name())
		}
		if ds, err = prepped.Bake(ds); err != nil {
			return nil, errors.Wrapf(err, "bake %s on training data", s.Name())
		}
		p.steps = append(p.steps, prepped)
	}
	names, err := predictorNames(ds, r.Outcome)
	if err != nil {
		return nil, err
	}
	p.schema = Schema{FeatureNames: names}
	return p, nil
}

// PreparedRecipe is a recipe whose steps have all been fitted.
type PreparedRecipe struct {
	outcome string
	steps   []PreparedStep
	schema  Schema
}

func (p *PreparedRecipe) Schema() Schema { return p.schema.clone() }

func (p *PreparedRecipe) Outcome() string { return p.outcome }

// Steps lists the fitted steps in application order.
func (p *PreparedRecipe) Steps() []PreparedStep {
	return append([]PreparedStep(nil), p.steps...)
}

// Bake applies the fitted steps to ds and returns the feature matrix and the
// outcome vector. The feature schema always equals the training schema.
func (p *PreparedRecipe) Bake(ds *data.Dataset) (*core.FeatureMatrix, []float64, error) {
	out := ds
	var err error
	for _, s := range p.steps {
		if out, err = s.Bake(out); err != nil {
			return nil, nil, errors.Wrapf(err, "bake %s", s.Name())
		}
	}
	names, err := predictorNames(out, p.outcome)
	if err != nil {
		return nil, nil, err
	}
	if err := p.schema.Check(names); err != nil {
		return nil, nil, err
	}
	y, err := out.Float(p.outcome)
	if err != nil {
		return nil, nil, errors.Wrap(err, "outcome")
	}
	cols := make([][]float64, len(names))
	for j, n := range names {
		if cols[j], err = out.Float(n); err != nil {
			return nil, nil, err
		}
	}
	fm, err := core.NewFeatureMatrix(names, cols, out.Len())
	if err != nil {
		return nil, nil, err
	}
	return fm, y, nil
}

func predictorNames(ds *data.Dataset, outcome string) ([]string, error) {
	var names []string
	for _, c := range ds.Schema().Columns() {
		if c.Name == outcome {
			continue
		}
		if c.Kind != data.Numeric {
			return nil, errors.Wrap(ErrNotNumeric, c.Name)
		}
		names = append(names, c.Name)
	}
	return names, nil
}
