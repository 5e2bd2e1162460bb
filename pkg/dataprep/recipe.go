package dataprep

import "houseprice/pkg/pipeline"

// RecipeOptions parameterises the standard sale-price recipe.
type RecipeOptions struct {
	Outcome   string
	LogBase   float64
	Threshold float64
}

func DefaultRecipeOptions(outcome string) RecipeOptions {
	return RecipeOptions{Outcome: outcome, LogBase: 10, Threshold: 0.05}
}

// NewRecipe returns the fixed transform sequence: log the outcome, collapse
// rare levels of every nominal column, one-hot encode every nominal column and
// drop predictors that are constant on the training set.
func NewRecipe(opts RecipeOptions) *pipeline.Recipe {
	return pipeline.NewRecipe(opts.Outcome,
		NewLogStep(opts.LogBase, opts.Outcome),
		NewOtherStep(opts.Threshold),
		NewDummyStep(),
		NewZeroVarianceStep(opts.Outcome),
	)
}
