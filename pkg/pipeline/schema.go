package pipeline

import "houseprice/pkg/core"

// Schema describes the feature columns a prepared recipe produces.
type Schema struct {
	FeatureNames []string
}

// Check reports core.ErrSchemaMismatch unless names matches the schema exactly.
func (s Schema) Check(names []string) error {
	return core.CheckNames(s.FeatureNames, names)
}

func (s Schema) Len() int { return len(s.FeatureNames) }

func (s Schema) clone() Schema {
	return Schema{FeatureNames: append([]string(nil), s.FeatureNames...)}
}
