package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights is the fixed weight table over feature names. The default
// table sums to 1.00; the scorer renormalizes over whichever features
// are actually present, so a partial FeatureSet never biases the
// composite downward.
type Weights map[string]float64

// DefaultWeights returns the canonical weight table.
//
//	noise_analysis         0.15
//	facial_features        0.20
//	compression_artifacts  0.15
//	temporal_consistency   0.10
//	metadata_analysis      0.10
//	edge_consistency       0.05
//	color_distribution     0.05
//	texture_patterns       0.05
//	frequency_analysis     0.05
//	statistical_metrics    0.05
//	block_variance         0.05
func DefaultWeights() Weights {
	return Weights{
		FeatureNoise:       0.15,
		FeatureFacial:      0.20,
		FeatureCompression: 0.15,
		FeatureTemporal:    0.10,
		FeatureMetadata:    0.10,
		FeatureEdge:        0.05,
		FeatureColor:       0.05,
		FeatureTexture:     0.05,
		FeatureFrequency:   0.05,
		FeatureStatistical: 0.05,
		FeatureBlockVar:    0.05,
	}
}

// weightsFile is the on-disk YAML shape for weight overrides.
type weightsFile struct {
	FeatureWeights map[string]float64 `yaml:"feature_weights"`
}

// LoadWeights reads a weight table override from a YAML file. Unknown
// feature names are rejected so typos fail loudly at startup rather
// than silently dropping a feature's influence.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}

	var f weightsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse weights file: %w", err)
	}
	if len(f.FeatureWeights) == 0 {
		return nil, fmt.Errorf("weights file %s has no feature_weights", path)
	}

	known := DefaultWeights()
	w := Weights{}
	for name, weight := range f.FeatureWeights {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("unknown feature %q in weights file", name)
		}
		if weight < 0 {
			return nil, fmt.Errorf("negative weight for feature %q", name)
		}
		w[name] = weight
	}
	return w, nil
}

// CompositeScorer folds a FeatureSet into one score in [0,100].
type CompositeScorer struct {
	weights Weights
}

// NewCompositeScorer builds a scorer over the given weight table, or
// the default table if nil.
func NewCompositeScorer(w Weights) *CompositeScorer {
	if len(w) == 0 {
		w = DefaultWeights()
	}
	return &CompositeScorer{weights: w}
}

// Combine computes the weighted average of the present features,
// renormalized over the weights actually present. Features without a
// configured weight are ignored; an empty set returns the neutral 50.
// The result is rounded to one decimal.
func (s *CompositeScorer) Combine(features FeatureSet) float64 {
	var weightedSum, weightTotal float64
	for name, value := range features {
		w, ok := s.weights[name]
		if !ok || w == 0 {
			continue
		}
		weightedSum += value * w
		weightTotal += w
	}
	if weightTotal == 0 {
		return neutralScore
	}
	return round1(clamp(weightedSum/weightTotal, 0, 100))
}
