package analysis

import (
	"fmt"
	"sort"
)

// Category labels, highest band first.
const (
	CategoryLikelyManipulated      = "Likely Manipulated"
	CategoryPotentiallyManipulated = "Potentially Manipulated"
	CategoryUncertain              = "Uncertain"
	CategoryLikelyAuthentic        = "Likely Authentic"
)

// Band maps a half-open score interval [Min, next band's Min) to a
// label. Lower bounds are inclusive: a score of exactly 80 lands in
// the band whose Min is 80.
type Band struct {
	Min   float64
	Label string
}

// Policy is the category assignment rule. Band boundaries and labels
// are configuration, not ground truth: the source material disagrees
// with itself about them, so they are deliberately a swappable value
// rather than constants baked into the classifier.
type Policy struct {
	Bands             []Band
	DeepfakeThreshold float64
}

// DefaultPolicy returns the canonical band set:
// >=80 Likely Manipulated, >=60 Potentially Manipulated, >=40 Uncertain,
// <40 Likely Authentic, with is_deepfake at score >= 60.
func DefaultPolicy() *Policy {
	return &Policy{
		Bands: []Band{
			{Min: 80, Label: CategoryLikelyManipulated},
			{Min: 60, Label: CategoryPotentiallyManipulated},
			{Min: 40, Label: CategoryUncertain},
			{Min: 0, Label: CategoryLikelyAuthentic},
		},
		DeepfakeThreshold: 60,
	}
}

// Validate checks the policy is usable: at least one band, a band
// anchored at 0 so every score maps somewhere, and no duplicate bounds.
func (p *Policy) Validate() error {
	if len(p.Bands) == 0 {
		return fmt.Errorf("policy has no bands")
	}
	seen := map[float64]bool{}
	hasZero := false
	for _, b := range p.Bands {
		if b.Min < 0 || b.Min > 100 {
			return fmt.Errorf("band %q: min %v outside [0,100]", b.Label, b.Min)
		}
		if seen[b.Min] {
			return fmt.Errorf("duplicate band lower bound %v", b.Min)
		}
		seen[b.Min] = true
		if b.Min == 0 {
			hasZero = true
		}
	}
	if !hasZero {
		return fmt.Errorf("policy needs a band anchored at 0")
	}
	return nil
}

// Categorize maps a score to its band label. Pure function of score:
// no hidden state, same input always yields the same label.
func (p *Policy) Categorize(score float64) string {
	bands := make([]Band, len(p.Bands))
	copy(bands, p.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Min > bands[j].Min })

	for _, b := range bands {
		if score >= b.Min {
			return b.Label
		}
	}
	// Unreachable with a validated policy (zero-anchored band).
	return bands[len(bands)-1].Label
}

// IsDeepfake applies the boolean flag threshold.
func (p *Policy) IsDeepfake(score float64) bool {
	return score >= p.DeepfakeThreshold
}
