package analysis

import "testing"

func TestCategorizeBoundaries(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		score float64
		want  string
	}{
		{0, CategoryLikelyAuthentic},
		{39.9, CategoryLikelyAuthentic},
		{40, CategoryUncertain},
		{59.9, CategoryUncertain},
		{60, CategoryPotentiallyManipulated},
		{79.9, CategoryPotentiallyManipulated},
		{80, CategoryLikelyManipulated},
		{100, CategoryLikelyManipulated},
	}
	for _, tt := range tests {
		if got := p.Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestIsDeepfakeThreshold(t *testing.T) {
	p := DefaultPolicy()
	if p.IsDeepfake(59.9) {
		t.Error("59.9 flagged as deepfake")
	}
	if !p.IsDeepfake(60) {
		t.Error("60 not flagged as deepfake, lower bound is inclusive")
	}
	if !p.IsDeepfake(100) {
		t.Error("100 not flagged as deepfake")
	}
}

func TestCategorizeAndFlagAgreeAtSuspectBoundary(t *testing.T) {
	// The flag threshold and the "Potentially Manipulated" band share
	// their lower bound in the default policy, so a flagged score is
	// never labeled below that band.
	p := DefaultPolicy()
	for _, score := range []float64{60, 60.1, 75, 80, 99} {
		if !p.IsDeepfake(score) {
			t.Errorf("score %v not flagged", score)
			continue
		}
		got := p.Categorize(score)
		if got != CategoryPotentiallyManipulated && got != CategoryLikelyManipulated {
			t.Errorf("flagged score %v labeled %q", score, got)
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"default", *DefaultPolicy(), false},
		{"no bands", Policy{}, true},
		{"no zero anchor", Policy{Bands: []Band{{Min: 40, Label: "x"}}}, true},
		{"duplicate bound", Policy{Bands: []Band{
			{Min: 0, Label: "a"}, {Min: 40, Label: "b"}, {Min: 40, Label: "c"},
		}}, true},
		{"out of range", Policy{Bands: []Band{
			{Min: 0, Label: "a"}, {Min: 120, Label: "b"},
		}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategorizeCustomBands(t *testing.T) {
	p := &Policy{
		Bands: []Band{
			{Min: 0, Label: "clean"},
			{Min: 50, Label: "flagged"},
		},
		DeepfakeThreshold: 50,
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := p.Categorize(49.9); got != "clean" {
		t.Errorf("49.9 -> %q", got)
	}
	if got := p.Categorize(50); got != "flagged" {
		t.Errorf("50 -> %q", got)
	}
}
