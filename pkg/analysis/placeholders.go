package analysis

// hashComponent is one hash-derived term of a placeholder score: the
// buffer fingerprint reduced mod Modulus, scaled by Weight. Moduli are
// chosen from 25-50, distinct per extractor, so the placeholder outputs
// decorrelate nominally even though they share one fingerprint.
type hashComponent struct {
	Modulus int
	Weight  float64
}

// placeholderExtractor is a deterministic stand-in for a feature that
// has no real signal-processing implementation yet (edge consistency,
// color distribution, texture patterns, frequency analysis, statistical
// metrics, facial features, temporal consistency). It is explicitly NOT
// a computer-vision algorithm: the score is 50 plus hash-derived
// components, clamped to [0,100]. Swapping in a genuine implementation
// means replacing this type behind the Extractor interface; nothing
// downstream changes.
type placeholderExtractor struct {
	name       string
	components []hashComponent
}

func (p placeholderExtractor) Name() string { return p.name }

func (p placeholderExtractor) Extract(buf []byte, mediaType string) float64 {
	if len(buf) == 0 {
		return neutralScore
	}

	score := neutralScore
	for _, c := range p.components {
		score += HashMod(buf, c.Modulus) * c.Weight
	}
	return clamp(score, 0, 100)
}
