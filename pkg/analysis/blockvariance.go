package analysis

import "math"

// blockVarianceSections is how many equal sections the buffer is split
// into for the meta-variance pass.
const blockVarianceSections = 10

// blockVarianceExtractor measures how uneven the buffer's local
// variance is. Splicing and region-level edits tend to leave sections
// whose variances disagree, so the variance of per-section variances
// ("meta-variance") carries weak manipulation signal.
type blockVarianceExtractor struct{}

func (blockVarianceExtractor) Name() string { return FeatureBlockVar }

func (blockVarianceExtractor) Extract(buf []byte, mediaType string) float64 {
	if len(buf) == 0 {
		return neutralScore
	}

	normalized := 0.0
	if len(buf) >= blockVarianceSections {
		sectionVariances := make([]float64, 0, blockVarianceSections)
		size := len(buf) / blockVarianceSections
		for i := 0; i < blockVarianceSections; i++ {
			section := buf[i*size : (i+1)*size]
			sectionVariances = append(sectionVariances, byteVariance(section))
		}
		metaVariance := variance(sectionVariances)
		normalized = math.Min(100, math.Sqrt(metaVariance)/100)
	}

	// The hash term (mod 30) spreads otherwise-flat buffers apart.
	score := 30 + normalized*0.4 + HashMod(buf, 30)
	return clamp(score, 0, 100)
}

// byteVariance is the population variance of the byte values.
func byteVariance(section []byte) float64 {
	if len(section) == 0 {
		return 0
	}
	mean := 0.0
	for _, b := range section {
		mean += float64(b)
	}
	mean /= float64(len(section))

	sum := 0.0
	for _, b := range section {
		d := float64(b) - mean
		sum += d * d
	}
	return sum / float64(len(section))
}
