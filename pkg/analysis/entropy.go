package analysis

import "math"

// entropyWindowSize is the span of each non-overlapping window in the
// local-entropy pass. Buffers shorter than one window skip the variance
// term entirely rather than dividing by zero.
const entropyWindowSize = 1024

// entropyExtractor scores noise characteristics from Shannon entropy.
// Natural photographic content sits near 7.8 bits/byte once compressed;
// distance from that point, plus uneven entropy across windows, both
// push the score up.
type entropyExtractor struct{}

func (entropyExtractor) Name() string { return FeatureNoise }

func (entropyExtractor) Extract(buf []byte, mediaType string) float64 {
	if len(buf) == 0 {
		return neutralScore
	}

	globalEntropy := shannonEntropy(buf)
	normGlobal := (globalEntropy / 8) * 100

	normVariance := 0.0
	if len(buf) >= entropyWindowSize {
		locals := windowEntropies(buf, entropyWindowSize)
		normVariance = math.Min(100, math.Sqrt(variance(locals))*20)
	}

	score := 40 + math.Abs(normGlobal-78)*1.5 + normVariance*0.5
	return clamp(score, 0, 100)
}

// shannonEntropy returns the entropy of the byte-value histogram in
// bits (0-8).
func shannonEntropy(buf []byte) float64 {
	var counts [256]int
	for _, b := range buf {
		counts[b]++
	}

	total := float64(len(buf))
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// windowEntropies computes entropy per full non-overlapping window.
// A trailing partial window is ignored.
func windowEntropies(buf []byte, window int) []float64 {
	n := len(buf) / window
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, shannonEntropy(buf[i*window:(i+1)*window]))
	}
	return out
}

// variance is the population variance of the series.
func variance(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	sum := 0.0
	for _, v := range series {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(series))
}
