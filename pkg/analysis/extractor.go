package analysis

// Feature names. The set is fixed per build: every extractor runs for
// every buffer, image or video, so feature_contributions always carries
// all eleven keys. Which keys are meaningful differs by media class
// (temporal_consistency matters for video), but presence never does.
const (
	FeatureNoise       = "noise_analysis"
	FeatureFacial      = "facial_features"
	FeatureCompression = "compression_artifacts"
	FeatureTemporal    = "temporal_consistency"
	FeatureMetadata    = "metadata_analysis"
	FeatureEdge        = "edge_consistency"
	FeatureColor       = "color_distribution"
	FeatureTexture     = "texture_patterns"
	FeatureFrequency   = "frequency_analysis"
	FeatureStatistical = "statistical_metrics"
	FeatureBlockVar    = "block_variance"
)

// neutralScore is what every extractor reports when it has nothing to
// say: unknown media type, empty buffer, or a sub-computation whose
// preconditions are not met.
const neutralScore = 50.0

// An Extractor maps (buffer, media type) to a score in [0,100]. Higher
// means more likely manipulated. Extractors are pure functions: no
// shared state, no I/O on the scoring path, never an error - degraded
// inputs produce the neutral score instead.
//
// Several extractors here are NOT real computer-vision algorithms; they
// are deterministic hash-derived stand-ins (see placeholders.go). The
// interface exists so genuine CV/DSP implementations can replace them
// without touching the scorer, classifier, or merger.
type Extractor interface {
	// Name is the fixed feature key this extractor contributes.
	Name() string

	// Extract scores the buffer. Implementations must clamp to [0,100]
	// and return neutralScore for empty buffers.
	Extract(buf []byte, mediaType string) float64
}

// defaultExtractors returns the full extractor set in a stable order.
func defaultExtractors() []Extractor {
	return []Extractor{
		entropyExtractor{},
		compressionExtractor{},
		metadataExtractor{},
		blockVarianceExtractor{},
		placeholderExtractor{name: FeatureFacial, components: []hashComponent{{45, 0.7}, {35, 0.3}}},
		placeholderExtractor{name: FeatureTemporal, components: []hashComponent{{39, 0.5}, {26, 0.4}}},
		placeholderExtractor{name: FeatureEdge, components: []hashComponent{{41, 0.5}, {29, 0.3}}},
		placeholderExtractor{name: FeatureColor, components: []hashComponent{{43, 0.4}, {31, 0.4}}},
		placeholderExtractor{name: FeatureTexture, components: []hashComponent{{47, 0.5}, {25, 0.2}}},
		placeholderExtractor{name: FeatureFrequency, components: []hashComponent{{37, 0.6}, {27, 0.2}}},
		placeholderExtractor{name: FeatureStatistical, components: []hashComponent{{49, 0.3}, {33, 0.3}}},
	}
}
