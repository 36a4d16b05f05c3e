package analysis

import (
	"context"
	"log"
	"time"

	"github.com/verifiai/authenticity/pkg/config"
	"github.com/verifiai/authenticity/pkg/httputil"
	"github.com/verifiai/authenticity/pkg/telemetry"
)

// Engine is the content-authenticity scoring pipeline: extractors →
// composite scorer → category policy, plus the frame simulator for
// video and the optional remote merge. It is stateless per call and
// safe for concurrent use; every invocation works on its own buffer
// and returns its own result.
//
// Construction is an explicit factory - there is deliberately no
// module-level singleton and no hidden initialization.
type Engine struct {
	extractors []Extractor
	scorer     *CompositeScorer
	policy     *Policy
	remote     *RemoteClient

	// now is injectable so results are reproducible under test.
	now func() time.Time
}

// NewEngine builds a ready-to-use engine from configuration. A nil
// config yields the default local-only engine. A broken weights file
// logs a warning and falls back to the default table; a broken band
// policy is a hard error since every result depends on it.
func NewEngine(cfg *config.Config) (*Engine, error) {
	weights := DefaultWeights()
	policy := DefaultPolicy()
	var remote *RemoteClient

	if cfg != nil {
		if cfg.WeightsPath != "" {
			loaded, err := LoadWeights(cfg.WeightsPath)
			if err != nil {
				log.Printf("[WARN] Failed to load scorer weights from %s, using defaults: %v", cfg.WeightsPath, err)
			} else {
				weights = loaded
			}
		}

		policy = &Policy{
			Bands: []Band{
				{Min: cfg.ManipulatedThreshold, Label: CategoryLikelyManipulated},
				{Min: cfg.SuspectThreshold, Label: CategoryPotentiallyManipulated},
				{Min: cfg.UncertainThreshold, Label: CategoryUncertain},
				{Min: 0, Label: CategoryLikelyAuthentic},
			},
			DeepfakeThreshold: cfg.SuspectThreshold,
		}

		if cfg.RemoteDetectorURL != "" {
			remote = NewRemoteClient(cfg.RemoteDetectorURL, time.Duration(cfg.RemoteTimeoutMs)*time.Millisecond)
		}
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		extractors: defaultExtractors(),
		scorer:     NewCompositeScorer(weights),
		policy:     policy,
		remote:     remote,
		now:        time.Now,
	}, nil
}

// Policy exposes the active category policy, e.g. for callers merging
// an externally-fetched remote result themselves.
func (e *Engine) Policy() *Policy {
	return e.policy
}

// RemoteStats reports backpressure against the remote detector, and
// false when no remote detector is configured.
func (e *Engine) RemoteStats() (httputil.SemaphoreStats, bool) {
	if e.remote == nil {
		return httputil.SemaphoreStats{}, false
	}
	return e.remote.Stats(), true
}

// Analyze runs the full local pipeline over the buffer. It never
// fails: unknown media types and empty buffers degrade to neutral
// scores, and two calls with byte-identical inputs produce identical
// results (timestamp aside, which comes from the injected clock).
func (e *Engine) Analyze(buf []byte, mediaType string) *AnalysisResult {
	fileType := FileTypeOf(mediaType)

	features := make(FeatureSet, len(e.extractors))
	for _, ex := range e.extractors {
		features[ex.Name()] = clamp(ex.Extract(buf, mediaType), 0, 100)
	}

	score := e.scorer.Combine(features)

	contributions := make(map[string]float64, len(features))
	for name, value := range features {
		contributions[name] = round1(value)
	}

	result := &AnalysisResult{
		Score:                score,
		Category:             e.policy.Categorize(score),
		IsDeepfake:           e.policy.IsDeepfake(score),
		FileType:             fileType,
		FeatureContributions: contributions,
		Timestamp:            e.now(),
	}

	if fileType == FileTypeVideo {
		result.FrameScores = simulateFrameScores(score)
		result.FramesAnalyzed = len(result.FrameScores)
	}

	if telemetry.GlobalClient != nil {
		telemetry.GlobalClient.Track("analysis_complete", map[string]interface{}{
			"file_type":   string(fileType),
			"score":       result.Score,
			"category":    result.Category,
			"is_deepfake": result.IsDeepfake,
			"buffer_size": len(buf),
		})
	}

	return result
}

// AnalyzeWithRemote runs the local pipeline and, when a remote detector
// is configured, blends its result in. The remote leg is best-effort:
// timeout, non-2xx, or malformed JSON all log and fall back to the
// local-only result rather than surfacing an error.
func (e *Engine) AnalyzeWithRemote(ctx context.Context, buf []byte, mediaType string) *AnalysisResult {
	local := e.Analyze(buf, mediaType)
	if e.remote == nil {
		return local
	}

	remote, err := e.remote.Fetch(ctx, buf, mediaType)
	if err != nil {
		log.Printf("[WARN] Remote detector unavailable, returning local-only result: %v", err)
		return local
	}
	return MergeRemote(local, remote, e.policy)
}
