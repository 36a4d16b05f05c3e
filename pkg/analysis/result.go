package analysis

import (
	"math"
	"strings"
	"time"
)

// FileType is the coarse media class derived from the declared MIME type.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
)

// Supported MIME types. Anything else degrades to neutral scoring rather
// than failing - size/type validation is the caller's responsibility.
const (
	MimeJPEG      = "image/jpeg"
	MimePNG       = "image/png"
	MimeMP4       = "video/mp4"
	MimeQuickTime = "video/quicktime"
)

// FileTypeOf maps a declared MIME type to its media class. Unknown types
// fall back to image so the pipeline always produces a result.
func FileTypeOf(mediaType string) FileType {
	if strings.HasPrefix(mediaType, "video/") {
		return FileTypeVideo
	}
	return FileTypeImage
}

// FeatureSet maps extractor name to its score in [0,100]. It is never
// empty for a well-formed buffer: every registered extractor contributes
// a value, placeholders included.
type FeatureSet map[string]float64

// AnalysisResult is the value returned per analysis call. It is created
// once, never mutated, and not persisted by the engine itself.
type AnalysisResult struct {
	Score                float64            `json:"score"`
	Category             string             `json:"category"`
	IsDeepfake           bool               `json:"is_deepfake"`
	FileType             FileType           `json:"file_type"`
	FeatureContributions map[string]float64 `json:"feature_contributions"`
	FrameScores          []float64          `json:"frame_scores,omitempty"`
	FramesAnalyzed       int                `json:"frames_analyzed,omitempty"`
	Timestamp            time.Time          `json:"timestamp"`
}

// RemoteResult is the payload an external detector returns. Only the
// merger consumes it; absence or failure is always tolerated.
type RemoteResult struct {
	Score           float64            `json:"score"`
	AnalysisDetails map[string]float64 `json:"analysis_details"`
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place, the precision of every score in
// the output contract.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
