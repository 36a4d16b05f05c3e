package analysis

import (
	"math"
	"strings"
)

// compressionExtractor scores compression-signature characteristics.
// The JPEG path counts real marker structure; PNG and video paths are
// hash-derived placeholders awaiting real codec analysis.
type compressionExtractor struct{}

func (compressionExtractor) Name() string { return FeatureCompression }

func (compressionExtractor) Extract(buf []byte, mediaType string) float64 {
	if len(buf) == 0 {
		return neutralScore
	}

	switch {
	case mediaType == MimeJPEG:
		return jpegCompressionScore(buf)
	case mediaType == MimePNG:
		// Placeholder chunk/consistency sub-scores: hash mod 97 and mod 89.
		chunkScore := HashMod(buf, 97)
		consistencyScore := HashMod(buf, 89)
		return math.Min(100, 45+chunkScore*0.6+consistencyScore*0.4)
	case strings.HasPrefix(mediaType, "video/"):
		// Placeholder frame/codec sub-scores: hash mod 83 and mod 79.
		frameAnalysis := HashMod(buf, 83)
		codecConsistency := HashMod(buf, 79)
		return math.Min(100, 40+frameAnalysis*0.5+codecConsistency*0.5)
	default:
		return neutralScore
	}
}

// jpegCompressionScore scans marker structure in a JPEG byte stream.
// SOF markers (0xFF 0xC0-0xCF) and quantization tables (0xFF 0xDB) are
// counted as signatures, not decoded. The artifact term is a hash
// placeholder in [0,100).
func jpegCompressionScore(buf []byte) float64 {
	markerCount := 0
	quantTables := 0
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] != 0xFF {
			continue
		}
		next := buf[i+1]
		if next >= 0xC0 && next <= 0xCF {
			markerCount++
		}
		if next == 0xDB {
			quantTables++
		}
	}

	artifactScore := Hash100(buf)
	score := 30 + float64(markerCount)*5 + float64(quantTables)*8 + artifactScore*0.7
	return math.Min(100, score)
}
