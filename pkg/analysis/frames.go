package analysis

import "math"

// Frame simulation parameters. The per-frame sequence is derived from
// the composite score alone: frame count is 8 plus (rounded score mod
// 10), each frame rides a half-sine swing of up to 15 points, and every
// frame is clamped to [5,95].
const (
	frameCountBase = 8
	frameCountMod  = 10
	frameAmplitude = 15.0
	frameScoreMin  = 5.0
	frameScoreMax  = 95.0
)

// simulateFrameScores derives an ordered per-frame score sequence from
// the composite score under a temporal-continuity model: each frame's
// score is anchored to a smoothed carry-over of the previous frame
// (70%) pulled back toward the base score (30%), so the sequence varies
// smoothly instead of jumping. The simulator must not fabricate the
// very discontinuity the scores are meant to detect.
func simulateFrameScores(baseScore float64) []float64 {
	frameCount := frameCountBase + int(math.Round(baseScore))%frameCountMod

	scores := make([]float64, 0, frameCount)
	previous := baseScore
	for i := 0; i < frameCount; i++ {
		variation := math.Sin(float64(i)/float64(frameCount)*math.Pi) * frameAmplitude
		frameScore := clamp(previous+variation, frameScoreMin, frameScoreMax)
		scores = append(scores, round1(frameScore))
		previous = frameScore*0.7 + baseScore*0.3
	}
	return scores
}
