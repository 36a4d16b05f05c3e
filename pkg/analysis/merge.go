package analysis

// Merge weighting: the remote detector's opinion dominates when it is
// available, the local engine backs it.
const (
	remoteMergeWeight = 0.6
	localMergeWeight  = 0.4
)

// mergedFeatures are the only contributions re-blended against the
// remote analysis_details; everything else passes through from the
// local result untouched.
var mergedFeatures = []string{FeatureFacial, FeatureTemporal}

// MergeRemote blends a local result with a remote detector's result
// under the fixed 0.6/0.4 weighting and re-derives category and
// is_deepfake from the combined score. A nil remote returns the local
// result unchanged - merging is best-effort and never fails upward.
// The local result is not mutated; a merged copy is returned.
func MergeRemote(local *AnalysisResult, remote *RemoteResult, policy *Policy) *AnalysisResult {
	if remote == nil {
		return local
	}

	combined := round1(remote.Score*remoteMergeWeight + local.Score*localMergeWeight)

	contributions := make(map[string]float64, len(local.FeatureContributions))
	for name, value := range local.FeatureContributions {
		contributions[name] = value
	}
	for _, name := range mergedFeatures {
		remoteValue, ok := remote.AnalysisDetails[name]
		if !ok {
			continue
		}
		localValue := contributions[name]
		blended := remoteValue*remoteMergeWeight + localValue*localMergeWeight
		contributions[name] = round1(clamp(blended, 0, 100))
	}

	merged := *local
	merged.Score = combined
	merged.Category = policy.Categorize(combined)
	merged.IsDeepfake = policy.IsDeepfake(combined)
	merged.FeatureContributions = contributions
	return &merged
}
