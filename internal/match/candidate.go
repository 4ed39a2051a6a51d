package match

import (
	"sort"

	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// Candidate represents a potential mapping from a sample key to a target property.
type Candidate struct {
	SourceKey string  `json:"sourceKey" yaml:"sourceKey"`
	Score     float64 `json:"score" yaml:"score"`
	Tier      Tier    `json:"tier" yaml:"tier"`

	// Metadata for debugging/explanation
	NormalizedSource string `json:"normalizedSource" yaml:"normalizedSource"`
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every sample key against a target property and returns
// candidates sorted by score (descending). Exact normalized matches score 1.
// Infer selects the head of this list when its tier is not TierNone.
func RankCandidates(target string, sample *payload.Object, scorer Scorer) CandidateList {
	if scorer == nil {
		scorer = JaroWinkler
	}

	targetNorm := NormalizeKey(target)
	keys := sample.Keys()
	candidates := make(CandidateList, 0, len(keys))

	for _, key := range keys {
		sourceNorm := NormalizeKey(key)

		c := Candidate{SourceKey: key, NormalizedSource: sourceNorm, Tier: TierNone}

		switch {
		case sourceNorm == targetNorm:
			c.Score = 1.0
			c.Tier = TierExact
		default:
			c.Score = scorer(targetNorm, sourceNorm)
			if c.Score > AcceptanceThreshold {
				c.Tier = TierFuzzy
			}
		}

		candidates = append(candidates, c)
	}

	// sort.Stable keeps sample order among equal scores
	sort.Stable(candidates)

	return candidates
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Exact matches first, then by score descending.
func (c CandidateList) Less(i, j int) bool {
	if (c[i].Tier == TierExact) != (c[j].Tier == TierExact) {
		return c[i].Tier == TierExact
	}

	return c[i].Score > c[j].Score
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 {
		return nil
	}

	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < threshold
}

// AboveThreshold returns candidates that would be accepted by Infer.
func (c CandidateList) AboveThreshold() CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Tier != TierNone {
			result = append(result, cand)
		}
	}

	return result
}

// DefaultAmbiguityThreshold is the score difference that marks two accepted
// candidates as too close to call in explanations.
const DefaultAmbiguityThreshold = 0.05
