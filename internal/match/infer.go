package match

import (
	"fmt"

	"github.com/Adityahash12/agent-api-adapter/internal/mapping"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// AcceptanceThreshold is the similarity a fuzzy candidate must strictly exceed.
const AcceptanceThreshold = 0.6

// Tier records how a target property was resolved.
type Tier int

const (
	// TierNone means no candidate qualified.
	TierNone Tier = iota
	// TierFuzzy means the best similarity score above the threshold won.
	TierFuzzy
	// TierExact means the normalized keys were equal.
	TierExact
)

// String returns a human-readable name for the tier.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "exact":
		*t = TierExact
	case "fuzzy":
		*t = TierFuzzy
	case "none":
		*t = TierNone
	default:
		return fmt.Errorf("unknown match tier %q", text)
	}

	return nil
}

// Match explains the decision taken for one target property.
type Match struct {
	Target           string        `json:"target" yaml:"target"`
	NormalizedTarget string        `json:"normalizedTarget" yaml:"normalizedTarget"`
	Source           string        `json:"source,omitempty" yaml:"source,omitempty"`
	NormalizedSource string        `json:"normalizedSource,omitempty" yaml:"normalizedSource,omitempty"`
	Tier             Tier          `json:"tier" yaml:"tier"`
	Score            float64       `json:"score" yaml:"score"`
	Ambiguous        bool          `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`
	Reason           string        `json:"reason" yaml:"reason"`
	Candidates       CandidateList `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// Resolved reports whether a source key was selected.
func (m Match) Resolved() bool { return m.Tier != TierNone }

// Inference is the result of mapping inference.
type Inference struct {
	Mapping *mapping.Config
	Matches []Match
}

// Unresolved returns the target properties left without a source key.
func (inf Inference) Unresolved() []string {
	var out []string

	for _, m := range inf.Matches {
		if !m.Resolved() {
			out = append(out, m.Target)
		}
	}

	return out
}

// CountByTier returns how many targets were resolved by each tier.
func (inf Inference) CountByTier() map[Tier]int {
	out := make(map[Tier]int, 3)
	for _, m := range inf.Matches {
		out[m.Tier]++
	}

	return out
}

type options struct {
	scorer     Scorer
	candidates int
}

// Option configures Infer.
type Option func(*options)

// WithScorer replaces the default Jaro-Winkler scorer.
func WithScorer(s Scorer) Option {
	return func(o *options) {
		if s != nil {
			o.scorer = s
		}
	}
}

// WithCandidates attaches the top n ranked candidates to every Match.
func WithCandidates(n int) Option {
	return func(o *options) { o.candidates = n }
}

// Infer finds, for every target property, the best matching key of sample.
//
// Keys are compared after NormalizeKey. An exact normalized match always wins
// (first exact match in sample order). Otherwise the candidate with the highest score strictly above
// AcceptanceThreshold wins; an equal later score never replaces an earlier one.
// Targets without a qualifying candidate stay unresolved. A fuzzy win whose
// runner-up scores within DefaultAmbiguityThreshold is flagged Ambiguous.
//
// The resulting mapping has exactly one entry per target.
func Infer(sample *payload.Object, targets []string, opts ...Option) Inference {
	o := options{scorer: JaroWinkler}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	inf := Inference{
		Mapping: mapping.NewConfig(),
		Matches: make([]Match, 0, len(targets)),
	}

	for _, target := range targets {
		ranked := RankCandidates(target, sample, o.scorer)

		m := Match{
			Target:           target,
			NormalizedTarget: NormalizeKey(target),
		}

		if best := ranked.Best(); best != nil && best.Tier != TierNone {
			m.Source = best.SourceKey
			m.NormalizedSource = best.NormalizedSource
			m.Tier = best.Tier
			m.Score = best.Score
			inf.Mapping.Set(target, best.SourceKey)
		} else {
			inf.Mapping.SetUnresolved(target)
		}

		var runnerUp *Candidate

		if m.Tier == TierFuzzy {
			if accepted := ranked.AboveThreshold(); accepted.IsAmbiguous(DefaultAmbiguityThreshold) {
				m.Ambiguous = true
				runnerUp = &accepted[1]
			}
		}

		if o.candidates > 0 {
			m.Candidates = ranked.Top(o.candidates)
		}

		m.Reason = explain(m, ranked, runnerUp)
		inf.Matches = append(inf.Matches, m)
	}

	return inf
}

// InferMapping returns only the mapping produced by Infer.
func InferMapping(sample *payload.Object, targets []string, opts ...Option) *mapping.Config {
	return Infer(sample, targets, opts...).Mapping
}

func explain(m Match, ranked CandidateList, runnerUp *Candidate) string {
	switch m.Tier {
	case TierExact:
		return fmt.Sprintf("exact match: %q and %q both normalize to %q", m.Target, m.Source, m.NormalizedTarget)
	case TierFuzzy:
		reason := fmt.Sprintf("fuzzy match: %q ~ %q (score: %.2f)", m.NormalizedTarget, m.NormalizedSource, m.Score)
		if runnerUp != nil {
			reason += fmt.Sprintf("; ambiguous with %q (score: %.2f)", runnerUp.NormalizedSource, runnerUp.Score)
		}

		return reason
	}

	best := ranked.Best()
	if best == nil {
		return "sample has no keys"
	}

	return fmt.Sprintf("best match %q (%.2f) not above threshold %.2f",
		best.NormalizedSource, best.Score, AcceptanceThreshold)
}
