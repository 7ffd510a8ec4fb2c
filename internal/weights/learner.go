package weights

import (
	"log/slog"

	"github.com/credlens/credlens/internal/analysis"
)

// noiseBand is the feedback discrepancy below which learning is skipped.
// Disagreement that small oscillates more than it informs.
const noiseBand = 10

// FeedbackEvent is one human judgment of an engine score. It is consumed
// once and not retained.
type FeedbackEvent struct {
	OriginalScore float64  `json:"original_score"`
	UserScore     float64  `json:"user_score"`
	Reasons       []string `json:"reasons"`
}

// Adjustment is one multiplicative tweak to a named weight.
type Adjustment struct {
	Name   string  `yaml:"name" json:"name"`
	Factor float64 `yaml:"factor" json:"factor"`
}

// negativeSignalNames are the analyzers that pull scores down on pattern
// hits; "Too Strict" and "Too Lenient" act on these as a group.
var negativeSignalNames = []string{
	analysis.NameSensationalist,
	analysis.NameClickbait,
	analysis.NameFormatting,
	analysis.NameSentiment,
	analysis.NamePoliticalBias,
}

// DefaultReasonRules maps a feedback reason tag to its weight adjustments.
// New reasons are additive configuration, not new branches.
func DefaultReasonRules() map[string][]Adjustment {
	rules := map[string][]Adjustment{
		"Missing Context": {
			{analysis.NameFactualLanguage, 1.05},
			{analysis.NameBalance, 1.05},
			{analysis.NameCitations, 1.05},
		},
		"Missed Sensationalism": {
			{analysis.NameSensationalist, 1.10},
			{analysis.NameClickbait, 1.05},
		},
		"Too Strict":  groupAdjustments(negativeSignalNames, 0.95),
		"Too Lenient": groupAdjustments(negativeSignalNames, 1.05),
	}
	return rules
}

func groupAdjustments(names []string, factor float64) []Adjustment {
	adj := make([]Adjustment, 0, len(names))
	for _, name := range names {
		adj = append(adj, Adjustment{Name: name, Factor: factor})
	}
	return adj
}

// Learner consumes feedback events and mutates the weight store. All
// mutation happens inside Store.Update, so concurrent feedback is serialized.
type Learner struct {
	store  *Store
	rules  map[string][]Adjustment
	logger *slog.Logger
}

// NewLearner builds a learner over the store. rules may be nil to use the
// built-in reason table.
func NewLearner(store *Store, rules map[string][]Adjustment, logger *slog.Logger) *Learner {
	if rules == nil {
		rules = DefaultReasonRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Learner{store: store, rules: rules, logger: logger}
}

// Learn adjusts the weight profile from one feedback event. Feedback within
// the noise band is a no-op. The total weight mass is conserved: after the
// reason adjustments, all weights are rescaled so their sum equals the
// pre-adjustment sum.
func (l *Learner) Learn(ev FeedbackEvent) {
	discrepancy := ev.UserScore - ev.OriginalScore
	if discrepancy < noiseBand && discrepancy > -noiseBand {
		l.logger.Debug("feedback within noise band, skipping learning",
			"discrepancy", discrepancy)
		return
	}

	l.store.Update(func(p Profile) Profile {
		preSum := p.Sum()

		if len(ev.Reasons) == 0 {
			nudgeAll(p, 1+discrepancy/1000)
		} else {
			for _, reason := range ev.Reasons {
				adjustments, ok := l.rules[reason]
				if !ok {
					// Unrecognized tags still move every weight a little,
					// scaled by how wrong the engine was.
					nudgeAll(p, 1+discrepancy/500)
					continue
				}
				for _, adj := range adjustments {
					if _, ok := p[adj.Name]; ok {
						p[adj.Name] *= adj.Factor
					}
				}
			}
		}

		renormalize(p, preSum)
		l.logger.Info("weight profile adjusted from feedback",
			"discrepancy", discrepancy, "reasons", ev.Reasons)
		return p
	})
}

func nudgeAll(p Profile, factor float64) {
	if factor <= 0 {
		factor = 0.01
	}
	for name := range p {
		p[name] *= factor
	}
}

// renormalize scales the profile uniformly so its sum returns to targetSum,
// preserving total mass while letting relative proportions shift.
func renormalize(p Profile, targetSum float64) {
	current := p.Sum()
	if current <= 0 {
		return
	}
	scale := targetSum / current
	for name := range p {
		p[name] *= scale
	}
}
