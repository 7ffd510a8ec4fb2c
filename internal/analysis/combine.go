package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Verdict labels.
const (
	VerdictVeryLikelyReal = "Very Likely Real"
	VerdictLikelyReal     = "Likely Real"
	VerdictUncertain      = "Uncertain"
	VerdictMisleading     = "Potentially Misleading"
	VerdictLikelyFake     = "Likely Fake"
	VerdictSatire         = "Satirical Content"
)

// VerdictBand maps a minimum score to a label. Bands are evaluated top-down,
// so they must be sorted by descending Min.
type VerdictBand struct {
	Min   int    `yaml:"min" json:"min"`
	Label string `yaml:"label" json:"label"`
}

// CombinerConfig is the calibration of the score combinator: the verdict
// threshold table and the analyzers whose neutral state carries no insight.
// Both are data so they can be recalibrated without touching combinator code.
type CombinerConfig struct {
	VerdictBands           []VerdictBand
	SuppressNeutralInsight map[string]bool
}

// DefaultCombinerConfig returns the built-in calibration.
func DefaultCombinerConfig() CombinerConfig {
	return CombinerConfig{
		VerdictBands: []VerdictBand{
			{Min: 85, Label: VerdictVeryLikelyReal},
			{Min: 70, Label: VerdictLikelyReal},
			{Min: 50, Label: VerdictUncertain},
			{Min: 30, Label: VerdictMisleading},
			{Min: 0, Label: VerdictLikelyFake},
		},
		SuppressNeutralInsight: map[string]bool{
			NameDomain: true,
		},
	}
}

// classify walks the band table top-down on the rounded score.
func (cfg CombinerConfig) classify(score int) string {
	for _, band := range cfg.VerdictBands {
		if score >= band.Min {
			return band.Label
		}
	}
	return VerdictLikelyFake
}

// isNeutral reports whether a signal marked itself as carrying no
// information (e.g. domain reputation "unknown").
func isNeutral(s Signal) bool {
	v, ok := s.Details["neutral"].(bool)
	return ok && v
}

// Combine merges all signals into one aggregate result via weighted mean.
// similarity is nil when history was empty. Every signal name must have a
// weight entry; a missing entry is a configuration error, never a silent
// default. Weights may be a superset of the signals: entries for absent
// signals (an optional provider that did not fire) contribute nothing.
func Combine(signals map[string]Signal, similarity *Signal, weights map[string]float64, cfg CombinerConfig) (Result, error) {
	all := make(map[string]Signal, len(signals)+1)
	for name, sig := range signals {
		all[name] = sig
	}
	if similarity != nil {
		all[NameSimilarity] = *similarity
	}
	if len(all) == 0 {
		return Result{}, fmt.Errorf("no signals to combine")
	}

	var weightedSum, weightSum float64
	for name, sig := range all {
		w, ok := weights[name]
		if !ok {
			return Result{}, fmt.Errorf("no weight configured for signal %q", name)
		}
		weightedSum += sig.Score * w
		weightSum += w
	}
	score := int(math.Round(weightedSum / weightSum))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	verdict := cfg.classify(score)
	// Satire overrides the threshold verdict, after classification, so the
	// numeric score still reflects the underlying blend.
	if dom, ok := all[NameDomain]; ok && IsSatire(dom) {
		verdict = VerdictSatire
	}

	issues := make([]string, 0, len(all))
	insights := make([]string, 0, len(all))
	appendSignal := func(name string) {
		sig, ok := all[name]
		if !ok {
			return
		}
		if sig.HasIssue {
			issues = append(issues, sig.Message)
			return
		}
		if isNeutral(sig) && cfg.SuppressNeutralInsight[name] {
			return
		}
		if sig.Message != "" {
			insights = append(insights, sig.Message)
		}
	}
	ordered := orderedNames(all)
	for _, name := range ordered {
		appendSignal(name)
	}

	return Result{
		Score:    score,
		Verdict:  verdict,
		Issues:   issues,
		Insights: insights,
		Signals:  all,
	}, nil
}

// orderedNames yields registry analyzers in enumeration order, then the
// similarity signal, then any externally injected signals sorted by name.
func orderedNames(all map[string]Signal) []string {
	known := make(map[string]bool, len(all))
	ordered := make([]string, 0, len(all))
	for _, name := range AnalyzerNames() {
		if _, ok := all[name]; ok {
			ordered = append(ordered, name)
			known[name] = true
		}
	}
	if _, ok := all[NameSimilarity]; ok {
		ordered = append(ordered, NameSimilarity)
		known[NameSimilarity] = true
	}
	var extra []string
	for name := range all {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(ordered, extra...)
}
