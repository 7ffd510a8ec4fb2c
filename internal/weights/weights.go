// Package weights owns the analyzer weight profile: the defaults, the
// process-wide store with its atomic read-modify-write contract, and the
// feedback-driven learner that reshapes relative weights while conserving
// their total mass.
package weights

import (
	"github.com/credlens/credlens/internal/analysis"
)

// Profile maps analyzer name to a positive weight.
type Profile map[string]float64

// Defaults returns the built-in weight profile. Every analyzer in the
// registry plus the similarity signal has an entry; the combinator fails
// fast on any mismatch.
func Defaults() Profile {
	return Profile{
		analysis.NameSensationalist:  1.5,
		analysis.NameClickbait:       1.2,
		analysis.NameFactualLanguage: 1.3,
		analysis.NameFormatting:      0.8,
		analysis.NameBalance:         1.0,
		analysis.NameContentLength:   0.7,
		analysis.NameSentiment:       0.9,
		analysis.NameReadability:     0.6,
		analysis.NameTopicRelevance:  0.6,
		analysis.NamePoliticalBias:   1.1,
		analysis.NameClaimDensity:    1.2,
		analysis.NameCitations:       1.3,
		analysis.NameDomain:          2.0,
		analysis.NameSimilarity:      1.0,
		// External fact-check provider signal (internal/providers); the
		// weight is present even when the provider is disabled, since the
		// combinator only sums weights for signals actually present.
		"factcheck-search": 1.8,
	}
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	cp := make(Profile, len(p))
	for name, w := range p {
		cp[name] = w
	}
	return cp
}

// Sum returns the total weight mass.
func (p Profile) Sum() float64 {
	total := 0.0
	for _, w := range p {
		total += w
	}
	return total
}

// valid reports whether the profile carries a positive weight for every
// default entry. Anything else is treated as corrupt persisted data.
func (p Profile) valid() bool {
	defaults := Defaults()
	if len(p) != len(defaults) {
		return false
	}
	for name := range defaults {
		w, ok := p[name]
		if !ok || w <= 0 {
			return false
		}
	}
	return true
}
