package weights

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credlens/credlens/internal/analysis"
)

func newTestStore() *Store {
	return NewStore(nil, nil)
}

func TestLearnNoOpWithinNoiseBand(t *testing.T) {
	tests := []struct {
		name     string
		original float64
		user     float64
	}{
		{"identical", 50, 50},
		{"slightly higher", 50, 59},
		{"slightly lower", 50, 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			learner := NewLearner(store, nil, nil)
			before := store.Snapshot()

			learner.Learn(FeedbackEvent{OriginalScore: tt.original, UserScore: tt.user})

			assert.Equal(t, before, store.Snapshot(), "feedback inside the noise band must not change weights")
		})
	}
}

func TestLearnConservesTotalWeight(t *testing.T) {
	tests := []struct {
		name  string
		event FeedbackEvent
	}{
		{"missed sensationalism", FeedbackEvent{OriginalScore: 40, UserScore: 90, Reasons: []string{"Missed Sensationalism"}}},
		{"missing context", FeedbackEvent{OriginalScore: 80, UserScore: 30, Reasons: []string{"Missing Context"}}},
		{"too strict", FeedbackEvent{OriginalScore: 30, UserScore: 70, Reasons: []string{"Too Strict"}}},
		{"too lenient", FeedbackEvent{OriginalScore: 90, UserScore: 40, Reasons: []string{"Too Lenient"}}},
		{"unrecognized reason", FeedbackEvent{OriginalScore: 40, UserScore: 80, Reasons: []string{"Just Felt Wrong"}}},
		{"no reasons", FeedbackEvent{OriginalScore: 20, UserScore: 80}},
		{"multiple reasons", FeedbackEvent{OriginalScore: 25, UserScore: 85, Reasons: []string{"Missed Sensationalism", "Missing Context"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			learner := NewLearner(store, nil, nil)
			beforeSum := store.Snapshot().Sum()

			learner.Learn(tt.event)

			assert.InDelta(t, beforeSum, store.Snapshot().Sum(), 1e-9,
				"total weight mass must be conserved across learning")
		})
	}
}

func TestLearnMissedSensationalismShiftsWeights(t *testing.T) {
	store := newTestStore()
	learner := NewLearner(store, nil, nil)
	before := store.Snapshot()

	learner.Learn(FeedbackEvent{OriginalScore: 40, UserScore: 90, Reasons: []string{"Missed Sensationalism"}})

	after := store.Snapshot()
	assert.Greater(t, after[analysis.NameSensationalist], before[analysis.NameSensationalist])
	assert.Greater(t, after[analysis.NameClickbait], before[analysis.NameClickbait])
	// Renormalization pays for the boost by shaving untouched weights.
	assert.Less(t, after[analysis.NameDomain], before[analysis.NameDomain])

	// The sensationalist boost outweighs the clickbait boost: 1.10 vs 1.05.
	sensGain := after[analysis.NameSensationalist] / before[analysis.NameSensationalist]
	clickGain := after[analysis.NameClickbait] / before[analysis.NameClickbait]
	assert.Greater(t, sensGain, clickGain)
}

func TestLearnTooStrictRelaxesNegativeSignals(t *testing.T) {
	store := newTestStore()
	learner := NewLearner(store, nil, nil)
	before := store.Snapshot()

	learner.Learn(FeedbackEvent{OriginalScore: 30, UserScore: 80, Reasons: []string{"Too Strict"}})

	after := store.Snapshot()
	relativeSens := (after[analysis.NameSensationalist] / before[analysis.NameSensationalist]) /
		(after[analysis.NameFactualLanguage] / before[analysis.NameFactualLanguage])
	assert.Less(t, relativeSens, 1.0, "negative-signal weights must fall relative to the rest")
}

func TestLearnKeepsWeightsPositive(t *testing.T) {
	store := newTestStore()
	learner := NewLearner(store, nil, nil)

	for i := 0; i < 50; i++ {
		learner.Learn(FeedbackEvent{OriginalScore: 90, UserScore: 10, Reasons: []string{"Too Lenient"}})
	}

	for name, w := range store.Snapshot() {
		assert.Greater(t, w, 0.0, "weight %s must stay positive", name)
	}
}

func TestLearnConcurrentFeedbackIsSerialized(t *testing.T) {
	store := newTestStore()
	learner := NewLearner(store, nil, nil)
	beforeSum := store.Snapshot().Sum()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reasons := []string{"Missed Sensationalism"}
			if i%2 == 0 {
				reasons = []string{"Too Strict"}
			}
			learner.Learn(FeedbackEvent{OriginalScore: 30, UserScore: 90, Reasons: reasons})
		}(i)
	}
	wg.Wait()

	assert.InDelta(t, beforeSum, store.Snapshot().Sum(), 1e-6,
		"interleaved feedback must not lose or invent weight mass")
}

func TestLearnCustomReasonRules(t *testing.T) {
	store := newTestStore()
	rules := map[string][]Adjustment{
		"Bad Domain Call": {{Name: analysis.NameDomain, Factor: 1.2}},
	}
	learner := NewLearner(store, rules, nil)
	before := store.Snapshot()

	learner.Learn(FeedbackEvent{OriginalScore: 20, UserScore: 80, Reasons: []string{"Bad Domain Call"}})

	after := store.Snapshot()
	require.Greater(t, after[analysis.NameDomain], before[analysis.NameDomain])
	assert.InDelta(t, before.Sum(), after.Sum(), 1e-9)
}
