package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineWeightedMean(t *testing.T) {
	signals := map[string]Signal{
		NameSensationalist:  {Score: 40, HasIssue: true, Message: "hype"},
		NameFactualLanguage: {Score: 80, Message: "grounded"},
	}
	weights := map[string]float64{
		NameSensationalist:  1,
		NameFactualLanguage: 3,
	}

	result, err := Combine(signals, nil, weights, DefaultCombinerConfig())
	require.NoError(t, err)
	assert.Equal(t, 70, result.Score) // (40*1 + 80*3) / 4
	assert.Equal(t, VerdictLikelyReal, result.Verdict)
}

func TestCombineScoreStaysInBounds(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
	}{
		{"all zero", []float64{0, 0, 0}},
		{"all max", []float64{100, 100, 100}},
		{"mixed", []float64{0, 50, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := map[string]Signal{}
			weightMap := map[string]float64{}
			names := []string{NameSensationalist, NameClickbait, NameBalance}
			for i, score := range tt.scores {
				signals[names[i]] = Signal{Score: score}
				weightMap[names[i]] = float64(i + 1)
			}
			result, err := Combine(signals, nil, weightMap, DefaultCombinerConfig())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.Score, 0)
			assert.LessOrEqual(t, result.Score, 100)
		})
	}
}

func TestCombineMissingWeightIsConfigurationError(t *testing.T) {
	signals := map[string]Signal{
		NameSensationalist: {Score: 50},
		"mystery-signal":   {Score: 50},
	}
	weightMap := map[string]float64{NameSensationalist: 1}

	_, err := Combine(signals, nil, weightMap, DefaultCombinerConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery-signal")
}

func TestCombineSimilarityIncludedOnlyWhenPresent(t *testing.T) {
	signals := map[string]Signal{NameSensationalist: {Score: 40}}
	weightMap := map[string]float64{NameSensationalist: 1, NameSimilarity: 1}

	without, err := Combine(signals, nil, weightMap, DefaultCombinerConfig())
	require.NoError(t, err)
	assert.Equal(t, 40, without.Score)

	sim := &Signal{Score: 80, Message: "no strong match"}
	with, err := Combine(signals, sim, weightMap, DefaultCombinerConfig())
	require.NoError(t, err)
	assert.Equal(t, 60, with.Score)
	assert.Contains(t, with.Signals, NameSimilarity)
}

func TestCombineVerdictThresholds(t *testing.T) {
	tests := []struct {
		score   float64
		verdict string
	}{
		{90, VerdictVeryLikelyReal},
		{85, VerdictVeryLikelyReal},
		{75, VerdictLikelyReal},
		{55, VerdictUncertain},
		{35, VerdictMisleading},
		{10, VerdictLikelyFake},
	}

	for _, tt := range tests {
		signals := map[string]Signal{NameBalance: {Score: tt.score}}
		weightMap := map[string]float64{NameBalance: 1}
		result, err := Combine(signals, nil, weightMap, DefaultCombinerConfig())
		require.NoError(t, err)
		assert.Equal(t, tt.verdict, result.Verdict, "score %v", tt.score)
	}
}

func TestCombineSatireOverridesVerdictNotScore(t *testing.T) {
	signals := map[string]Signal{
		NameBalance: {Score: 90, Message: "balanced"},
		NameDomain: {
			Score:   50,
			Message: "theonion.com is a known satire publication",
			Details: map[string]any{"satire": true, "match": "theonion.com"},
		},
	}
	weightMap := map[string]float64{NameBalance: 1, NameDomain: 1}

	result, err := Combine(signals, nil, weightMap, DefaultCombinerConfig())
	require.NoError(t, err)
	assert.Equal(t, VerdictSatire, result.Verdict)
	assert.Equal(t, 70, result.Score, "the numeric score still reflects the signal blend")
}

func TestCombineSplitsIssuesAndInsightsInStableOrder(t *testing.T) {
	signals := map[string]Signal{
		NameSensationalist: {Score: 70, HasIssue: true, Message: "sensationalist issue"},
		NameClickbait:      {Score: 85, Message: "clickbait insight"},
		NameCitations:      {Score: 35, HasIssue: true, Message: "citation issue"},
		NameBalance:        {Score: 80, Message: "balance insight"},
	}
	weightMap := map[string]float64{
		NameSensationalist: 1, NameClickbait: 1, NameCitations: 1, NameBalance: 1,
	}

	for i := 0; i < 10; i++ {
		result, err := Combine(signals, nil, weightMap, DefaultCombinerConfig())
		require.NoError(t, err)
		assert.Equal(t, []string{"sensationalist issue", "citation issue"}, result.Issues)
		assert.Equal(t, []string{"clickbait insight", "balance insight"}, result.Insights)
	}
}

func TestCombineSuppressesUninformativeNeutralInsights(t *testing.T) {
	signals := map[string]Signal{
		NameBalance: {Score: 80, Message: "balance insight"},
		NameDomain: {
			Score:   50,
			Message: "Unknown source domain",
			Details: map[string]any{"neutral": true, "match": "none"},
		},
	}
	weightMap := map[string]float64{NameBalance: 1, NameDomain: 1}

	result, err := Combine(signals, nil, weightMap, DefaultCombinerConfig())
	require.NoError(t, err)
	assert.NotContains(t, result.Insights, "Unknown source domain")
	assert.Contains(t, result.Insights, "balance insight")
}

func TestCombineKeepsNeutralSimilarityInsight(t *testing.T) {
	signals := map[string]Signal{NameBalance: {Score: 80, Message: "balance insight"}}
	sim := &Signal{Score: 70, Message: "No strong match against previously analyzed content"}
	weightMap := map[string]float64{NameBalance: 1, NameSimilarity: 1}

	result, err := Combine(signals, sim, weightMap, DefaultCombinerConfig())
	require.NoError(t, err)
	assert.Contains(t, result.Insights, "No strong match against previously analyzed content")
}

func TestCombineExternalSignalsJoinTheBlend(t *testing.T) {
	signals := map[string]Signal{
		NameBalance:        {Score: 80},
		"factcheck-search": {Score: 20, HasIssue: true, Message: "rated false"},
	}
	weightMap := map[string]float64{NameBalance: 1, "factcheck-search": 3}

	result, err := Combine(signals, nil, weightMap, DefaultCombinerConfig())
	require.NoError(t, err)
	assert.Equal(t, 35, result.Score)
	assert.Contains(t, result.Issues, "rated false")
}
