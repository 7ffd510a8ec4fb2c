package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	set := Fingerprint("The quick brown fox, the QUICK fox!")
	assert.Len(t, set, 4)
	for _, tok := range []string{"the", "quick", "brown", "fox"} {
		_, ok := set[tok]
		assert.True(t, ok, "missing token %s", tok)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "alpha beta gamma", "alpha beta gamma", 1.0},
		{"disjoint", "alpha beta", "gamma delta", 0.0},
		{"half overlap", "alpha beta", "beta gamma", 1.0 / 3.0},
		{"both empty", "", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := Jaccard(Fingerprint(tt.a), Fingerprint(tt.b))
			assert.InDelta(t, tt.expected, sim, 1e-9)
		})
	}
}

func TestCompareHistoryEmptyReturnsNil(t *testing.T) {
	sig := CompareHistory(Content{Text: "anything at all"}, nil)
	assert.Nil(t, sig, "empty history means no comparison is possible, not a neutral score")
}

func TestCompareHistoryNearDuplicateReusesScore(t *testing.T) {
	prior := "scientists discovered a new species of deep sea fish near the trench yesterday"
	current := "scientists discovered a new species of deep sea fish near the trench today"

	historyEntries := []HistoryEntry{
		{Fingerprint: Fingerprint("a completely unrelated story about municipal tax policy"), Score: 80, Timestamp: time.Now().Add(-2 * time.Hour)},
		{Fingerprint: Fingerprint(prior), Score: 30, Timestamp: time.Now().Add(-time.Hour)},
	}

	sig := CompareHistory(Content{Text: current}, historyEntries)
	require.NotNil(t, sig)
	assert.Equal(t, 30.0, sig.Score, "near-duplicate reuses the prior judgment")
	assert.False(t, sig.HasIssue, "similarity is informational, never a defect")
	assert.Equal(t, true, sig.Details["duplicate"])
}

func TestCompareHistoryNoStrongMatchIsNeutral(t *testing.T) {
	historyEntries := []HistoryEntry{
		{Fingerprint: Fingerprint("an old story about garden gnomes and pottery"), Score: 20, Timestamp: time.Now()},
	}

	sig := CompareHistory(Content{Text: "central bank raises interest rates amid inflation concerns"}, historyEntries)
	require.NotNil(t, sig)
	assert.Equal(t, 70.0, sig.Score)
	assert.False(t, sig.HasIssue)
	assert.Equal(t, false, sig.Details["duplicate"])
}

func TestCompareHistoryTieBreaksOnRecency(t *testing.T) {
	text := "identical submission text for tie breaking"
	older := HistoryEntry{Fingerprint: Fingerprint(text), Score: 10, Timestamp: time.Now().Add(-time.Hour)}
	newer := HistoryEntry{Fingerprint: Fingerprint(text), Score: 90, Timestamp: time.Now()}

	sig := CompareHistory(Content{Text: text}, []HistoryEntry{older, newer})
	require.NotNil(t, sig)
	assert.Equal(t, 90.0, sig.Score, "ties on similarity go to the most recent entry")
}
