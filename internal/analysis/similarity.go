package analysis

import (
	"fmt"
	"time"
	"unicode"
)

// DuplicateThreshold is the Jaccard similarity above which prior judgment is
// propagated forward.
const DuplicateThreshold = 0.7

// neutralSimilarityScore is emitted when history exists but nothing matches.
const neutralSimilarityScore = 70

// HistoryEntry is one prior submission: its token fingerprint, the score it
// received, and when it was analyzed. Entries are never mutated.
type HistoryEntry struct {
	Fingerprint map[string]struct{}
	Score       float64
	Timestamp   time.Time
}

// Fingerprint tokenizes on non-word boundaries, lower-cases, and drops empty
// tokens, returning the token set used for Jaccard comparison.
func Fingerprint(text string) map[string]struct{} {
	set := make(map[string]struct{})
	var token []rune
	flush := func() {
		if len(token) > 0 {
			set[string(token)] = struct{}{}
			token = token[:0]
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			token = append(token, unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return set
}

// Jaccard computes |intersection| / |union| of two token sets.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// CompareHistory scores the content against prior submissions. It returns nil
// when history is empty: "no comparison possible" is distinct from a neutral
// score. Ties on maximum similarity go to the most recent entry.
func CompareHistory(c Content, history []HistoryEntry) *Signal {
	if len(history) == 0 {
		return nil
	}
	current := Fingerprint(c.Text)

	var best *HistoryEntry
	bestSim := -1.0
	for i := range history {
		entry := &history[i]
		sim := Jaccard(current, entry.Fingerprint)
		if sim > bestSim || (sim == bestSim && best != nil && entry.Timestamp.After(best.Timestamp)) {
			bestSim = sim
			best = entry
		}
	}

	if bestSim > DuplicateThreshold {
		return &Signal{
			Score:   best.Score,
			Message: fmt.Sprintf("Closely matches a previously analyzed submission (%.0f%% similar), reusing its score", bestSim*100),
			Details: map[string]any{
				"similarity":  bestSim,
				"prior_score": best.Score,
				"duplicate":   true,
			},
		}
	}
	return &Signal{
		Score:   neutralSimilarityScore,
		Message: "No strong match against previously analyzed content",
		Details: map[string]any{"similarity": bestSim, "duplicate": false},
	}
}
