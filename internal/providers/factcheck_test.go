package providers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadClaim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"first sentence", "Vaccines cause autism. That claim has been debunked.", "Vaccines cause autism"},
		{"question mark ends claim", "Did the moon landing happen? Yes it did.", "Did the moon landing happen"},
		{"newline ends claim", "HEADLINE CLAIM HERE\nbody text follows", "HEADLINE CLAIM HERE"},
		{"whole text when no terminator", "a single claim without punctuation", "a single claim without punctuation"},
		{"caps very long claims", strings.Repeat("word ", 100), strings.TrimSpace(strings.Repeat("word ", 100))[:200]},
		{"empty input", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, strings.TrimSpace(tt.want), leadClaim(tt.input))
		})
	}
}

func TestRatingToScore(t *testing.T) {
	tests := []struct {
		rating    string
		wantScore float64
		wantIssue bool
	}{
		{"False", 15, true},
		{"Pants on Fire!", 15, true},
		{"Fabricated content", 15, true},
		{"Hoax", 15, true},
		{"Misleading", 40, true},
		{"Half True", 40, true},
		{"Mixture", 40, true},
		{"Partly false", 15, true},
		{"True", 90, false},
		{"Accurate", 90, false},
		{"Correct Attribution", 90, false},
		{"Unproven", 60, false},
		{"", 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			score, hasIssue := ratingToScore(tt.rating)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantIssue, hasIssue)
		})
	}
}

func TestCheckClaimDisabledWithoutKey(t *testing.T) {
	client := NewFactCheckClient("", nil)
	assert.False(t, client.Enabled())

	sig, err := client.CheckClaim(context.Background(), "Some claim worth checking.")
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestCheckClaimSkipsEmptyClaim(t *testing.T) {
	client := NewFactCheckClient("test-key", nil)

	sig, err := client.CheckClaim(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, sig)
}
