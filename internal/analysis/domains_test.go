package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainReputation(t *testing.T) {
	tests := []struct {
		name       string
		domain     string
		wantScore  float64
		wantIssue  bool
		wantSatire bool
	}{
		{"reliable wire service", "reuters.com", 90, false, false},
		{"reliable with subdomain", "www.bbc.co.uk", 90, false, false},
		{"unreliable", "breitbart.com", 20, true, false},
		{"satire", "theonion.com", 50, false, true},
		{"satire with www", "www.babylonbee.com", 50, false, true},
		{"unknown", "random-blog.example", 50, false, false},
		{"missing", "", 50, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := DomainReputation(Content{Text: "some text", SourceDomain: tt.domain})
			assert.Equal(t, tt.wantScore, sig.Score)
			assert.Equal(t, tt.wantIssue, sig.HasIssue)
			assert.Equal(t, tt.wantSatire, IsSatire(sig))
		})
	}
}

func TestDomainReputationUnknownIsMarkedNeutral(t *testing.T) {
	sig := DomainReputation(Content{SourceDomain: "nobody-has-heard-of-this.example"})
	neutral, _ := sig.Details["neutral"].(bool)
	assert.True(t, neutral, "unknown domains carry no insight and must be marked neutral")
}

func TestSetDomainLists(t *testing.T) {
	origReliable := reliableDomains
	origUnreliable := unreliableDomains
	origSatire := satireDomains
	defer func() {
		reliableDomains = origReliable
		unreliableDomains = origUnreliable
		satireDomains = origSatire
	}()

	SetDomainLists([]string{"trusted.example"}, []string{"shady.example"}, []string{"jokes.example"})

	assert.Equal(t, 90.0, DomainReputation(Content{SourceDomain: "trusted.example"}).Score)
	assert.True(t, DomainReputation(Content{SourceDomain: "shady.example"}).HasIssue)
	assert.True(t, IsSatire(DomainReputation(Content{SourceDomain: "jokes.example"})))
}
