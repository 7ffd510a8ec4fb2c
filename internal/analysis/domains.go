package analysis

import (
	"fmt"
	"strings"
)

// Domain reputation lists. Matching is by substring containment so
// "www.theonion.com" still matches "theonion.com". The three lists are
// disjoint; overrides come from configuration at startup.
var (
	reliableDomains = []string{
		"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk", "npr.org",
		"nytimes.com", "washingtonpost.com", "theguardian.com", "wsj.com",
		"economist.com", "ft.com", "bloomberg.com", "afp.com", "pbs.org",
		"nature.com", "science.org",
	}
	unreliableDomains = []string{
		"breitbart.com", "infowars.com", "naturalnews.com",
		"beforeitsnews.com", "worldtruth.tv", "yournewswire.com",
		"newspunch.com", "dailybuzzlive.com", "realrawnews.com",
		"gatewaypundit.com",
	}
	satireDomains = []string{
		"theonion.com", "babylonbee.com", "clickhole.com",
		"thebeaverton.com", "waterfordwhispersnews.com", "newsthump.com",
		"duffelblog.com",
	}
)

// SetDomainLists replaces the built-in reputation lists. Called once during
// configuration, before any analysis runs.
func SetDomainLists(reliable, unreliable, satire []string) {
	if len(reliable) > 0 {
		reliableDomains = reliable
	}
	if len(unreliable) > 0 {
		unreliableDomains = unreliable
	}
	if len(satire) > 0 {
		satireDomains = satire
	}
}

func matchDomain(domain string, list []string) (string, bool) {
	for _, entry := range list {
		if strings.Contains(domain, entry) {
			return entry, true
		}
	}
	return "", false
}

// DomainReputation classifies the source domain against the static lists. A
// satire match is a distinguished state that forces the final verdict
// downstream; the unknown state is neutral and carries no insight.
func DomainReputation(c Content) Signal {
	domain := strings.ToLower(strings.TrimSpace(c.SourceDomain))
	if domain == "" {
		return Signal{
			Score:   50,
			Message: "No source domain provided",
			Details: map[string]any{"neutral": true, "match": "none"},
		}
	}
	if entry, ok := matchDomain(domain, satireDomains); ok {
		return Signal{
			Score:   50,
			Message: fmt.Sprintf("%s is a known satire publication", entry),
			Details: map[string]any{"satire": true, "match": entry},
		}
	}
	if entry, ok := matchDomain(domain, reliableDomains); ok {
		return Signal{
			Score:   90,
			Message: fmt.Sprintf("%s has a strong reliability track record", entry),
			Details: map[string]any{"match": entry},
		}
	}
	if entry, ok := matchDomain(domain, unreliableDomains); ok {
		return Signal{
			Score:    20,
			HasIssue: true,
			Message:  fmt.Sprintf("%s has a poor reliability track record", entry),
			Details:  map[string]any{"match": entry},
		}
	}
	return Signal{
		Score:   50,
		Message: "Unknown source domain",
		Details: map[string]any{"neutral": true, "match": "none"},
	}
}

// IsSatire reports whether a signal carries the satire marker.
func IsSatire(s Signal) bool {
	v, ok := s.Details["satire"].(bool)
	return ok && v
}
