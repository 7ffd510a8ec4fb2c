// Package providers holds optional external signal providers. Their results
// are Signal-shaped and injected into the combinator alongside the built-in
// analyzers; the engine does not distinguish their provenance. Provider
// calls happen before content reaches the core, never inside it.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/credlens/credlens/internal/analysis"
)

// FactCheckSignalName is the join key for the fact-check provider signal. A
// matching weight entry ships in the default profile.
const FactCheckSignalName = "factcheck-search"

const factCheckEndpoint = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

// FactCheckClient queries the Google Fact Check Tools claim search API.
type FactCheckClient struct {
	apiKey string
	client *http.Client
	logger *slog.Logger
}

// NewFactCheckClient builds a client. An empty API key disables the provider.
func NewFactCheckClient(apiKey string, logger *slog.Logger) *FactCheckClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactCheckClient{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Enabled reports whether the provider is configured.
func (c *FactCheckClient) Enabled() bool {
	return c.apiKey != ""
}

type claimSearchResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
			} `json:"publisher"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// CheckClaim searches fact-check databases for the content's lead claim and
// maps the best review onto a signal. Returns nil when nothing matched;
// callers then simply omit the signal.
func (c *FactCheckClient) CheckClaim(ctx context.Context, text string) (*analysis.Signal, error) {
	if !c.Enabled() {
		return nil, nil
	}
	claim := leadClaim(text)
	if claim == "" {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s?query=%s&key=%s", factCheckEndpoint, url.QueryEscape(claim), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fact-check request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fact-check request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fact-check API returned status %d", resp.StatusCode)
	}

	var parsed claimSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode fact-check response: %w", err)
	}
	if len(parsed.Claims) == 0 || len(parsed.Claims[0].ClaimReview) == 0 {
		return nil, nil
	}

	review := parsed.Claims[0].ClaimReview[0]
	score, hasIssue := ratingToScore(review.TextualRating)
	return &analysis.Signal{
		Score:    score,
		HasIssue: hasIssue,
		Message:  fmt.Sprintf("Fact checkers rated a matching claim %q (%s)", review.TextualRating, review.Publisher.Name),
		Details: map[string]any{
			"claim":     parsed.Claims[0].Text,
			"rating":    review.TextualRating,
			"publisher": review.Publisher.Name,
		},
	}, nil
}

// leadClaim takes the first sentence, capped, as the search query.
func leadClaim(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexAny(text, ".!?\n"); idx > 0 {
		text = text[:idx]
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return strings.TrimSpace(text)
}

// ratingToScore maps textual fact-check ratings onto the 0-100 scale.
func ratingToScore(rating string) (float64, bool) {
	lowered := strings.ToLower(rating)
	switch {
	case strings.Contains(lowered, "pants") || strings.Contains(lowered, "false") ||
		strings.Contains(lowered, "fabricat") || strings.Contains(lowered, "hoax"):
		return 15, true
	case strings.Contains(lowered, "misleading") || strings.Contains(lowered, "mixture") ||
		strings.Contains(lowered, "half") || strings.Contains(lowered, "partly"):
		return 40, true
	case strings.Contains(lowered, "true") || strings.Contains(lowered, "correct") ||
		strings.Contains(lowered, "accurate"):
		return 90, false
	default:
		return 60, false
	}
}
