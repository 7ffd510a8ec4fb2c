// Package content is the content-source collaborator: whitespace
// normalization, source-domain resolution, and HTML extraction from a URL.
// The core engine only ever sees the normalized plain text produced here.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/credlens/credlens/internal/analysis"
)

// Normalize collapses whitespace runs while preserving line structure, so
// headline-sensitive analyzers still see the first line as the headline.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			if !blank {
				out = append(out, "")
				blank = true
			}
			continue
		}
		out = append(out, strings.Join(fields, " "))
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// Domain resolves the host of a URL, without the www prefix.
func Domain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("url has no host: %s", rawURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}

// Fetcher extracts readable text from web pages.
type Fetcher struct {
	client *http.Client
}

// NewFetcher builds a fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Extract fetches the URL, strips boilerplate, and returns normalized content
// with the source domain resolved.
func (f *Fetcher) Extract(ctx context.Context, rawURL string) (analysis.Content, error) {
	domain, err := Domain(rawURL)
	if err != nil {
		return analysis.Content{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return analysis.Content{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "credlens/1.0 (content analysis)")

	resp, err := f.client.Do(req)
	if err != nil {
		return analysis.Content{}, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return analysis.Content{}, fmt.Errorf("unexpected status %d fetching url", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return analysis.Content{}, fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style, nav, footer, aside, noscript").Remove()

	var parts []string
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, title)
	}
	doc.Find("article p, p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	text := Normalize(strings.Join(parts, "\n\n"))
	if text == "" {
		return analysis.Content{}, fmt.Errorf("no readable text found at url")
	}
	return analysis.Content{Text: text, SourceDomain: domain}, nil
}
