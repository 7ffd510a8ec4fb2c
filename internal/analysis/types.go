package analysis

// Content is normalized text ready for analysis. SourceDomain is empty when
// the submission carried no resolvable source.
type Content struct {
	Text         string `json:"text"`
	SourceDomain string `json:"source_domain,omitempty"`
}

// Signal is one analyzer's independent judgment. Score is 0-100 where higher
// means more credible. HasIssue is set when the analyzer considers the
// content flawed; it is not derived from the score (for some analyzers the
// absence of a pattern is the issue).
type Signal struct {
	Score    float64        `json:"score"`
	HasIssue bool           `json:"has_issue"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// Result is the immutable outcome of one analysis.
type Result struct {
	Score    int               `json:"score"`
	Verdict  string            `json:"verdict"`
	Issues   []string          `json:"issues"`
	Insights []string          `json:"insights"`
	Signals  map[string]Signal `json:"signals"`
}

// Analyzer names. These are the join keys between signals and the weight
// profile, so every name here must have a weight entry and vice versa.
const (
	NameSensationalist  = "sensationalist-language"
	NameClickbait       = "clickbait-headline-pattern"
	NameFactualLanguage = "factual-language-markers"
	NameFormatting      = "text-formatting-abuse"
	NameBalance         = "perspective-balance"
	NameContentLength   = "content-length"
	NameSentiment       = "sentiment-intensity"
	NameReadability     = "readability-level"
	NameTopicRelevance  = "topic-relevance"
	NamePoliticalBias   = "political-bias-lexicon"
	NameClaimDensity    = "factual-claim-density"
	NameCitations       = "source-citation-density"
	NameDomain          = "domain-reputation"
	NameSimilarity      = "history-similarity"
)

// AnalyzerFunc is the contract every analyzer satisfies: deterministic,
// side-effect free, bounded time on pre-truncated input.
type AnalyzerFunc func(Content) Signal

// RegisteredAnalyzer pairs an analyzer with its join-key name.
type RegisteredAnalyzer struct {
	Name string
	Run  AnalyzerFunc
}

// Registry returns the built-in analyzers in their fixed enumeration order.
// The order is what keeps issue and insight lists stable across runs.
func Registry() []RegisteredAnalyzer {
	return []RegisteredAnalyzer{
		{NameSensationalist, SensationalistLanguage},
		{NameClickbait, ClickbaitHeadline},
		{NameFactualLanguage, FactualLanguageMarkers},
		{NameFormatting, FormattingAbuse},
		{NameBalance, PerspectiveBalance},
		{NameContentLength, ContentLength},
		{NameSentiment, SentimentIntensity},
		{NameReadability, ReadabilityLevel},
		{NameTopicRelevance, TopicRelevance},
		{NamePoliticalBias, PoliticalBiasLexicon},
		{NameClaimDensity, FactualClaimDensity},
		{NameCitations, SourceCitationDensity},
		{NameDomain, DomainReputation},
	}
}

// AnalyzerNames returns the registry names in enumeration order.
func AnalyzerNames() []string {
	reg := Registry()
	names := make([]string, 0, len(reg))
	for _, a := range reg {
		names = append(names, a.Name)
	}
	return names
}

// neutralSignal is the degradation result for analyzers that cannot form a
// judgment. It never aborts the aggregation.
func neutralSignal(message string) Signal {
	return Signal{
		Score:    50,
		HasIssue: false,
		Message:  message,
		Details:  map[string]any{"neutral": true},
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
