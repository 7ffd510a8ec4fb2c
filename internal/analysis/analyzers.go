package analysis

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexicons are precompiled literal sets scanned with linear substring
// matching. Inputs are truncated upstream, so every analyzer is bounded.
var sensationalistPhrases = []string{
	"you won't believe", "you wont believe", "shocking", "mind-blowing",
	"mind blowing", "unbelievable", "jaw-dropping", "jaw dropping",
	"bombshell", "explosive revelation", "they don't want you to know",
	"the truth about", "wake up", "exposed", "outrageous", "insane",
	"must see", "must read", "gone viral", "breaking:", "urgent:",
	"miracle cure", "secret they", "this changes everything",
}

var clickbaitPatterns = []string{
	"this is why", "what happened next", "will shock you",
	"will blow your mind", "you need to know", "the real reason",
	"doctors hate", "one weird trick", "number one trick",
	"can't stop watching", "restored my faith", "here's what happened",
	"and you should too", "before it's deleted",
}

var clickbaitListWords = []string{
	" things ", " reasons ", " ways ", " facts ", " signs ", " secrets ",
	" tricks ", " photos ",
}

var factualMarkers = []string{
	"according to", "research", "study", "studies", "data", "report",
	"survey", "evidence", "experts", "analysis", "statistics", "percent",
	"published", "peer-reviewed", "official", "documented",
}

var balanceMarkers = []string{
	"however", "on the other hand", "although", "critics", "supporters",
	"in contrast", "some argue", "others say", "nevertheless", "despite",
	"both sides", "alternatively", "proponents", "opponents",
}

var intensityWords = []string{
	"horrific", "terrifying", "disaster", "catastrophe", "devastating",
	"amazing", "incredible", "destroy", "evil", "corrupt",
	"disgusting", "outrage", "fury", "furious", "slams", "blasts",
	"nightmare", "miracle", "horrifying", "appalling", "stunning",
}

var politicalLoadedTerms = []string{
	"radical left", "far left", "far right", "alt-right", "libtard",
	"snowflake", "woke mob", "deep state", "mainstream media", "fake news",
	"globalist", "sheeple", "regime media", "leftist agenda",
	"right-wing extremist", "communist takeover", "fascist regime",
}

var citationMarkers = []string{
	"according to", "http://", "https://", "said", "told reporters",
	"in a statement", "reported by", "study published", "cited",
	"press release", "spokesperson",
}

var claimVerbs = []string{
	"said", "reported", "announced", "confirmed", "found", "showed",
	"revealed", "estimated", "measured", "recorded",
}

// countPhrases returns total occurrences of the phrases in lowered text plus
// the distinct phrases that matched.
func countPhrases(lowered string, phrases []string) (int, []string) {
	total := 0
	var matched []string
	for _, p := range phrases {
		if n := strings.Count(lowered, p); n > 0 {
			total += n
			matched = append(matched, p)
		}
	}
	return total, matched
}

func countDistinct(lowered string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(lowered, m) {
			n++
		}
	}
	return n
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// syllableEstimate counts vowel groups as a cheap syllable proxy.
func syllableEstimate(word string) int {
	groups := 0
	inGroup := false
	for _, r := range word {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			if !inGroup {
				groups++
				inGroup = true
			}
		default:
			inGroup = false
		}
	}
	if groups == 0 {
		return 1
	}
	return groups
}

// SensationalistLanguage penalizes hype phrasing.
func SensationalistLanguage(c Content) Signal {
	if c.Text == "" {
		return neutralSignal("No text to analyze for sensationalism")
	}
	lowered := strings.ToLower(c.Text)
	hits, matched := countPhrases(lowered, sensationalistPhrases)
	if hits == 0 {
		return Signal{
			Score:   90,
			Message: "No sensationalist language detected",
			Details: map[string]any{"hits": 0},
		}
	}
	return Signal{
		Score:    clamp(100-10*float64(hits), 10, 100),
		HasIssue: true,
		Message:  fmt.Sprintf("Sensationalist language detected (%d occurrences)", hits),
		Details:  map[string]any{"hits": hits, "phrases": matched},
	}
}

// ClickbaitHeadline inspects the opening line for curiosity-gap patterns.
func ClickbaitHeadline(c Content) Signal {
	if c.Text == "" {
		return neutralSignal("No text to analyze for clickbait patterns")
	}
	headline := c.Text
	if idx := strings.IndexByte(headline, '\n'); idx >= 0 {
		headline = headline[:idx]
	}
	if len(headline) > 200 {
		cut := 200
		for cut > 0 && !utf8.RuneStart(headline[cut]) {
			cut--
		}
		headline = headline[:cut]
	}
	lowered := strings.ToLower(headline)

	hits, matched := countPhrases(lowered, clickbaitPatterns)
	// "N things/reasons/ways ..." listicle shape
	if len(lowered) > 0 && lowered[0] >= '0' && lowered[0] <= '9' {
		for _, w := range clickbaitListWords {
			if strings.Contains(lowered, w) {
				hits++
				matched = append(matched, "numbered list headline")
				break
			}
		}
	}
	if strings.HasSuffix(strings.TrimSpace(lowered), "?") && strings.Contains(lowered, "you") {
		hits++
		matched = append(matched, "second-person question headline")
	}
	if hits == 0 {
		return Signal{
			Score:   88,
			Message: "Headline does not follow clickbait patterns",
			Details: map[string]any{"hits": 0},
		}
	}
	return Signal{
		Score:    clamp(100-20*float64(hits), 20, 100),
		HasIssue: true,
		Message:  fmt.Sprintf("Headline matches clickbait patterns (%d)", hits),
		Details:  map[string]any{"hits": hits, "patterns": matched},
	}
}

// FactualLanguageMarkers rewards evidential phrasing; its absence is the issue.
func FactualLanguageMarkers(c Content) Signal {
	if c.Text == "" {
		return neutralSignal("No text to analyze for factual markers")
	}
	lowered := strings.ToLower(c.Text)
	distinct := countDistinct(lowered, factualMarkers)
	if strings.Contains(c.Text, "%") {
		distinct++
	}
	if distinct == 0 {
		return Signal{
			Score:    35,
			HasIssue: true,
			Message:  "No factual language markers found (studies, data, sources)",
			Details:  map[string]any{"markers": 0},
		}
	}
	return Signal{
		Score:   clamp(55+8*float64(distinct), 0, 95),
		Message: fmt.Sprintf("Contains factual language markers (%d kinds)", distinct),
		Details: map[string]any{"markers": distinct},
	}
}

// FormattingAbuse penalizes shouting caps and punctuation runs.
func FormattingAbuse(c Content) Signal {
	if c.Text == "" {
		return neutralSignal("No text to analyze for formatting abuse")
	}
	letters, uppers := 0, 0
	for _, r := range c.Text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	capsRatio := 0.0
	if letters > 0 {
		capsRatio = float64(uppers) / float64(letters)
	}
	runs := strings.Count(c.Text, "!!") + strings.Count(c.Text, "??") +
		strings.Count(c.Text, "?!")

	penalty := 8 * float64(runs)
	if capsRatio > 0.3 {
		penalty += (capsRatio - 0.3) * 200
	}
	if penalty == 0 {
		return Signal{
			Score:   92,
			Message: "Formatting looks normal",
			Details: map[string]any{"caps_ratio": capsRatio},
		}
	}
	return Signal{
		Score:    clamp(100-penalty, 5, 100),
		HasIssue: capsRatio > 0.3 || runs > 0,
		Message:  "Excessive capitalization or punctuation",
		Details:  map[string]any{"caps_ratio": capsRatio, "punctuation_runs": runs},
	}
}

// PerspectiveBalance checks for markers of more than one viewpoint.
func PerspectiveBalance(c Content) Signal {
	if c.Text == "" {
		return neutralSignal("No text to analyze for perspective balance")
	}
	lowered := strings.ToLower(c.Text)
	distinct := countDistinct(lowered, balanceMarkers)
	if distinct == 0 {
		return Signal{
			Score:    40,
			HasIssue: true,
			Message:  "Content presents a single perspective without counterpoints",
			Details:  map[string]any{"markers": 0},
		}
	}
	return Signal{
		Score:   clamp(60+10*float64(distinct), 0, 90),
		Message: fmt.Sprintf("Multiple perspectives acknowledged (%d markers)", distinct),
		Details: map[string]any{"markers": distinct},
	}
}

// ContentLength scores depth by word count. Very short content cannot
// substantiate its claims.
func ContentLength(c Content) Signal {
	words := len(strings.Fields(c.Text))
	switch {
	case words == 0:
		return neutralSignal("No text to measure")
	case words < 30:
		return Signal{
			Score:    25,
			HasIssue: true,
			Message:  fmt.Sprintf("Content is very short (%d words), too brief to substantiate claims", words),
			Details:  map[string]any{"words": words},
		}
	case words < 100:
		return Signal{
			Score:   60,
			Message: fmt.Sprintf("Content is brief (%d words)", words),
			Details: map[string]any{"words": words},
		}
	case words < 600:
		return Signal{
			Score:   85,
			Message: fmt.Sprintf("Content has adequate depth (%d words)", words),
			Details: map[string]any{"words": words},
		}
	default:
		return Signal{
			Score:   90,
			Message: fmt.Sprintf("Content is in-depth (%d words)", words),
			Details: map[string]any{"words": words},
		}
	}
}

// SentimentIntensity penalizes emotionally charged wording in either polarity.
func SentimentIntensity(c Content) Signal {
	if c.Text == "" {
		return neutralSignal("No text to analyze for sentiment intensity")
	}
	lowered := strings.ToLower(c.Text)
	hits, matched := countPhrases(lowered, intensityWords)
	if hits == 0 {
		return Signal{
			Score:   88,
			Message: "Tone is measured",
			Details: map[string]any{"hits": 0},
		}
	}
	return Signal{
		Score:    clamp(95-12*float64(hits), 15, 95),
		HasIssue: hits >= 2,
		Message:  fmt.Sprintf("Emotionally charged language (%d intensity words)", hits),
		Details:  map[string]any{"hits": hits, "words": matched},
	}
}

// ReadabilityLevel estimates a Flesch-Kincaid style grade and flags the
// extremes: convoluted prose and implausibly simplistic prose.
func ReadabilityLevel(c Content) Signal {
	words := strings.Fields(strings.ToLower(c.Text))
	sentences := splitSentences(c.Text)
	if len(words) < 10 || len(sentences) == 0 {
		return neutralSignal("Content too short to assess readability")
	}
	syllables := 0
	for _, w := range words {
		syllables += syllableEstimate(w)
	}
	avgSentence := float64(len(words)) / float64(len(sentences))
	avgSyllables := float64(syllables) / float64(len(words))
	grade := 0.39*avgSentence + 11.8*avgSyllables - 15.59

	details := map[string]any{
		"grade":               grade,
		"avg_sentence_length": avgSentence,
	}
	switch {
	case grade > 18:
		return Signal{
			Score:    55,
			HasIssue: true,
			Message:  "Prose is convoluted, which obscures verifiable claims",
			Details:  details,
		}
	case grade < 3:
		return Signal{
			Score:    60,
			HasIssue: true,
			Message:  "Prose is unusually simplistic for news content",
			Details:  details,
		}
	default:
		return Signal{
			Score:   85,
			Message: fmt.Sprintf("Readability is in the normal range (grade %.1f)", grade),
			Details: details,
		}
	}
}

// TopicRelevance measures lexical cohesion: content words that never recur
// suggest drifting, unfocused text.
func TopicRelevance(c Content) Signal {
	words := strings.Fields(strings.ToLower(c.Text))
	if len(words) < 40 {
		return neutralSignal("Content too short to assess topic focus")
	}
	seen := make(map[string]int)
	contentWords := 0
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()[]")
		if len(w) < 5 {
			continue
		}
		contentWords++
		seen[w]++
	}
	if contentWords == 0 {
		return neutralSignal("No content words to assess topic focus")
	}
	repeated := 0
	for _, n := range seen {
		if n > 1 {
			repeated += n
		}
	}
	cohesion := float64(repeated) / float64(contentWords)
	if cohesion < 0.1 {
		return Signal{
			Score:    55,
			HasIssue: true,
			Message:  "Content lacks a consistent topic focus",
			Details:  map[string]any{"cohesion": cohesion},
		}
	}
	return Signal{
		Score:   clamp(60+cohesion*60, 0, 90),
		Message: "Content stays on topic",
		Details: map[string]any{"cohesion": cohesion},
	}
}

// PoliticalBiasLexicon penalizes loaded partisan terms.
func PoliticalBiasLexicon(c Content) Signal {
	if c.Text == "" {
		return neutralSignal("No text to analyze for political bias")
	}
	lowered := strings.ToLower(c.Text)
	hits, matched := countPhrases(lowered, politicalLoadedTerms)
	if hits == 0 {
		return Signal{
			Score:   88,
			Message: "No loaded political terminology",
			Details: map[string]any{"hits": 0},
		}
	}
	return Signal{
		Score:    clamp(90-18*float64(hits), 10, 90),
		HasIssue: true,
		Message:  fmt.Sprintf("Loaded political terminology (%d occurrences)", hits),
		Details:  map[string]any{"hits": hits, "terms": matched},
	}
}

// FactualClaimDensity counts sentences carrying verifiable claims (numbers or
// reporting verbs). Zero claims is the issue, not a low score alone.
func FactualClaimDensity(c Content) Signal {
	sentences := splitSentences(c.Text)
	if len(sentences) == 0 {
		return neutralSignal("No sentences to assess claim density")
	}
	claims := 0
	for _, s := range sentences {
		lowered := strings.ToLower(s)
		if strings.ContainsAny(s, "0123456789") {
			claims++
			continue
		}
		for _, v := range claimVerbs {
			if strings.Contains(lowered, v) {
				claims++
				break
			}
		}
	}
	density := float64(claims) / float64(len(sentences))
	details := map[string]any{"claims": claims, "sentences": len(sentences), "density": density}
	switch {
	case claims == 0:
		return Signal{
			Score:    40,
			HasIssue: true,
			Message:  "No verifiable factual claims found",
			Details:  details,
		}
	case density >= 0.2:
		return Signal{
			Score:   85,
			Message: fmt.Sprintf("Good density of verifiable claims (%d of %d sentences)", claims, len(sentences)),
			Details: details,
		}
	default:
		return Signal{
			Score:   65,
			Message: "Few verifiable claims relative to content length",
			Details: details,
		}
	}
}

// SourceCitationDensity checks for attributed sources. Missing citations is
// the issue state.
func SourceCitationDensity(c Content) Signal {
	if c.Text == "" {
		return neutralSignal("No text to analyze for citations")
	}
	lowered := strings.ToLower(c.Text)
	hits, matched := countPhrases(lowered, citationMarkers)
	if hits == 0 {
		return Signal{
			Score:    35,
			HasIssue: true,
			Message:  "No citations or attributed sources",
			Details:  map[string]any{"citations": 0},
		}
	}
	return Signal{
		Score:   clamp(60+10*float64(hits), 0, 95),
		Message: fmt.Sprintf("Sources are cited (%d attribution markers)", hits),
		Details: map[string]any{"citations": hits, "markers": matched},
	}
}
