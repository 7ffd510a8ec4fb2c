// Package engine wires the analyzer set, similarity comparator, combinator,
// weight store, and history log into the three public operations: analyze,
// record feedback, reset weights.
package engine

import (
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/credlens/credlens/internal/analysis"
	apperrors "github.com/credlens/credlens/internal/errors"
	"github.com/credlens/credlens/internal/history"
	"github.com/credlens/credlens/internal/weights"
)

// DefaultMaxTextChars caps input length before analysis so every analyzer
// runs in bounded time.
const DefaultMaxTextChars = 20000

// AnalysisRecorder persists completed analyses. It is optional; persistence
// failures never fail an analysis.
type AnalysisRecorder interface {
	AppendAnalysis(text string, score float64, verdict string, ts time.Time) error
}

// Config carries the engine calibration.
type Config struct {
	MaxTextChars int
	Combiner     analysis.CombinerConfig
}

// DefaultConfig returns the built-in calibration.
func DefaultConfig() Config {
	return Config{
		MaxTextChars: DefaultMaxTextChars,
		Combiner:     analysis.DefaultCombinerConfig(),
	}
}

// Engine is safe for concurrent analysis requests against the shared weight
// store and history log.
type Engine struct {
	cfg      Config
	registry []analysis.RegisteredAnalyzer
	store    *weights.Store
	learner  *weights.Learner
	log      *history.Log
	recorder AnalysisRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// New builds an engine. recorder may be nil; logger defaults to slog.Default.
func New(cfg Config, store *weights.Store, learner *weights.Learner, log *history.Log, recorder AnalysisRecorder, logger *slog.Logger) *Engine {
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = DefaultMaxTextChars
	}
	if len(cfg.Combiner.VerdictBands) == 0 {
		cfg.Combiner = analysis.DefaultCombinerConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:      cfg,
		registry: analysis.Registry(),
		store:    store,
		learner:  learner,
		log:      log,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs all analyzers and the similarity comparator concurrently,
// joins their results, combines them under the current weight profile, and
// appends the outcome to history. extra carries precomputed signals from
// external providers; they need weight entries like any analyzer.
func (e *Engine) Analyze(content analysis.Content, extra map[string]analysis.Signal) (analysis.Result, error) {
	content.Text = strings.TrimSpace(content.Text)
	if content.Text == "" {
		return analysis.Result{}, apperrors.NewInputError("no text to analyze")
	}
	content.Text = truncate(content.Text, e.cfg.MaxTextChars)

	profile := e.store.Snapshot()
	entries := e.log.Snapshot()

	signals := make(map[string]analysis.Signal, len(e.registry)+len(extra))
	var similarity *analysis.Signal

	// Analyzers are pure and independent; fan out and join before combining.
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, reg := range e.registry {
		wg.Add(1)
		go func(reg analysis.RegisteredAnalyzer) {
			defer wg.Done()
			sig := reg.Run(content)
			mu.Lock()
			signals[reg.Name] = sig
			mu.Unlock()
		}(reg)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		sim := analysis.CompareHistory(content, entries)
		mu.Lock()
		similarity = sim
		mu.Unlock()
	}()
	wg.Wait()

	for name, sig := range extra {
		signals[name] = sig
	}

	result, err := analysis.Combine(signals, similarity, profile, e.cfg.Combiner)
	if err != nil {
		return analysis.Result{}, apperrors.NewConfigurationError("signal and weight configuration mismatch", err)
	}

	ts := e.now()
	e.log.Append(content.Text, float64(result.Score), ts)
	if e.recorder != nil {
		if err := e.recorder.AppendAnalysis(content.Text, float64(result.Score), result.Verdict, ts); err != nil {
			e.logger.Warn("failed to persist analysis", "error", err)
		}
	}

	e.logger.Info("analysis complete",
		"score", result.Score,
		"verdict", result.Verdict,
		"issues", len(result.Issues),
		"domain", content.SourceDomain,
	)
	return result, nil
}

// RecordFeedback feeds one human judgment into the weight learner.
func (e *Engine) RecordFeedback(ev weights.FeedbackEvent) error {
	if ev.UserScore < 0 || ev.UserScore > 100 {
		return apperrors.NewInputError("user score must be between 0 and 100")
	}
	e.learner.Learn(ev)
	return nil
}

// ResetWeights restores the built-in default profile and clears any
// persisted override.
func (e *Engine) ResetWeights() {
	e.store.Reset()
	e.logger.Info("weight profile reset to defaults")
}

// Weights returns a read-only snapshot of the current profile.
func (e *Engine) Weights() weights.Profile {
	return e.store.Snapshot()
}

// truncate cuts text to at most max bytes without splitting a rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
