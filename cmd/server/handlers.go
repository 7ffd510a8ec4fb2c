package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/credlens/credlens/internal/analysis"
	"github.com/credlens/credlens/internal/cache"
	"github.com/credlens/credlens/internal/content"
	"github.com/credlens/credlens/internal/engine"
	apperrors "github.com/credlens/credlens/internal/errors"
	"github.com/credlens/credlens/internal/monitoring"
	"github.com/credlens/credlens/internal/providers"
	"github.com/credlens/credlens/internal/storage"
	"github.com/credlens/credlens/internal/weights"
)

// Server bundles the engine with its collaborators for the HTTP handlers.
type Server struct {
	engine    *engine.Engine
	fetcher   *content.Fetcher
	factCheck *providers.FactCheckClient
	cache     *cache.Cache
	store     *storage.Store
	metrics   *monitoring.Metrics
	logger    *slog.Logger
}

type analyzeRequest struct {
	Text         string `json:"text"`
	URL          string `json:"url"`
	SourceDomain string `json:"source_domain"`
}

type feedbackRequest struct {
	OriginalScore float64  `json:"original_score"`
	UserScore     float64  `json:"user_score"`
	Reasons       []string `json:"reasons"`
}

// handleAnalyze resolves content (inline text or fetched URL), gathers any
// external provider signals, and runs the engine.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInputError("invalid request body"))
		return
	}

	input, err := s.resolveContent(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	key := cache.Key(input)
	if result, ok := s.cache.Get(key); ok {
		c.JSON(http.StatusOK, gin.H{"result": result, "cached": true})
		return
	}

	extra := s.gatherProviderSignals(c.Request.Context(), input)

	result, err := s.engine.Analyze(input, extra)
	if err != nil {
		c.Error(err)
		return
	}
	s.metrics.Analyses.Add(1)
	s.cache.Set(key, result)
	c.JSON(http.StatusOK, gin.H{"result": result, "cached": false})
}

// resolveContent turns the request into normalized content. URL submissions
// go through the extraction collaborator; the engine itself never fetches.
func (s *Server) resolveContent(ctx context.Context, req analyzeRequest) (analysis.Content, error) {
	if req.URL != "" {
		fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		input, err := s.fetcher.Extract(fetchCtx, req.URL)
		if err != nil {
			return analysis.Content{}, apperrors.NewInputError("could not extract readable content from url: " + err.Error())
		}
		return input, nil
	}
	if req.Text == "" {
		return analysis.Content{}, apperrors.NewInputError("either text or url is required")
	}
	domain := req.SourceDomain
	if domain != "" {
		if resolved, err := content.Domain("https://" + domain); err == nil {
			domain = resolved
		}
	}
	return analysis.Content{
		Text:         content.Normalize(req.Text),
		SourceDomain: domain,
	}, nil
}

// gatherProviderSignals collects optional external signals. Provider
// failures degrade to no signal, never to a failed analysis.
func (s *Server) gatherProviderSignals(ctx context.Context, input analysis.Content) map[string]analysis.Signal {
	if !s.factCheck.Enabled() {
		return nil
	}
	checkCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	sig, err := s.factCheck.CheckClaim(checkCtx, input.Text)
	if err != nil {
		s.logger.Warn("fact-check provider failed, continuing without it", "error", err)
		return nil
	}
	if sig == nil {
		return nil
	}
	return map[string]analysis.Signal{providers.FactCheckSignalName: *sig}
}

// handleFeedback feeds a human judgment into the weight learner.
func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInputError("invalid request body"))
		return
	}
	err := s.engine.RecordFeedback(weights.FeedbackEvent{
		OriginalScore: req.OriginalScore,
		UserScore:     req.UserScore,
		Reasons:       req.Reasons,
	})
	if err != nil {
		c.Error(err)
		return
	}
	s.metrics.FeedbackEvents.Add(1)
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// handleWeights exposes the current weight profile.
func (s *Server) handleWeights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"weights": s.engine.Weights()})
}

// handleResetWeights restores the default profile.
func (s *Server) handleResetWeights(c *gin.Context) {
	s.engine.ResetWeights()
	c.JSON(http.StatusOK, gin.H{"status": "reset", "weights": s.engine.Weights()})
}

// handleHistory lists recent analyses from the persistence collaborator.
func (s *Server) handleHistory(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"analyses": []storage.AnalysisRow{}})
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	rows, err := s.store.RecentAnalyses(limit)
	if err != nil {
		c.Error(apperrors.NewPersistenceError("failed to read analysis history", err))
		return
	}
	if rows == nil {
		rows = []storage.AnalysisRow{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": rows})
}

// handleHealth reports liveness and counters.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"metrics":   s.metrics.Stats(),
	})
}
