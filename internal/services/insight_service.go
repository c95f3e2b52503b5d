package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"branhox/internal/ai"
	apperrors "branhox/internal/errors"
	"branhox/internal/logger"
	"branhox/internal/tenant"
)

// InsightUnavailableMessage is returned in place of a summary when no AI
// provider is configured.
const InsightUnavailableMessage = "AI insights are not available. Please configure your Gemini API key to enable this feature."

// insightPrompts holds the question asked for each report page.
var insightPrompts = map[string]string{
	"daily":    "Summarize this gaming agency's daily activity. Point out the strongest pages, platforms and referral codes and anything unusual in freeplay versus recharge",
	"monthly":  "Summarize this gaming agency's month. Comment on total recharge, the freeplay ratio, the leading payment method and which platforms consume the most points",
	"referral": "Evaluate the performance of this referral code. Compare it with the comparison code if one is present and suggest where to focus",
	"progress": "Review the agents' performance over this period. Name the top performers, flag agents with no recharge and comment on payment method usage",
}

// IsInsightReport reports whether report has an AI prompt.
func IsInsightReport(report string) bool {
	_, ok := insightPrompts[report]
	return ok
}

// Insight is an AI summary of one report view.
type Insight struct {
	Report    string `json:"report"`
	Text      string `json:"text"`
	Available bool   `json:"available"`
	Cached    bool   `json:"cached"`
}

// insightService caches one summary per tenant, report and parameter set.
type insightService struct {
	summarizer ai.Summarizer
	group      singleflight.Group

	mu    sync.Mutex
	cache map[string]string
}

// NewInsightService creates a new InsightServicer. A nil summarizer
// disables AI summaries.
func NewInsightService(summarizer ai.Summarizer) InsightServicer {
	return &insightService{summarizer: summarizer, cache: make(map[string]string)}
}

// Available reports whether an AI provider is configured.
func (s *insightService) Available() bool {
	return s.summarizer != nil
}

func insightKey(scope tenant.Scope, report, params string) string {
	return scope.BusinessID() + "|" + report + "|" + params
}

// Summarize returns the summary for a report view, asking the provider only
// when no cached summary exists. Concurrent requests for the same view share
// one provider call.
func (s *insightService) Summarize(ctx context.Context, scope tenant.Scope, report, params string, reportData any) (*Insight, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	prompt, ok := insightPrompts[report]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown report")
	}
	if s.summarizer == nil {
		return &Insight{Report: report, Text: InsightUnavailableMessage}, nil
	}

	key := insightKey(scope, report, params)
	s.mu.Lock()
	text, hit := s.cache[key]
	s.mu.Unlock()
	if hit {
		return &Insight{Report: report, Text: text, Available: true, Cached: true}, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		data, err := json.Marshal(reportData)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		text, err := s.summarizer.GenerateSummary(ctx, prompt, string(data))
		if err != nil {
			logger.ForBusiness(scope.BusinessID()).Errorw("ai summary failed", "error", err, "report", report)
			return nil, apperrors.Wrap(apperrors.ErrAIUnavailable, err)
		}
		s.mu.Lock()
		s.cache[key] = text
		s.mu.Unlock()
		return text, nil
	})
	if err != nil {
		return nil, err
	}
	return &Insight{Report: report, Text: v.(string), Available: true}, nil
}

// Invalidate drops every cached summary of the tenant.
func (s *insightService) Invalidate(scope tenant.Scope) {
	prefix := scope.BusinessID() + "|"
	dropped := 0
	s.mu.Lock()
	for key := range s.cache {
		if strings.HasPrefix(key, prefix) {
			delete(s.cache, key)
			dropped++
		}
	}
	s.mu.Unlock()
	if dropped > 0 {
		logger.ForBusiness(scope.BusinessID()).Debugw("insight cache invalidated", "dropped", dropped)
	}
}
