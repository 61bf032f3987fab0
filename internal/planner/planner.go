// Package planner turns one user turn into a structural execution plan.
//
// Planning prefers the local model; when the model is unreachable or its
// output cannot be parsed, the ordered pattern table produces a one-action
// fallback plan. Short agreement and negative replies bypass the model
// entirely.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
	"github.com/akhellaf/deskpilot/internal/pkg/retry"
)

const (
	patternNamespace = "patterns"
	planNamespace    = "plans"
)

// Service implements ports.Planner.
type Service struct {
	llm        ports.LLMClient
	matcher    ports.IntentMatcher
	logger     ports.Logger
	window     int
	retries    int
	cache      ports.ResponseCache
	patternTTL time.Duration
}

// New builds a planner. window bounds how many conversation turns feed the
// prompt; retries is the model retry budget.
func New(llm ports.LLMClient, matcher ports.IntentMatcher, logger ports.Logger, window, retries int) *Service {
	if window <= 0 {
		window = domain.DefaultContextWindow
	}
	if retries <= 0 {
		retries = domain.DefaultMaxRetries
	}
	return &Service{llm: llm, matcher: matcher, logger: logger, window: window, retries: retries}
}

// AttachCache enables caching of pattern-matched intents, so repeated inputs
// skip the regex table while the entry lives.
func (s *Service) AttachCache(cache ports.ResponseCache, ttl time.Duration) {
	s.cache = cache
	if ttl <= 0 {
		ttl = domain.DefaultPatternTTL
	}
	s.patternTTL = ttl
}

// Plan implements ports.Planner.
func (s *Service) Plan(ctx context.Context, input string, snapshot domain.SystemSnapshot, history []domain.ConversationTurn) (domain.Plan, error) {
	if IsNegative(input) {
		return DeclinePlan(), nil
	}
	if IsAgreement(input) {
		return AgreementPlan(history), nil
	}

	if len(history) > s.window {
		history = history[len(history)-s.window:]
	}

	if cached, ok := s.cachedPlan(input); ok {
		return cached, nil
	}

	if s.llm == nil || !s.llm.Available(ctx) {
		s.logger.Warn("model unavailable, using pattern planning", map[string]interface{}{"input": input})
		return s.patternPlan(input)
	}

	prompt := buildPrompt(input, snapshot, history)
	var raw string
	err := retry.Do(ctx, retry.Options{MaxRetries: s.retries, InitialDelay: 0, Factor: 2.0}, func() error {
		var genErr error
		raw, genErr = s.llm.Generate(ctx, ports.GenerateRequest{Prompt: prompt, System: systemPrompt})
		return genErr
	})
	if err != nil {
		s.logger.Warn("model generation failed, using pattern planning", map[string]interface{}{"error": err.Error()})
		return s.patternPlan(input)
	}

	plan, err := ParsePlan(raw)
	if err != nil {
		s.logger.Warn("unparseable plan, using pattern planning", map[string]interface{}{"error": err.Error()})
		return s.patternPlan(input)
	}
	s.storePlan(input, plan)
	return plan, nil
}

// cachedPlan returns a previously stored model plan for the exact input.
// Cached plans are re-validated before reuse.
func (s *Service) cachedPlan(input string) (domain.Plan, bool) {
	if s.cache == nil {
		return domain.Plan{}, false
	}
	var plan domain.Plan
	ok, err := s.cache.Get(planNamespace, input, &plan)
	if err != nil || !ok {
		return domain.Plan{}, false
	}
	if err := plan.Validate(); err != nil {
		_ = s.cache.Invalidate(planNamespace, input)
		return domain.Plan{}, false
	}
	return plan, true
}

func (s *Service) storePlan(input string, plan domain.Plan) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(planNamespace, input, plan, domain.DefaultPlanTTL); err != nil {
		s.logger.Debug("plan cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// patternPlan degrades to the regex table when the model cannot help.
// Pattern-resolved intents are cached so repeat inputs skip matching.
func (s *Service) patternPlan(input string) (domain.Plan, error) {
	if s.cache != nil {
		var cached domain.Intent
		if ok, err := s.cache.Get(patternNamespace, input, &cached); err == nil && ok {
			return domain.FallbackPlan(cached), nil
		}
	}
	intent, err := s.matcher.Match(input)
	if err != nil && !errors.Is(err, domain.ErrNoPatternMatch) {
		return domain.Plan{}, err
	}
	if s.cache != nil && intent.Source == domain.SourcePattern {
		if err := s.cache.Set(patternNamespace, input, intent, s.patternTTL); err != nil {
			s.logger.Debug("pattern cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return domain.FallbackPlan(intent), nil
}

// ParsePlan extracts the first JSON object from model output and decodes it.
// Anything that fails to decode or validate reports ErrPlanParse.
func ParsePlan(raw string) (domain.Plan, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return domain.Plan{}, fmt.Errorf("%w: no JSON object found", domain.ErrPlanParse)
	}
	var plan domain.Plan
	if err := json.Unmarshal([]byte(raw[start:end+1]), &plan); err != nil {
		return domain.Plan{}, fmt.Errorf("%w: %v", domain.ErrPlanParse, err)
	}
	if err := plan.Validate(); err != nil {
		return domain.Plan{}, err
	}
	return plan, nil
}

var _ ports.Planner = (*Service)(nil)
