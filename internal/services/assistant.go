// Package services holds the application use-cases behind the CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akhellaf/deskpilot/internal/dispatch"
	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

const responseNamespace = "task_responses"

// AssistantService orchestrates one user turn end-to-end: cache lookup,
// planning, dispatch, composition and persistence.
type AssistantService struct {
	Config    domain.Config
	Planner   ports.Planner
	Dispatch  ports.Dispatcher
	Cache     ports.ResponseCache
	Memory    ports.MemoryStore
	Collector ports.SnapshotCollector
	Logger    ports.Logger
}

// HandleTurn processes a single user input.
func (s *AssistantService) HandleTurn(ctx context.Context, input string) (domain.TurnResult, error) {
	if s.Planner == nil || s.Dispatch == nil || s.Memory == nil || s.Logger == nil {
		return domain.TurnResult{}, errors.New("services.AssistantService dependencies not satisfied")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return domain.TurnResult{
			Status:  domain.StatusInfo,
			Message: "Tell me what you'd like me to do.",
		}, nil
	}

	if cached, ok := s.lookupCache(input); ok {
		return cached, nil
	}

	var snapshot domain.SystemSnapshot
	if s.Collector != nil {
		snapshot = s.Collector.Collect(ctx)
	}
	history, err := s.Memory.RecentTurns(ctx, s.Config.ContextWindow())
	if err != nil {
		s.Logger.Warn("history load failed", map[string]interface{}{"error": err.Error()})
	}

	plan, err := s.Planner.Plan(ctx, input, snapshot, history)
	if err != nil {
		return domain.TurnResult{}, fmt.Errorf("plan turn: %w", err)
	}

	var results []domain.ActionResult
	if plan.RequiresExecution {
		results = s.Dispatch.Execute(ctx, plan, input)
	}
	turn := dispatch.Compose(plan, results)

	s.persistTurn(ctx, input, turn)
	s.storeCache(input, plan, turn)
	return turn, nil
}

func (s *AssistantService) lookupCache(input string) (domain.TurnResult, bool) {
	if s.Cache == nil || !s.Config.Cache.Enabled {
		return domain.TurnResult{}, false
	}
	var cached domain.TurnResult
	if ok, err := s.Cache.Get(responseNamespace, input, &cached); err == nil && ok {
		cached.FromCache = true
		return cached, true
	}
	threshold := s.Config.SimilarityThreshold()
	if ok, err := s.Cache.GetSimilar(responseNamespace, input, threshold, &cached); err == nil && ok {
		cached.FromCache = true
		return cached, true
	}
	return domain.TurnResult{}, false
}

func (s *AssistantService) persistTurn(ctx context.Context, input string, turn domain.TurnResult) {
	record := domain.ConversationTurn{
		Timestamp:         time.Now(),
		UserInput:         input,
		AssistantResponse: turn.Message,
		Metadata:          map[string]string{"status": string(turn.Status), "type": turn.Type},
	}
	if err := s.Memory.AppendTurn(ctx, record); err != nil {
		s.Logger.Warn("conversation persist failed", map[string]interface{}{"error": err.Error()})
	}
}

// storeCache records successful read-only turns. Turns that mutate state
// (files, tasks, app launches) must re-execute next time, so they are never
// cached.
func (s *AssistantService) storeCache(input string, plan domain.Plan, turn domain.TurnResult) {
	if s.Cache == nil || !s.Config.Cache.Enabled {
		return
	}
	if turn.Status != domain.StatusSuccess || !cacheable(plan) {
		return
	}
	if err := s.Cache.Set(responseNamespace, input, turn, s.Config.ResponseTTL()); err != nil {
		s.Logger.Warn("response cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

var readOnlyActions = map[domain.IntentLabel]struct{}{
	domain.IntentReadFile:          {},
	domain.IntentListDirectory:     {},
	domain.IntentAnalyzeSystem:     {},
	domain.IntentScanWifi:          {},
	domain.IntentScanAvailableWifi: {},
	domain.IntentWindowsCommand:    {},
	domain.IntentSystemCommands:    {},
	domain.IntentSystemCleanup:     {},
	domain.IntentGeneralQuestion:   {},
}

func cacheable(plan domain.Plan) bool {
	if !plan.RequiresExecution {
		return true
	}
	for _, action := range plan.Actions {
		if _, ok := readOnlyActions[action.Action]; !ok {
			return false
		}
	}
	return true
}
