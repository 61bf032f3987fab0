package domain

import "errors"

// ErrPlanParse marks LLM output that could not be turned into a valid Plan.
// Callers fall back to pattern-based planning when they see this error.
var ErrPlanParse = errors.New("plan: invalid or missing JSON in model output")

// ErrNoPatternMatch signals that no regex in the intent table fired.
var ErrNoPatternMatch = errors.New("intent: no pattern match")

// PlannedAction is one step of an execution plan.
type PlannedAction struct {
	Action IntentLabel `json:"action"`
	Target string      `json:"target"`
	Reason string      `json:"reason"`
}

// Plan is the structural execution plan for one user turn. It is produced by
// the planner (LLM JSON, pattern fallback or a bypass rule) and consumed once
// by the dispatcher.
type Plan struct {
	Understanding        string          `json:"understanding"`
	RequiresExecution    bool            `json:"requires_execution"`
	Actions              []PlannedAction `json:"suggested_actions"`
	ProactiveSuggestions []string        `json:"proactive_suggestions"`
	Response             string          `json:"response"`
}

// Validate reports whether the plan is structurally usable: an executable plan
// must carry at least one action with a known-nonempty name.
func (p Plan) Validate() error {
	if !p.RequiresExecution {
		return nil
	}
	if len(p.Actions) == 0 {
		return ErrPlanParse
	}
	for _, a := range p.Actions {
		if a.Action == "" {
			return ErrPlanParse
		}
	}
	return nil
}

// FallbackPlan builds the degenerate one-action plan used whenever LLM
// planning is unavailable or unparseable.
func FallbackPlan(intent Intent) Plan {
	return Plan{
		Understanding:     "Simple intent: " + string(intent.Label),
		RequiresExecution: intent.Executable(),
		Actions: []PlannedAction{{
			Action: intent.Label,
			Target: intent.Entity,
			Reason: "Pattern matched",
		}},
		Response: "I'll help you with that.",
	}
}
