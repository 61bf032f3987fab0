// Package dispatch executes planned actions and composes the final reply.
//
// The dispatcher owns a handler registry keyed by action name. Actions run
// sequentially in plan order; a failing handler contributes an error result
// and never aborts the rest of the plan.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// Dispatcher implements ports.Dispatcher.
type Dispatcher struct {
	handlers map[domain.IntentLabel]ports.ActionHandler
	security ports.SecurityService
	prompter ports.ConfirmationPrompter
	logger   ports.Logger
}

// New builds an empty dispatcher; handlers are attached with Register.
func New(security ports.SecurityService, prompter ports.ConfirmationPrompter, logger ports.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: map[domain.IntentLabel]ports.ActionHandler{},
		security: security,
		prompter: prompter,
		logger:   logger,
	}
}

// Register attaches a handler for one action kind.
func (d *Dispatcher) Register(label domain.IntentLabel, handler ports.ActionHandler) {
	d.handlers[label] = handler
}

// Registered lists the action kinds with a handler attached.
func (d *Dispatcher) Registered() []domain.IntentLabel {
	labels := make([]domain.IntentLabel, 0, len(d.handlers))
	for label := range d.handlers {
		labels = append(labels, label)
	}
	return labels
}

// Execute implements ports.Dispatcher. The risk policy is applied once per
// turn: high-risk requests yield manual instructions instead of execution,
// medium-risk requests require confirmation when a prompter is attached.
func (d *Dispatcher) Execute(ctx context.Context, plan domain.Plan, input string) []domain.ActionResult {
	if gate := d.applyRiskPolicy(input); gate != nil {
		return []domain.ActionResult{*gate}
	}

	results := make([]domain.ActionResult, 0, len(plan.Actions))
	for _, action := range plan.Actions {
		results = append(results, d.runOne(ctx, action, input))
	}
	return results
}

func (d *Dispatcher) runOne(ctx context.Context, action domain.PlannedAction, input string) (result domain.ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panicked", fmt.Errorf("%v", r), map[string]interface{}{"action": string(action.Action)})
			result = domain.ErrorResult(fmt.Sprintf("Action %s failed unexpectedly", action.Action))
		}
	}()

	handler, ok := d.handlers[action.Action]
	if !ok {
		return domain.ActionResult{
			Status:  domain.StatusInfo,
			Message: fmt.Sprintf("I don't know how to handle %q yet", action.Action),
		}
	}
	d.logger.Debug("dispatching action", map[string]interface{}{
		"action": string(action.Action),
		"target": action.Target,
	})
	return handler.Handle(ctx, action, input)
}

func (d *Dispatcher) applyRiskPolicy(input string) *domain.ActionResult {
	if d.security == nil {
		return nil
	}
	assessment, err := d.security.Evaluate(input)
	if err != nil {
		d.logger.Warn("risk evaluation failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	switch assessment.Mode {
	case domain.ModeManual:
		return &domain.ActionResult{
			Status:  domain.StatusWarning,
			Message: manualInstructions(input, assessment),
			Reason:  strings.Join(assessment.Reasons, "; "),
		}
	case domain.ModeGuided:
		if d.prompter == nil || !d.prompter.Enabled() {
			return nil
		}
		ok, err := d.prompter.Confirm(assessment.Level, input, assessment.Reasons)
		if err != nil || !ok {
			return &domain.ActionResult{
				Status:  domain.StatusInfo,
				Message: "Okay, I won't proceed with that.",
				Reason:  strings.Join(assessment.Reasons, "; "),
			}
		}
	}
	return nil
}

func manualInstructions(input string, assessment domain.RiskAssessment) string {
	var b strings.Builder
	b.WriteString("⚠️ This request needs manual handling")
	if assessment.RequireAdmin {
		b.WriteString(" (administrator rights required)")
	}
	b.WriteString(":\n")
	for _, reason := range assessment.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	b.WriteString("I can walk you through the steps, but I won't run this automatically.")
	return b.String()
}

var _ ports.Dispatcher = (*Dispatcher)(nil)
