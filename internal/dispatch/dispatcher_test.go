package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/pkg/logger"
	"github.com/akhellaf/deskpilot/internal/ports"
)

type handlerFunc func(ctx context.Context, action domain.PlannedAction, input string) domain.ActionResult

func (f handlerFunc) Handle(ctx context.Context, action domain.PlannedAction, input string) domain.ActionResult {
	return f(ctx, action, input)
}

type stubSecurity struct {
	assessment domain.RiskAssessment
}

func (s *stubSecurity) Evaluate(string) (domain.RiskAssessment, error) {
	return s.assessment, nil
}

type stubPrompter struct {
	enabled bool
	answer  bool
	asked   int
}

func (p *stubPrompter) Confirm(domain.RiskLevel, string, []string) (bool, error) {
	p.asked++
	return p.answer, nil
}

func (p *stubPrompter) Enabled() bool { return p.enabled }

func safeSecurity() ports.SecurityService {
	return &stubSecurity{assessment: domain.RiskAssessment{Level: domain.RiskSafe, Mode: domain.ModeAutomatic}}
}

func planOf(labels ...domain.IntentLabel) domain.Plan {
	plan := domain.Plan{RequiresExecution: true}
	for _, l := range labels {
		plan.Actions = append(plan.Actions, domain.PlannedAction{Action: l})
	}
	return plan
}

func TestExecuteRunsActionsInOrder(t *testing.T) {
	d := New(safeSecurity(), nil, logger.Nop{})
	var order []string
	d.Register(domain.IntentOpenApp, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		order = append(order, "open")
		return domain.ActionResult{Status: domain.StatusSuccess, Message: "opened"}
	}))
	d.Register(domain.IntentCreateFile, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		order = append(order, "create")
		return domain.ActionResult{Status: domain.StatusSuccess, Message: "created"}
	}))

	results := d.Execute(context.Background(), planOf(domain.IntentOpenApp, domain.IntentCreateFile), "do both")
	require.Len(t, results, 2)
	assert.Equal(t, []string{"open", "create"}, order)
}

func TestFailingActionDoesNotAbortPlan(t *testing.T) {
	d := New(safeSecurity(), nil, logger.Nop{})
	d.Register(domain.IntentOpenApp, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		return domain.ErrorResult("launch failed")
	}))
	d.Register(domain.IntentCreateFile, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		return domain.ActionResult{Status: domain.StatusSuccess, Message: "created"}
	}))

	results := d.Execute(context.Background(), planOf(domain.IntentOpenApp, domain.IntentCreateFile), "do both")
	require.Len(t, results, 2)
	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Equal(t, domain.StatusSuccess, results[1].Status)
}

func TestPanickingHandlerIsContained(t *testing.T) {
	d := New(safeSecurity(), nil, logger.Nop{})
	d.Register(domain.IntentOpenApp, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		panic("boom")
	}))
	d.Register(domain.IntentCreateFile, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		return domain.ActionResult{Status: domain.StatusSuccess, Message: "created"}
	}))

	results := d.Execute(context.Background(), planOf(domain.IntentOpenApp, domain.IntentCreateFile), "do both")
	require.Len(t, results, 2)
	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Equal(t, domain.StatusSuccess, results[1].Status)
}

func TestUnknownActionYieldsInfoResult(t *testing.T) {
	d := New(safeSecurity(), nil, logger.Nop{})
	results := d.Execute(context.Background(), planOf(domain.IntentWebAutomation), "browse")
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusInfo, results[0].Status)
}

func TestHighRiskRequestIsNotExecuted(t *testing.T) {
	security := &stubSecurity{assessment: domain.RiskAssessment{
		Level:        domain.RiskHigh,
		Mode:         domain.ModeManual,
		Reasons:      []string{"Formatting a disk"},
		RequireAdmin: true,
	}}
	d := New(security, nil, logger.Nop{})
	executed := false
	d.Register(domain.IntentRunCommand, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		executed = true
		return domain.ActionResult{Status: domain.StatusSuccess}
	}))

	results := d.Execute(context.Background(), planOf(domain.IntentRunCommand), "format disk c:")
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusWarning, results[0].Status)
	assert.Contains(t, results[0].Message, "manual handling")
	assert.False(t, executed)
}

func TestMediumRiskDeclinedByUserIsNotExecuted(t *testing.T) {
	security := &stubSecurity{assessment: domain.RiskAssessment{
		Level: domain.RiskMedium,
		Mode:  domain.ModeGuided,
	}}
	prompter := &stubPrompter{enabled: true, answer: false}
	d := New(security, prompter, logger.Nop{})
	executed := false
	d.Register(domain.IntentRunCommand, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		executed = true
		return domain.ActionResult{Status: domain.StatusSuccess}
	}))

	results := d.Execute(context.Background(), planOf(domain.IntentRunCommand), "restart my computer")
	require.Len(t, results, 1)
	assert.Equal(t, 1, prompter.asked)
	assert.False(t, executed)
}

func TestMediumRiskConfirmedProceeds(t *testing.T) {
	security := &stubSecurity{assessment: domain.RiskAssessment{
		Level: domain.RiskMedium,
		Mode:  domain.ModeGuided,
	}}
	prompter := &stubPrompter{enabled: true, answer: true}
	d := New(security, prompter, logger.Nop{})
	d.Register(domain.IntentRunCommand, handlerFunc(func(context.Context, domain.PlannedAction, string) domain.ActionResult {
		return domain.ActionResult{Status: domain.StatusSuccess, Message: "done"}
	}))

	results := d.Execute(context.Background(), planOf(domain.IntentRunCommand), "restart my computer")
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusSuccess, results[0].Status)
}
