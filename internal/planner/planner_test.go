package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/infrastructure/cache"
	"github.com/akhellaf/deskpilot/internal/pkg/logger"
	"github.com/akhellaf/deskpilot/internal/ports"
)

type fakeLLM struct {
	t         *testing.T
	available bool
	response  string
	err       error
	calls     int
	forbidden bool
}

func (f *fakeLLM) Generate(_ context.Context, _ ports.GenerateRequest) (string, error) {
	f.calls++
	if f.forbidden {
		f.t.Fatal("model must not be called for this input")
	}
	return f.response, f.err
}

func (f *fakeLLM) Available(context.Context) bool { return f.available }

type fakeMatcher struct {
	intent domain.Intent
	err    error
}

func (f *fakeMatcher) Match(string) (domain.Intent, error) { return f.intent, f.err }

func newPlanner(llm ports.LLMClient, matcher ports.IntentMatcher) *Service {
	return New(llm, matcher, logger.Nop{}, 5, 1)
}

func TestNegativeReplyBypassesModel(t *testing.T) {
	llm := &fakeLLM{t: t, available: true, forbidden: true}
	p := newPlanner(llm, &fakeMatcher{})

	plan, err := p.Plan(context.Background(), "no thanks", domain.SystemSnapshot{}, nil)
	require.NoError(t, err)
	assert.False(t, plan.RequiresExecution)
	assert.Equal(t, DeclineMessage, plan.Response)
	assert.Zero(t, llm.calls)
}

func TestClarificationReachesModel(t *testing.T) {
	llm := &fakeLLM{
		t:         t,
		available: true,
		response:  `{"understanding":"u","requires_execution":false,"response":"ok"}`,
	}
	p := newPlanner(llm, &fakeMatcher{})

	_, err := p.Plan(context.Background(), "no but open chrome", domain.SystemSnapshot{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
}

func TestAgreementConfirmsPendingFileCreation(t *testing.T) {
	llm := &fakeLLM{t: t, available: true, forbidden: true}
	p := newPlanner(llm, &fakeMatcher{})

	history := []domain.ConversationTurn{
		{UserInput: "can you create a file for me", AssistantResponse: "I can create a test file if you like."},
	}
	plan, err := p.Plan(context.Background(), "yes please", domain.SystemSnapshot{}, history)
	require.NoError(t, err)
	require.True(t, plan.RequiresExecution)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, domain.IntentCreateFile, plan.Actions[0].Action)
	assert.Equal(t, "test.txt", plan.Actions[0].Target)
}

func TestAgreementWithoutContextIsConversational(t *testing.T) {
	p := newPlanner(&fakeLLM{t: t, available: true, forbidden: true}, &fakeMatcher{})
	plan, err := p.Plan(context.Background(), "sure", domain.SystemSnapshot{}, nil)
	require.NoError(t, err)
	assert.False(t, plan.RequiresExecution)
}

func TestUnavailableModelFallsBackToPatterns(t *testing.T) {
	matcher := &fakeMatcher{intent: domain.Intent{
		Label:  domain.IntentOpenApp,
		Entity: "notepad",
		Source: domain.SourcePattern,
	}}
	p := newPlanner(&fakeLLM{t: t, available: false}, matcher)

	plan, err := p.Plan(context.Background(), "open notepad", domain.SystemSnapshot{}, nil)
	require.NoError(t, err)
	require.True(t, plan.RequiresExecution)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, domain.IntentOpenApp, plan.Actions[0].Action)
	assert.Equal(t, "notepad", plan.Actions[0].Target)
}

func TestUnparseableOutputFallsBackToPatterns(t *testing.T) {
	llm := &fakeLLM{t: t, available: true, response: "I think you should open notepad yourself."}
	matcher := &fakeMatcher{intent: domain.Intent{Label: domain.IntentOpenApp, Entity: "notepad", Source: domain.SourcePattern}}
	p := newPlanner(llm, matcher)

	plan, err := p.Plan(context.Background(), "open notepad", domain.SystemSnapshot{}, nil)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, domain.IntentOpenApp, plan.Actions[0].Action)
}

func TestParsePlanExtractsEmbeddedJSON(t *testing.T) {
	raw := "Here is the plan you asked for:\n" +
		`{"understanding":"open the editor","requires_execution":true,` +
		`"suggested_actions":[{"action":"open_app","target":"notepad","reason":"requested"}],` +
		`"response":"Opening notepad"}` +
		"\nLet me know if that works."

	plan, err := ParsePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, "open the editor", plan.Understanding)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, domain.IntentOpenApp, plan.Actions[0].Action)
}

func TestParsePlanReportsParseError(t *testing.T) {
	for _, raw := range []string{
		"no json here at all",
		"{not valid json}",
		`{"understanding":"u","requires_execution":true,"suggested_actions":[]}`,
	} {
		_, err := ParsePlan(raw)
		assert.ErrorIs(t, err, domain.ErrPlanParse, "input %q", raw)
	}
}

func TestBypassDetection(t *testing.T) {
	cases := []struct {
		input     string
		agreement bool
		negative  bool
	}{
		{"yes", true, false},
		{"sure!", true, false},
		{"do it", true, false},
		{"no", false, true},
		{"never mind", false, true},
		{"nah skip", false, true},
		{"no but open chrome", false, false},
		{"no wait", false, false},
		{"yes please create that file right away now", false, false},
		{"open notepad", false, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.agreement, IsAgreement(tc.input), "IsAgreement(%q)", tc.input)
		assert.Equal(t, tc.negative, IsNegative(tc.input), "IsNegative(%q)", tc.input)
	}
}

type countingMatcher struct {
	intent domain.Intent
	calls  int
}

func (m *countingMatcher) Match(string) (domain.Intent, error) {
	m.calls++
	return m.intent, nil
}

func TestPatternPlanCachesMatchedIntents(t *testing.T) {
	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), 1<<20, 50)
	require.NoError(t, err)

	matcher := &countingMatcher{intent: domain.Intent{
		Label:  domain.IntentOpenApp,
		Entity: "notepad",
		Source: domain.SourcePattern,
	}}
	p := newPlanner(&fakeLLM{t: t, available: false}, matcher)
	p.AttachCache(c, time.Hour)

	for i := 0; i < 2; i++ {
		plan, err := p.Plan(context.Background(), "open notepad", domain.SystemSnapshot{}, nil)
		require.NoError(t, err)
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, domain.IntentOpenApp, plan.Actions[0].Action)
	}
	assert.Equal(t, 1, matcher.calls, "second plan must come from the pattern cache")
}

func TestModelPlansAreCachedPerInput(t *testing.T) {
	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), 1<<20, 50)
	require.NoError(t, err)

	llm := &fakeLLM{
		t:         t,
		available: true,
		response: `{"understanding":"open the editor","requires_execution":true,` +
			`"suggested_actions":[{"action":"open_app","target":"notepad","reason":"requested"}],` +
			`"response":"Opening notepad"}`,
	}
	p := newPlanner(llm, &fakeMatcher{})
	p.AttachCache(c, time.Hour)

	for i := 0; i < 2; i++ {
		plan, err := p.Plan(context.Background(), "open notepad", domain.SystemSnapshot{}, nil)
		require.NoError(t, err)
		require.Len(t, plan.Actions, 1)
	}
	assert.Equal(t, 1, llm.calls, "second plan must come from the plan cache")
}

func TestPlanCacheIgnoresInputCase(t *testing.T) {
	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), 1<<20, 50)
	require.NoError(t, err)

	llm := &fakeLLM{
		t:         t,
		available: true,
		response: `{"understanding":"open the editor","requires_execution":true,` +
			`"suggested_actions":[{"action":"open_app","target":"notepad","reason":"requested"}],` +
			`"response":"Opening notepad"}`,
	}
	p := newPlanner(llm, &fakeMatcher{})
	p.AttachCache(c, time.Hour)

	for _, input := range []string{"Open Notepad", "open notepad", "  OPEN NOTEPAD  "} {
		plan, err := p.Plan(context.Background(), input, domain.SystemSnapshot{}, nil)
		require.NoError(t, err)
		require.Len(t, plan.Actions, 1)
	}
	assert.Equal(t, 1, llm.calls, "differently-cased repeats must share one plan entry")
}

func TestGenerationErrorFallsBack(t *testing.T) {
	llm := &fakeLLM{t: t, available: true, err: errors.New("boom")}
	matcher := &fakeMatcher{intent: domain.Intent{Label: domain.IntentGeneralQuestion, Source: domain.SourceFallback}}
	p := newPlanner(llm, matcher)

	plan, err := p.Plan(context.Background(), "open notepad", domain.SystemSnapshot{}, nil)
	require.NoError(t, err)
	assert.False(t, plan.RequiresExecution)
	assert.GreaterOrEqual(t, llm.calls, 2)
}
