package dispatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akhellaf/deskpilot/internal/domain"
)

func TestComposeSingleActionPassesMessageVerbatim(t *testing.T) {
	results := []domain.ActionResult{{Status: domain.StatusSuccess, Message: "Opened notepad"}}
	turn := Compose(domain.Plan{}, results)
	assert.Equal(t, "Opened notepad", turn.Message)
	assert.Equal(t, domain.StatusSuccess, turn.Status)
	assert.Equal(t, "single_action", turn.Type)
}

func TestComposeMultiActionNumbersEachResult(t *testing.T) {
	results := []domain.ActionResult{
		{Status: domain.StatusSuccess, Message: "Opened notepad"},
		{Status: domain.StatusError, Message: "Could not create notes.txt"},
		{Status: domain.StatusSuccess, Message: "Added task: buy milk"},
	}
	turn := Compose(domain.Plan{}, results)

	assert.Equal(t, domain.StatusSuccess, turn.Status)
	assert.Contains(t, turn.Message, "Completed 2/3 actions")
	lines := strings.Split(turn.Message, "\n")
	assert.Contains(t, lines[1], "1. ✅ Opened notepad")
	assert.Contains(t, lines[2], "2. ❌ Could not create notes.txt")
	assert.Contains(t, lines[3], "3. ✅ Added task: buy milk")
}

func TestComposeAllFailuresIsError(t *testing.T) {
	results := []domain.ActionResult{
		{Status: domain.StatusError, Message: "a"},
		{Status: domain.StatusError, Message: "b"},
	}
	turn := Compose(domain.Plan{}, results)
	assert.Equal(t, domain.StatusError, turn.Status)
}

func TestComposeOneSuccessIsSuccess(t *testing.T) {
	results := []domain.ActionResult{
		{Status: domain.StatusError, Message: "a"},
		{Status: domain.StatusSuccess, Message: "b"},
	}
	turn := Compose(domain.Plan{}, results)
	assert.Equal(t, domain.StatusSuccess, turn.Status)
}

func TestComposeNoActionsUsesPlanResponse(t *testing.T) {
	turn := Compose(domain.Plan{Response: "The capital of France is Paris."}, nil)
	assert.Equal(t, "The capital of France is Paris.", turn.Message)
	assert.Equal(t, "conversational", turn.Type)
}

func TestComposeAppendsProactiveSuggestions(t *testing.T) {
	plan := domain.Plan{ProactiveSuggestions: []string{"You could also pin notepad to the taskbar"}}
	results := []domain.ActionResult{{Status: domain.StatusSuccess, Message: "Opened notepad"}}
	turn := Compose(plan, results)
	assert.Contains(t, turn.Message, "🤖 Additional suggestions:")
	assert.Contains(t, turn.Message, "• You could also pin notepad to the taskbar")
}
