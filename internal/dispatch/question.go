package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

const questionSystemPrompt = `You are a helpful Windows desktop assistant. You can
open and close applications, create and read files, list directories, run
commands, manage reminder tasks and analyze system resource usage.
Be helpful, concise, and suggest actions the user can take.`

// QuestionHandler answers general_question actions with the model, feeding it
// the recent conversation as context.
type QuestionHandler struct {
	llm    ports.LLMClient
	store  ports.MemoryStore
	logger ports.Logger
}

// NewQuestionHandler builds the conversational question handler.
func NewQuestionHandler(llm ports.LLMClient, store ports.MemoryStore, logger ports.Logger) *QuestionHandler {
	return &QuestionHandler{llm: llm, store: store, logger: logger}
}

func (h *QuestionHandler) Handle(ctx context.Context, action domain.PlannedAction, input string) domain.ActionResult {
	question := strings.TrimSpace(action.Target)
	if question == "" {
		question = input
	}
	if h.llm == nil || !h.llm.Available(ctx) {
		return domain.ErrorResult("I'm having trouble processing that request. Try being more specific.")
	}

	var b strings.Builder
	if h.store != nil {
		if turns, err := h.store.RecentTurns(ctx, domain.DefaultContextWindow); err == nil && len(turns) > 0 {
			b.WriteString("Context:\n")
			for _, turn := range turns {
				fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.UserInput, turn.AssistantResponse)
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "User question: %s", question)

	response, err := h.llm.Generate(ctx, ports.GenerateRequest{Prompt: b.String(), System: questionSystemPrompt})
	if err != nil {
		h.logger.Warn("general question generation failed", map[string]interface{}{"error": err.Error()})
		return domain.ErrorResult("I'm having trouble processing that request. Try being more specific.")
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: strings.TrimSpace(response),
		Payload: map[string]any{"type": "ai_response"},
	}
}

var _ ports.ActionHandler = (*QuestionHandler)(nil)
