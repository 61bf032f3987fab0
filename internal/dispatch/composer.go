package dispatch

import (
	"fmt"
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
)

// Compose turns per-action results into the final turn envelope.
//
// A single action's message is passed through verbatim. Multiple actions
// become a numbered summary with one ✅/❌ line each; the turn counts as a
// success when at least one action succeeded. Proactive suggestions from the
// plan are appended either way.
func Compose(plan domain.Plan, results []domain.ActionResult) domain.TurnResult {
	turn := domain.TurnResult{
		Results:     results,
		Suggestions: plan.ProactiveSuggestions,
	}

	switch len(results) {
	case 0:
		turn.Status = domain.StatusSuccess
		turn.Message = plan.Response
		turn.Type = "conversational"
	case 1:
		turn.Status = results[0].Status
		turn.Message = results[0].Message
		turn.Type = "single_action"
	default:
		succeeded := 0
		var b strings.Builder
		for i, r := range results {
			mark := "❌"
			if r.OK() {
				mark = "✅"
				succeeded++
			}
			fmt.Fprintf(&b, "%d. %s %s\n", i+1, mark, firstLine(r.Message))
		}
		header := fmt.Sprintf("✅ Completed %d/%d actions:\n", succeeded, len(results))
		turn.Message = header + strings.TrimRight(b.String(), "\n")
		turn.Type = "multi_action"
		if succeeded > 0 {
			turn.Status = domain.StatusSuccess
		} else {
			turn.Status = domain.StatusError
		}
	}

	if len(turn.Suggestions) > 0 {
		var b strings.Builder
		b.WriteString(turn.Message)
		b.WriteString("\n\n🤖 Additional suggestions:\n")
		for _, s := range turn.Suggestions {
			fmt.Fprintf(&b, "• %s\n", s)
		}
		turn.Message = strings.TrimRight(b.String(), "\n")
	}
	return turn
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
