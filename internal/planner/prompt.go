package planner

import (
	"fmt"
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
)

const systemPrompt = `You are DeskPilot, a Windows desktop assistant that plans concrete actions.
Respond with ONE JSON object and nothing else, using exactly this shape:
{
  "understanding": "what the user wants",
  "requires_execution": true,
  "suggested_actions": [{"action": "open_app", "target": "notepad", "reason": "why"}],
  "proactive_suggestions": ["optional follow-up"],
  "response": "short natural-language reply"
}
Valid action values: open_app, close_app, create_file, read_file, list_directory,
run_command, add_task, complete_task, analyze_system, scan_wifi,
scan_available_wifi, windows_command, keyboard_shortcut, computer_automation,
screen_analysis, web_automation, task_automation, system_commands,
organize_files, system_cleanup, productivity_boost, general_question.
Set requires_execution to false for pure questions.`

// buildPrompt renders the user-turn prompt: live system snapshot, the recent
// conversation window and the new input.
func buildPrompt(input string, snapshot domain.SystemSnapshot, history []domain.ConversationTurn) string {
	var b strings.Builder

	b.WriteString("Current system state:\n")
	if snapshot.WorkingDir != "" {
		fmt.Fprintf(&b, "- working directory: %s (%d entries)\n", snapshot.WorkingDir, snapshot.DirEntries)
	}
	fmt.Fprintf(&b, "- pending tasks: %d\n", snapshot.PendingTasks)
	if len(snapshot.TopProcesses) > 0 {
		b.WriteString("- top processes by memory:\n")
		for _, p := range snapshot.TopProcesses {
			fmt.Fprintf(&b, "  - %s (%.0f MB)\n", p.Name, p.MemoryMB)
		}
	}

	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.UserInput, turn.AssistantResponse)
		}
	}

	fmt.Fprintf(&b, "\nNew request: %s\n", input)
	return b.String()
}
