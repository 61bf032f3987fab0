package cli

import (
	"fmt"
	"io"

	"github.com/akhellaf/deskpilot/internal/domain"
)

// RenderTurn prints one assistant reply.
func RenderTurn(out io.Writer, turn domain.TurnResult) {
	if turn.FromCache {
		fmt.Fprintln(out, "(cached)")
	}
	fmt.Fprintln(out, turn.Message)
}

// RenderTasks prints a task list with completion markers.
func RenderTasks(out io.Writer, heading string, tasks []domain.Task) {
	fmt.Fprintf(out, "%s (%d):\n", heading, len(tasks))
	for _, task := range tasks {
		marker := "[ ]"
		if task.Status == domain.TaskCompleted {
			marker = "[x]"
		}
		fmt.Fprintf(out, "  %s %s\n", marker, task.Description)
	}
}
