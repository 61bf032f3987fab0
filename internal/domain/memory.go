package domain

import "time"

// ConversationTurn is one append-only conversation record. Turns are never
// mutated after creation; the planner reads back the most recent N to build
// its prompt context.
type ConversationTurn struct {
	Timestamp         time.Time         `json:"timestamp"`
	UserInput         string            `json:"user_input"`
	AssistantResponse string            `json:"assistant_response"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// TaskStatus enumerates reminder task states.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// Task is a user reminder. Tasks move from the pending collection to the
// completed collection on completion; they are never deleted.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
