package domain

// ActionStatus enumerates handler outcomes.
type ActionStatus string

const (
	StatusSuccess ActionStatus = "success"
	StatusError   ActionStatus = "error"
	StatusInfo    ActionStatus = "info"
	StatusWarning ActionStatus = "warning"
	StatusTimeout ActionStatus = "timeout"
)

// ActionResult is the normalized record one handler produces. Payload carries
// action-specific data (analysis tables, command output, wifi scan data).
type ActionResult struct {
	Status  ActionStatus   `json:"status"`
	Message string         `json:"message"`
	Reason  string         `json:"reason,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// OK reports whether the action counts as a success for aggregation.
func (r ActionResult) OK() bool {
	return r.Status == StatusSuccess
}

// ErrorResult builds an error result from a handler failure.
func ErrorResult(msg string) ActionResult {
	return ActionResult{Status: StatusError, Message: msg}
}

// TurnResult is the final envelope for one user turn: the composed message,
// the raw per-action results and the plan's proactive suggestions.
type TurnResult struct {
	Status      ActionStatus   `json:"status"`
	Message     string         `json:"message"`
	Results     []ActionResult `json:"execution_results,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	FromCache   bool           `json:"from_cache,omitempty"`
	Type        string         `json:"type,omitempty"`
}
