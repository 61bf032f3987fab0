// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like model endpoints, on-disk stores, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Planner, ResponseCache)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/akhellaf/deskpilot/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.deskpilot/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// IntentMatcher classifies free-form user input against an ordered pattern
// table. Matching is first-match-wins and deterministic for a given input.
type IntentMatcher interface {
	Match(input string) (domain.Intent, error)
}

// Planner turns one user turn into a structural execution plan. ErrPlanParse
// means the model produced unusable output and the caller should fall back to
// pattern-only planning.
type Planner interface {
	Plan(ctx context.Context, input string, snapshot domain.SystemSnapshot, history []domain.ConversationTurn) (domain.Plan, error)
}

// LLMClient is the raw generation capability behind the planner.
type LLMClient interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Available(ctx context.Context) bool
}

// GenerateRequest carries one prompt to the model endpoint.
type GenerateRequest struct {
	Prompt string
	System string
	Model  string
}

// Dispatcher executes a plan's actions sequentially and returns one result
// per action. A failing action never aborts the remainder of the plan.
type Dispatcher interface {
	Execute(ctx context.Context, plan domain.Plan, input string) []domain.ActionResult
}

// ActionHandler executes one action kind. Handlers return a result rather
// than an error; failures are folded into the result status.
type ActionHandler interface {
	Handle(ctx context.Context, action domain.PlannedAction, input string) domain.ActionResult
}

// ResponseCache is the namespaced file-backed cache. Keys are normalized
// (lower-cased, trimmed) so equivalent inputs share one entry. Set always
// records the key in the namespace's recent-input window so GetSimilar can
// match later near-duplicate inputs.
type ResponseCache interface {
	Get(namespace, key string, out any) (bool, error)
	Set(namespace, key string, value any, ttl time.Duration) error
	GetSimilar(namespace, key string, threshold float64, out any) (bool, error)
	Invalidate(namespace, key string) error
	Clear(namespace string) error
	Stats() (domain.CacheStats, error)
}

// MemoryStore persists conversations and tasks. Conversations are
// append-only; completing a task moves it to the completed collection.
type MemoryStore interface {
	AppendTurn(ctx context.Context, turn domain.ConversationTurn) error
	RecentTurns(ctx context.Context, limit int) ([]domain.ConversationTurn, error)
	AddTask(ctx context.Context, task domain.Task) error
	PendingTasks(ctx context.Context) ([]domain.Task, error)
	CompletedTasks(ctx context.Context) ([]domain.Task, error)
	CompleteTask(ctx context.Context, match string) (domain.Task, error)
	Backup(ctx context.Context) (string, error)
	Close() error
}

// SnapshotCollector gathers best-effort live system context for the planning
// prompt. Collection failures degrade to an empty snapshot, never an error
// that blocks planning.
type SnapshotCollector interface {
	Collect(ctx context.Context) domain.SystemSnapshot
}

// SystemInspector provides the deeper process/resource analysis used by the
// analyze_system action.
type SystemInspector interface {
	Analyze(ctx context.Context) (domain.ResourceAnalysis, error)
}

// WifiScanner lists saved profiles and broadcasting networks.
type WifiScanner interface {
	SavedNetworks(ctx context.Context) ([]domain.WifiNetwork, error)
	AvailableNetworks(ctx context.Context) ([]domain.WifiNetwork, error)
}

// AppLauncher opens and closes desktop applications. Open tries a fixed
// strategy chain and remembers the strategy that worked per app.
type AppLauncher interface {
	Open(ctx context.Context, app string) (strategy string, err error)
	Close(ctx context.Context, app string) error
}

// CommandExecutor runs one shell command with a timeout.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// CommandPlanner produces a concrete shell command for a natural-language
// system request, with a deterministic fallback per command family.
type CommandPlanner interface {
	PlanCommand(ctx context.Context, request string) (command string, fallback string, err error)
}

// SecurityService evaluates requests against risk rules before execution.
type SecurityService interface {
	Evaluate(request string) (domain.RiskAssessment, error)
}

// ConfirmationPrompter handles interactive user confirmations for risky work.
type ConfirmationPrompter interface {
	Confirm(risk domain.RiskLevel, request string, reasons []string) (bool, error)
	Enabled() bool
}

// Automation drives keyboard and desktop automation primitives.
type Automation interface {
	SendKeys(ctx context.Context, keys []string) error
	TypeText(ctx context.Context, text string) error
	Screenshot(ctx context.Context, path string) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
