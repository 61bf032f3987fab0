package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/pkg/filesystem"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// FileHandler covers create_file, read_file and list_directory.
type FileHandler struct {
	logger ports.Logger
}

// NewFileHandler builds the filesystem action handler.
func NewFileHandler(logger ports.Logger) *FileHandler {
	return &FileHandler{logger: logger}
}

func (h *FileHandler) Handle(_ context.Context, action domain.PlannedAction, input string) domain.ActionResult {
	switch action.Action {
	case domain.IntentCreateFile:
		return h.createFile(action, input)
	case domain.IntentReadFile:
		return h.readFile(action, input)
	case domain.IntentListDirectory:
		return h.listDirectory(action)
	default:
		return domain.ErrorResult(fmt.Sprintf("unsupported file action %q", action.Action))
	}
}

var (
	quotedContent  = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	dictated       = regexp.MustCompile(`(?i)\b(?:write|note)\s+([^,]+?)(?:\s*,|\s+save\b|\s+then\b|\s*$)`)
	phrasedContent = regexp.MustCompile(`(?i)\b(?:with|containing|saying|that says)\s+(.+)$`)
	fileNameToken  = regexp.MustCompile(`(?i)\b([\w-]+\.(?:txt|md|csv|json|log|py|go))\b`)
)

func (h *FileHandler) createFile(action domain.PlannedAction, input string) domain.ActionResult {
	name := strings.TrimSpace(action.Target)
	if name == "" {
		if m := fileNameToken.FindStringSubmatch(input); m != nil {
			name = m[1]
		} else {
			name = "test.txt"
		}
	}
	content := extractContent(input)

	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		return domain.ErrorResult(fmt.Sprintf("Could not create %s: %v", name, err))
	}
	abs, _ := filepath.Abs(name)
	h.logger.Info("file created", map[string]interface{}{"path": abs})
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: fmt.Sprintf("Created %s with content: '%s'", name, content),
		Payload: map[string]any{"path": abs, "bytes": len(content)},
	}
}

// extractContent pulls the requested file body from the input: quoted text
// first, then a dictation phrase ("write …", "note …") up to the next clause,
// then a with/containing phrase, else the stock greeting.
func extractContent(input string) string {
	if m := quotedContent.FindStringSubmatch(input); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	if m := dictated.FindStringSubmatch(input); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := phrasedContent.FindStringSubmatch(input); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "hello world"
}

func (h *FileHandler) readFile(action domain.PlannedAction, input string) domain.ActionResult {
	name := strings.TrimSpace(action.Target)
	if name == "" {
		if m := fileNameToken.FindStringSubmatch(input); m != nil {
			name = m[1]
		}
	}
	if name == "" {
		return domain.ErrorResult("Which file should I read?")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return domain.ErrorResult(fmt.Sprintf("Could not read %s: %v", name, err))
	}
	const previewLimit = 2000
	content := string(data)
	if len(content) > previewLimit {
		content = content[:previewLimit] + "\n... (truncated)"
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: fmt.Sprintf("Contents of %s:\n%s", name, content),
		Payload: map[string]any{"path": name, "bytes": len(data)},
	}
}

// wellKnownDirs maps spoken folder names to home subdirectories.
var wellKnownDirs = map[string]string{
	"documents": "Documents",
	"desktop":   "Desktop",
	"downloads": "Downloads",
}

func (h *FileHandler) listDirectory(action domain.PlannedAction) domain.ActionResult {
	dir := strings.TrimSpace(action.Target)
	if dir == "" {
		dir = "."
	}
	if sub, ok := wellKnownDirs[strings.ToLower(dir)]; ok {
		dir = filepath.Join(filesystem.UserHomeDir(), sub)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.ErrorResult(fmt.Sprintf("Could not list %s: %v", dir, err))
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: fmt.Sprintf("%d entries in %s:\n%s", len(names), dir, strings.Join(names, "\n")),
		Payload: map[string]any{"dir": dir, "count": len(names)},
	}
}

// TaskHandler covers add_task and complete_task against the memory store.
type TaskHandler struct {
	store  ports.MemoryStore
	logger ports.Logger
}

// NewTaskHandler builds the reminder task handler.
func NewTaskHandler(store ports.MemoryStore, logger ports.Logger) *TaskHandler {
	return &TaskHandler{store: store, logger: logger}
}

func (h *TaskHandler) Handle(ctx context.Context, action domain.PlannedAction, input string) domain.ActionResult {
	switch action.Action {
	case domain.IntentAddTask:
		return h.addTask(ctx, action, input)
	case domain.IntentCompleteTask:
		return h.completeTask(ctx, action)
	default:
		return domain.ErrorResult(fmt.Sprintf("unsupported task action %q", action.Action))
	}
}

func (h *TaskHandler) addTask(ctx context.Context, action domain.PlannedAction, input string) domain.ActionResult {
	description := strings.TrimSpace(action.Target)
	if description == "" {
		description = strings.TrimSpace(input)
	}
	if description == "" {
		return domain.ErrorResult("What should the task say?")
	}
	task := domain.Task{
		ID:          ulid.Make().String(),
		Description: description,
		Priority:    "medium",
		Status:      domain.TaskPending,
		CreatedAt:   time.Now(),
	}
	if err := h.store.AddTask(ctx, task); err != nil {
		return domain.ErrorResult(fmt.Sprintf("Could not save the task: %v", err))
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: fmt.Sprintf("Added task: %s", description),
		Payload: map[string]any{"task_id": task.ID},
	}
}

func (h *TaskHandler) completeTask(ctx context.Context, action domain.PlannedAction) domain.ActionResult {
	match := strings.TrimSpace(action.Target)
	if match == "" {
		return domain.ErrorResult("Which task should I complete?")
	}
	task, err := h.store.CompleteTask(ctx, match)
	if err != nil {
		return domain.ErrorResult(fmt.Sprintf("Could not complete the task: %v", err))
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: fmt.Sprintf("Completed task: %s", task.Description),
		Payload: map[string]any{"task_id": task.ID},
	}
}
