package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/pkg/filesystem"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// OrganizeHandler covers organize_files: it groups the loose files of a
// directory into subfolders, asking the model for a grouping when it is
// reachable and falling back to extension-based grouping otherwise.
type OrganizeHandler struct {
	llm    ports.LLMClient
	logger ports.Logger
}

// NewOrganizeHandler builds the file organization handler.
func NewOrganizeHandler(llm ports.LLMClient, logger ports.Logger) *OrganizeHandler {
	return &OrganizeHandler{llm: llm, logger: logger}
}

type organizePlan struct {
	Folders []organizeFolder `json:"organization_plan"`
	Summary string           `json:"summary"`
}

type organizeFolder struct {
	Folder string   `json:"folder"`
	Files  []string `json:"files"`
	Reason string   `json:"reason"`
}

func (h *OrganizeHandler) Handle(ctx context.Context, action domain.PlannedAction, _ string) domain.ActionResult {
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
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return domain.ActionResult{
			Status:  domain.StatusInfo,
			Message: fmt.Sprintf("No files to organize in %s", dir),
		}
	}

	plan := h.planOrganization(ctx, files)

	moved := 0
	for _, folder := range plan.Folders {
		if folder.Folder == "" || len(folder.Files) == 0 {
			continue
		}
		target := filepath.Join(dir, folder.Folder)
		if err := os.MkdirAll(target, domain.DirectoryPermissions); err != nil {
			continue
		}
		for _, name := range folder.Files {
			src := filepath.Join(dir, filepath.Base(name))
			if _, err := os.Stat(src); err != nil {
				continue
			}
			if err := os.Rename(src, filepath.Join(target, filepath.Base(name))); err == nil {
				moved++
			}
		}
	}

	message := fmt.Sprintf("Organized %d files into %d folders.", moved, len(plan.Folders))
	if plan.Summary != "" {
		message += " " + plan.Summary
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: message,
		Payload: map[string]any{"moved": moved, "plan": plan.Folders},
	}
}

func (h *OrganizeHandler) planOrganization(ctx context.Context, files []string) organizePlan {
	if h.llm != nil && h.llm.Available(ctx) {
		prompt := fmt.Sprintf(`Suggest how to organize these files into folders:

%s

Respond with ONE JSON object:
{"organization_plan":[{"folder":"name","files":["a.txt"],"reason":"why"}],"summary":"strategy"}`,
			"- "+strings.Join(files, "\n- "))

		raw, err := h.llm.Generate(ctx, ports.GenerateRequest{
			Prompt: prompt,
			System: "You are a file organization expert. Reply with JSON only.",
		})
		if err == nil {
			if plan, ok := parseOrganizePlan(raw); ok {
				return plan
			}
		} else {
			h.logger.Warn("organization planning via model failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return organizeByExtension(files)
}

func parseOrganizePlan(raw string) (organizePlan, bool) {
	obj, ok := firstJSONObject(raw)
	if !ok {
		return organizePlan{}, false
	}
	var plan organizePlan
	if err := json.Unmarshal([]byte(obj), &plan); err != nil || len(plan.Folders) == 0 {
		return organizePlan{}, false
	}
	return plan, true
}

// organizeByExtension is the offline grouping: one folder per file extension.
func organizeByExtension(files []string) organizePlan {
	groups := map[string][]string{}
	var order []string
	for _, name := range files {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
		if ext == "" {
			ext = "misc"
		}
		if _, seen := groups[ext]; !seen {
			order = append(order, ext)
		}
		groups[ext] = append(groups[ext], name)
	}
	plan := organizePlan{Summary: "Grouped by file type."}
	for _, ext := range order {
		plan.Folders = append(plan.Folders, organizeFolder{
			Folder: ext,
			Files:  groups[ext],
			Reason: "same file type",
		})
	}
	return plan
}

// CleanupHandler covers system_cleanup: it surveys heavy processes and
// crowded temp directories and reports cleanup suggestions without touching
// anything.
type CleanupHandler struct {
	inspector ports.SystemInspector
}

// NewCleanupHandler builds the cleanup advisor.
func NewCleanupHandler(inspector ports.SystemInspector) *CleanupHandler {
	return &CleanupHandler{inspector: inspector}
}

// tempDirThreshold is how many entries make a temp directory worth flagging.
const tempDirThreshold = 10

func (h *CleanupHandler) Handle(ctx context.Context, _ domain.PlannedAction, _ string) domain.ActionResult {
	analysis, err := h.inspector.Analyze(ctx)
	if err != nil {
		return domain.ErrorResult(fmt.Sprintf("System cleanup analysis failed: %v", err))
	}

	var suggestions []string
	if len(analysis.HighMemory) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Found %d memory-intensive processes", len(analysis.HighMemory)))
	}
	for _, dir := range tempDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		if len(entries) > tempDirThreshold {
			suggestions = append(suggestions, fmt.Sprintf("%s: %d items", dir, len(entries)))
		}
	}

	if len(suggestions) == 0 {
		return domain.ActionResult{
			Status:  domain.StatusSuccess,
			Message: "System cleanup analysis: nothing significant to clean up.",
		}
	}
	var b strings.Builder
	b.WriteString("System cleanup analysis:\n")
	for _, s := range suggestions {
		fmt.Fprintf(&b, "• %s\n", s)
	}
	b.WriteString("\nWould you like me to help with specific cleanup tasks?")
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: b.String(),
		Payload: map[string]any{"cleanup_suggestions": suggestions},
	}
}

func tempDirs() []string {
	home := filesystem.UserHomeDir()
	return []string{
		os.TempDir(),
		`C:\Windows\Temp`,
		filepath.Join(home, "AppData", "Local", "Temp"),
	}
}

// ProductivityHandler covers productivity_boost: it turns the live snapshot
// and pending workload into a short list of concrete suggestions, via the
// model when reachable.
type ProductivityHandler struct {
	llm       ports.LLMClient
	collector ports.SnapshotCollector
	logger    ports.Logger
}

// NewProductivityHandler builds the productivity advisor.
func NewProductivityHandler(llm ports.LLMClient, collector ports.SnapshotCollector, logger ports.Logger) *ProductivityHandler {
	return &ProductivityHandler{llm: llm, collector: collector, logger: logger}
}

type productivityPlan struct {
	Suggestions []productivitySuggestion `json:"suggestions"`
	Summary     string                   `json:"summary"`
}

type productivitySuggestion struct {
	Action   string `json:"action"`
	Benefit  string `json:"benefit"`
	Priority string `json:"priority"`
}

func (h *ProductivityHandler) Handle(ctx context.Context, _ domain.PlannedAction, _ string) domain.ActionResult {
	var snapshot domain.SystemSnapshot
	if h.collector != nil {
		snapshot = h.collector.Collect(ctx)
	}

	if h.llm != nil && h.llm.Available(ctx) {
		if result, ok := h.modelSuggestions(ctx, snapshot); ok {
			return result
		}
	}
	return offlineSuggestions(snapshot)
}

func (h *ProductivityHandler) modelSuggestions(ctx context.Context, snapshot domain.SystemSnapshot) (domain.ActionResult, bool) {
	var apps []string
	for _, p := range snapshot.TopProcesses {
		apps = append(apps, p.Name)
	}
	prompt := fmt.Sprintf(`Based on the current context, suggest 3-5 specific productivity actions.

Running applications: %s
Pending tasks: %d

Respond with ONE JSON object:
{"suggestions":[{"action":"what to do","benefit":"why it helps","priority":"high"}],"summary":"overall assessment"}`,
		strings.Join(apps, ", "), snapshot.PendingTasks)

	raw, err := h.llm.Generate(ctx, ports.GenerateRequest{
		Prompt: prompt,
		System: "You are a productivity optimization expert. Reply with JSON only.",
	})
	if err != nil {
		h.logger.Warn("productivity planning via model failed", map[string]interface{}{"error": err.Error()})
		return domain.ActionResult{}, false
	}
	obj, ok := firstJSONObject(raw)
	if !ok {
		return domain.ActionResult{}, false
	}
	var plan productivityPlan
	if err := json.Unmarshal([]byte(obj), &plan); err != nil || len(plan.Suggestions) == 0 {
		return domain.ActionResult{}, false
	}

	var b strings.Builder
	if plan.Summary != "" {
		fmt.Fprintf(&b, "Productivity analysis: %s\n\n", plan.Summary)
	}
	b.WriteString("Suggested actions:\n")
	for i, s := range plan.Suggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Action)
		if s.Benefit != "" {
			fmt.Fprintf(&b, "   Benefit: %s\n", s.Benefit)
		}
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: strings.TrimSpace(b.String()),
		Payload: map[string]any{"productivity_suggestions": plan.Suggestions},
	}, true
}

// offlineSuggestions degrades to what the snapshot alone supports.
func offlineSuggestions(snapshot domain.SystemSnapshot) domain.ActionResult {
	var lines []string
	if snapshot.PendingTasks > 0 {
		lines = append(lines, fmt.Sprintf("Review your %d pending tasks and finish or drop the stale ones", snapshot.PendingTasks))
	}
	if len(snapshot.TopProcesses) > 0 {
		lines = append(lines, fmt.Sprintf("Close %s if you are not using it", snapshot.TopProcesses[0].Name))
	}
	if len(lines) == 0 {
		lines = append(lines, "Capture what you are working on as tasks so nothing gets lost")
	}
	var b strings.Builder
	b.WriteString("Suggested actions:\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: strings.TrimSpace(b.String()),
		Payload: map[string]any{"productivity_suggestions": lines},
	}
}

// firstJSONObject extracts the outermost {...} span from model output.
func firstJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

var (
	_ ports.ActionHandler = (*OrganizeHandler)(nil)
	_ ports.ActionHandler = (*CleanupHandler)(nil)
	_ ports.ActionHandler = (*ProductivityHandler)(nil)
)
