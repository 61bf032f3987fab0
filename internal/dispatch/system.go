package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// AppHandler covers open_app and close_app.
type AppHandler struct {
	launcher ports.AppLauncher
	logger   ports.Logger
}

// NewAppHandler builds the application launch handler.
func NewAppHandler(launcher ports.AppLauncher, logger ports.Logger) *AppHandler {
	return &AppHandler{launcher: launcher, logger: logger}
}

func (h *AppHandler) Handle(ctx context.Context, action domain.PlannedAction, _ string) domain.ActionResult {
	app := strings.TrimSpace(action.Target)
	if app == "" {
		return domain.ErrorResult("Which application?")
	}
	switch action.Action {
	case domain.IntentOpenApp:
		strategy, err := h.launcher.Open(ctx, app)
		if err != nil {
			return domain.ErrorResult(fmt.Sprintf("Could not open %s: %v", app, err))
		}
		h.logger.Info("app opened", map[string]interface{}{"app": app, "strategy": strategy})
		return domain.ActionResult{
			Status:  domain.StatusSuccess,
			Message: fmt.Sprintf("Opened %s", app),
			Payload: map[string]any{"strategy": strategy},
		}
	case domain.IntentCloseApp:
		if err := h.launcher.Close(ctx, app); err != nil {
			return domain.ErrorResult(fmt.Sprintf("Could not close %s: %v", app, err))
		}
		return domain.ActionResult{Status: domain.StatusSuccess, Message: fmt.Sprintf("Closed %s", app)}
	default:
		return domain.ErrorResult(fmt.Sprintf("unsupported app action %q", action.Action))
	}
}

// ShellHandler covers run_command through the guarded executor.
type ShellHandler struct {
	executor ports.CommandExecutor
}

// NewShellHandler builds the raw command handler.
func NewShellHandler(executor ports.CommandExecutor) *ShellHandler {
	return &ShellHandler{executor: executor}
}

func (h *ShellHandler) Handle(ctx context.Context, action domain.PlannedAction, _ string) domain.ActionResult {
	command := strings.TrimSpace(action.Target)
	if command == "" {
		return domain.ErrorResult("Which command should I run?")
	}
	result, err := h.executor.Execute(ctx, command)
	if err != nil {
		if result.TimedOut {
			return domain.ActionResult{Status: domain.StatusTimeout, Message: fmt.Sprintf("Command timed out: %s", command)}
		}
		return domain.ErrorResult(fmt.Sprintf("Command failed: %v", err))
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: strings.TrimSpace(result.Output()),
		Payload: map[string]any{"exit_code": result.ExitCode, "duration_ms": result.DurationMS},
	}
}

// AnalysisHandler covers analyze_system.
type AnalysisHandler struct {
	inspector ports.SystemInspector
}

// NewAnalysisHandler builds the resource analysis handler.
func NewAnalysisHandler(inspector ports.SystemInspector) *AnalysisHandler {
	return &AnalysisHandler{inspector: inspector}
}

func (h *AnalysisHandler) Handle(ctx context.Context, _ domain.PlannedAction, _ string) domain.ActionResult {
	analysis, err := h.inspector.Analyze(ctx)
	if err != nil {
		return domain.ErrorResult(fmt.Sprintf("System analysis failed: %v", err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CPU usage: %.1f%%, memory usage: %.1f%% (%.1f GB free), %d processes\n",
		analysis.TotalCPUPercent, analysis.TotalMemPercent, analysis.AvailableMemoryGB, analysis.TotalProcesses)
	if len(analysis.HighMemory) > 0 {
		b.WriteString("Heavy memory users:\n")
		for _, p := range analysis.HighMemory {
			fmt.Fprintf(&b, "- %s: %s\n", p.Name, humanize.Bytes(uint64(p.MemoryMB*1024*1024)))
		}
	}
	if len(analysis.HighCPU) > 0 {
		b.WriteString("Heavy CPU users:\n")
		for _, p := range analysis.HighCPU {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", p.Name, p.CPUPercent)
		}
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: strings.TrimSpace(b.String()),
		Payload: map[string]any{"analysis": analysis},
	}
}

// WifiHandler covers scan_wifi and scan_available_wifi.
type WifiHandler struct {
	scanner ports.WifiScanner
}

// NewWifiHandler builds the wireless scan handler.
func NewWifiHandler(scanner ports.WifiScanner) *WifiHandler {
	return &WifiHandler{scanner: scanner}
}

func (h *WifiHandler) Handle(ctx context.Context, action domain.PlannedAction, _ string) domain.ActionResult {
	switch action.Action {
	case domain.IntentScanWifi:
		networks, err := h.scanner.SavedNetworks(ctx)
		if err != nil {
			return domain.ErrorResult(fmt.Sprintf("Wifi scan failed: %v", err))
		}
		return wifiResult("saved", networks)
	case domain.IntentScanAvailableWifi:
		networks, err := h.scanner.AvailableNetworks(ctx)
		if err != nil {
			return domain.ErrorResult(fmt.Sprintf("Wifi scan failed: %v", err))
		}
		return wifiResult("available", networks)
	default:
		return domain.ErrorResult(fmt.Sprintf("unsupported wifi action %q", action.Action))
	}
}

func wifiResult(kind string, networks []domain.WifiNetwork) domain.ActionResult {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s networks:\n", len(networks), kind)
	for _, n := range networks {
		line := "- " + n.Name
		if n.Security != "" {
			line += " (" + n.Security + ")"
		}
		if n.Signal != "" {
			line += " " + n.Signal
		}
		b.WriteString(line + "\n")
	}
	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: strings.TrimSpace(b.String()),
		Payload: map[string]any{"count": len(networks), "networks": networks},
	}
}

// AutomationHandler covers the desktop automation action family.
type AutomationHandler struct {
	automation ports.Automation
}

// NewAutomationHandler builds the desktop automation handler.
func NewAutomationHandler(automation ports.Automation) *AutomationHandler {
	return &AutomationHandler{automation: automation}
}

func (h *AutomationHandler) Handle(ctx context.Context, action domain.PlannedAction, _ string) domain.ActionResult {
	switch action.Action {
	case domain.IntentKeyboardShortcut:
		keys := splitKeys(action.Target)
		if len(keys) == 0 {
			return domain.ErrorResult("Which keys should I press?")
		}
		if err := h.automation.SendKeys(ctx, keys); err != nil {
			return domain.ErrorResult(fmt.Sprintf("Could not send %s: %v", action.Target, err))
		}
		return domain.ActionResult{Status: domain.StatusSuccess, Message: fmt.Sprintf("Pressed %s", strings.Join(keys, "+"))}
	case domain.IntentScreenAnalysis:
		path := strings.TrimSpace(action.Target)
		if path == "" {
			path = "screenshot.png"
		}
		if err := h.automation.Screenshot(ctx, path); err != nil {
			return domain.ErrorResult(fmt.Sprintf("Screenshot failed: %v", err))
		}
		return domain.ActionResult{
			Status:  domain.StatusSuccess,
			Message: fmt.Sprintf("Saved a screenshot to %s", path),
			Payload: map[string]any{"path": path},
		}
	case domain.IntentComputerAutomation:
		if err := h.automation.TypeText(ctx, action.Target); err != nil {
			return domain.ErrorResult(fmt.Sprintf("Automation failed: %v", err))
		}
		return domain.ActionResult{Status: domain.StatusSuccess, Message: "Automation step completed"}
	case domain.IntentWebAutomation, domain.IntentTaskAutomation:
		return domain.ActionResult{
			Status:  domain.StatusInfo,
			Message: fmt.Sprintf("I can't drive %s flows yet, but I noted the request.", action.Action),
		}
	default:
		return domain.ErrorResult(fmt.Sprintf("unsupported automation action %q", action.Action))
	}
}

func splitKeys(target string) []string {
	fields := strings.FieldsFunc(strings.ToLower(target), func(r rune) bool {
		return r == '+' || r == ' ' || r == ','
	})
	var keys []string
	for _, f := range fields {
		if f != "" {
			keys = append(keys, f)
		}
	}
	return keys
}

// CapabilityHandler covers system_commands: an informational list of what
// the assistant can run.
type CapabilityHandler struct{}

// NewCapabilityHandler builds the capability listing handler.
func NewCapabilityHandler() *CapabilityHandler {
	return &CapabilityHandler{}
}

func (h *CapabilityHandler) Handle(_ context.Context, _ domain.PlannedAction, _ string) domain.ActionResult {
	return domain.ActionResult{
		Status: domain.StatusSuccess,
		Message: strings.Join([]string{
			"I can run these system command families for you:",
			"- tasklist (running processes)",
			"- ipconfig (network configuration)",
			"- systeminfo (machine summary)",
			"- netstat (open connections)",
			"- disk usage reports",
			"Ask in plain language and I'll pick the right command.",
		}, "\n"),
	}
}
