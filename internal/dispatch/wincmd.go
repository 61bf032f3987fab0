package dispatch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// commandFamily maps a request style to a primary command and a deterministic
// fallback that answers the same question through a different tool.
type commandFamily struct {
	match    *regexp.Regexp
	primary  string
	fallback string
}

var commandFamilies = []commandFamily{
	{regexp.MustCompile(`(?i)\bprocess|running|tasklist\b`), "tasklist", "wmic process get name,processid,workingsetsize"},
	{regexp.MustCompile(`(?i)\bip\b|network|ipconfig`), "ipconfig /all", "netsh interface show interface"},
	{regexp.MustCompile(`(?i)system\s*info|systeminfo|\bspecs\b|\bversion\b`), "systeminfo", "wmic os get caption,version,osarchitecture"},
	{regexp.MustCompile(`(?i)connections?|\bports?\b|netstat`), "netstat -an", "netsh interface show interface"},
	{regexp.MustCompile(`(?i)\bdisk\b|storage|space`), "wmic logicaldisk get caption,size,freespace", "fsutil volume diskfree c:"},
}

// WindowsCommandHandler is the single system-command expert: it resolves a
// natural-language request into one concrete command, executes it and falls
// back to a fixed sibling command when the primary fails.
type WindowsCommandHandler struct {
	llm      ports.LLMClient
	executor ports.CommandExecutor
	logger   ports.Logger
}

// NewWindowsCommandHandler builds the system-command expert.
func NewWindowsCommandHandler(llm ports.LLMClient, executor ports.CommandExecutor, logger ports.Logger) *WindowsCommandHandler {
	return &WindowsCommandHandler{llm: llm, executor: executor, logger: logger}
}

// PlanCommand implements ports.CommandPlanner. The model proposes a command
// when reachable; the family table supplies both the offline primary and the
// failure fallback.
func (h *WindowsCommandHandler) PlanCommand(ctx context.Context, request string) (string, string, error) {
	family, hasFamily := matchFamily(request)

	if h.llm != nil && h.llm.Available(ctx) {
		raw, err := h.llm.Generate(ctx, ports.GenerateRequest{
			Prompt: fmt.Sprintf("Request: %s", request),
			System: "You translate requests into exactly one safe, read-only Windows command. " +
				"Reply with the command only, no explanation, no code fences.",
		})
		if err == nil {
			if command := sanitizeCommand(raw); command != "" {
				if hasFamily {
					return command, family.fallback, nil
				}
				return command, "", nil
			}
		} else {
			h.logger.Warn("command planning via model failed", map[string]interface{}{"error": err.Error()})
		}
	}

	if hasFamily {
		return family.primary, family.fallback, nil
	}
	return "", "", errors.New("no command family matches the request")
}

func (h *WindowsCommandHandler) Handle(ctx context.Context, action domain.PlannedAction, input string) domain.ActionResult {
	request := strings.TrimSpace(action.Target)
	if request == "" {
		request = input
	}

	command, fallback, err := h.PlanCommand(ctx, request)
	if err != nil {
		return domain.ErrorResult(fmt.Sprintf("I couldn't find a command for that: %v", err))
	}

	result, runErr := h.executor.Execute(ctx, command)
	usedFallback := false
	if (runErr != nil || result.ExitCode != 0) && fallback != "" {
		h.logger.Warn("primary command failed, trying fallback", map[string]interface{}{
			"command":  command,
			"fallback": fallback,
		})
		result, runErr = h.executor.Execute(ctx, fallback)
		command = fallback
		usedFallback = true
	}
	if runErr != nil {
		return domain.ErrorResult(fmt.Sprintf("Command failed: %v", runErr))
	}
	if result.ExitCode != 0 {
		return domain.ErrorResult(fmt.Sprintf("Command exited with code %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr)))
	}

	return domain.ActionResult{
		Status:  domain.StatusSuccess,
		Message: strings.TrimSpace(result.Output()),
		Payload: map[string]any{
			"command":       command,
			"used_fallback": usedFallback,
		},
	}
}

func matchFamily(request string) (commandFamily, bool) {
	for _, family := range commandFamilies {
		if family.match.MatchString(request) {
			return family, true
		}
	}
	return commandFamily{}, false
}

// sanitizeCommand strips code fences and keeps the first non-empty line.
func sanitizeCommand(raw string) string {
	raw = strings.ReplaceAll(raw, "```", "")
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

var _ ports.CommandPlanner = (*WindowsCommandHandler)(nil)
var _ ports.ActionHandler = (*WindowsCommandHandler)(nil)
