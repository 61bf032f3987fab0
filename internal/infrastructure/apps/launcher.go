// Package apps opens and closes desktop applications through a chain of
// launch strategies.
package apps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

const cacheNamespace = "app_launch"

// Known executable names for common app aliases.
var executables = map[string]string{
	"notepad":    "notepad.exe",
	"calculator": "calc.exe",
	"calc":       "calc.exe",
	"paint":      "mspaint.exe",
	"explorer":   "explorer.exe",
	"chrome":     "chrome.exe",
	"edge":       "msedge.exe",
	"firefox":    "firefox.exe",
	"word":       "winword.exe",
	"excel":      "excel.exe",
	"terminal":   "wt.exe",
	"cmd":        "cmd.exe",
}

// Dedicated global shortcuts for a few apps.
var shortcuts = map[string][]string{
	"explorer": {"win", "e"},
	"settings": {"win", "i"},
}

// Launcher tries a fixed strategy chain per app and remembers the strategy
// that worked so the next launch goes straight to it.
type Launcher struct {
	executor   ports.CommandExecutor
	automation ports.Automation
	cache      ports.ResponseCache
	logger     ports.Logger
	wait       time.Duration
}

// NewLauncher builds a launcher. cache may be nil; strategies are then
// re-probed on every launch.
func NewLauncher(executor ports.CommandExecutor, automation ports.Automation, cache ports.ResponseCache, logger ports.Logger, wait time.Duration) *Launcher {
	if wait <= 0 {
		wait = domain.DefaultLaunchWait
	}
	return &Launcher{executor: executor, automation: automation, cache: cache, logger: logger, wait: wait}
}

type strategy struct {
	name string
	run  func(ctx context.Context, app string) error
}

func (l *Launcher) strategies() []strategy {
	return []strategy{
		{"keyboard_shortcut", l.byShortcut},
		{"direct_executable", l.byExecutable},
		{"start_command", l.byStartCommand},
		{"search_and_launch", l.bySearch},
	}
}

// Open implements ports.AppLauncher. The cached last-good strategy is tried
// first; on a fresh success the winning strategy is cached for a day.
func (l *Launcher) Open(ctx context.Context, app string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(app))
	chain := l.strategies()

	if cached, ok := l.cachedStrategy(normalized); ok {
		for _, s := range chain {
			if s.name != cached {
				continue
			}
			if err := s.run(ctx, normalized); err == nil {
				return s.name, nil
			}
			l.logger.Debug("cached launch strategy failed", map[string]interface{}{
				"app":      normalized,
				"strategy": s.name,
			})
			break
		}
	}

	var lastErr error
	for _, s := range chain {
		if err := s.run(ctx, normalized); err != nil {
			lastErr = err
			continue
		}
		l.rememberStrategy(normalized, s.name)
		return s.name, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no launch strategy available")
	}
	return "", fmt.Errorf("launch %s: %w", app, lastErr)
}

// Close implements ports.AppLauncher.
func (l *Launcher) Close(ctx context.Context, app string) error {
	normalized := strings.ToLower(strings.TrimSpace(app))
	exe, ok := executables[normalized]
	if !ok {
		exe = normalized + ".exe"
	}
	result, err := l.executor.Execute(ctx, fmt.Sprintf("taskkill /IM %s /F", exe))
	if err != nil {
		return fmt.Errorf("close %s: %w", app, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("close %s: %s", app, strings.TrimSpace(result.Output()))
	}
	return nil
}

func (l *Launcher) byShortcut(ctx context.Context, app string) error {
	keys, ok := shortcuts[app]
	if !ok {
		return fmt.Errorf("no shortcut for %s", app)
	}
	if l.automation == nil {
		return fmt.Errorf("automation unavailable")
	}
	if err := l.automation.SendKeys(ctx, keys); err != nil {
		return err
	}
	return l.settle(ctx)
}

func (l *Launcher) byExecutable(ctx context.Context, app string) error {
	exe, ok := executables[app]
	if !ok {
		return fmt.Errorf("no known executable for %s", app)
	}
	result, err := l.executor.Execute(ctx, fmt.Sprintf(`start "" %s`, exe))
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("executable launch exited %d", result.ExitCode)
	}
	return l.settle(ctx)
}

func (l *Launcher) byStartCommand(ctx context.Context, app string) error {
	result, err := l.executor.Execute(ctx, fmt.Sprintf(`start "" "%s"`, app))
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("start command exited %d", result.ExitCode)
	}
	return l.settle(ctx)
}

// bySearch drives the start-menu search: open it, type the app name, enter.
func (l *Launcher) bySearch(ctx context.Context, app string) error {
	if l.automation == nil {
		return fmt.Errorf("automation unavailable")
	}
	if err := l.automation.SendKeys(ctx, []string{"win"}); err != nil {
		return err
	}
	if err := l.automation.TypeText(ctx, app); err != nil {
		return err
	}
	if err := l.automation.SendKeys(ctx, []string{"enter"}); err != nil {
		return err
	}
	return l.settle(ctx)
}

func (l *Launcher) settle(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(l.wait):
		return nil
	}
}

func (l *Launcher) cachedStrategy(app string) (string, bool) {
	if l.cache == nil {
		return "", false
	}
	var name string
	ok, err := l.cache.Get(cacheNamespace, app, &name)
	if err != nil || !ok {
		return "", false
	}
	return name, true
}

func (l *Launcher) rememberStrategy(app, name string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Set(cacheNamespace, app, name, domain.DefaultStrategyTTL); err != nil {
		l.logger.Debug("strategy cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

var _ ports.AppLauncher = (*Launcher)(nil)
