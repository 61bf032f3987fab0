package services

import (
	"context"
	"fmt"
	"os"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// DiagnosticsService runs environment diagnostics for the status command.
type DiagnosticsService struct {
	ConfigProvider ports.ConfigProvider
	LLM            ports.LLMClient
	Security       ports.SecurityService
	Cache          ports.ResponseCache
	Memory         ports.MemoryStore
}

// Run executes checks and returns a report.
func (s *DiagnosticsService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	if s.LLM != nil {
		if s.LLM.Available(ctx) {
			checks = append(checks, ok("Model endpoint", fmt.Sprintf("%s reachable (model %s)", cfg.LLMHost(), cfg.LLMModel())))
		} else {
			checks = append(checks, warn("Model endpoint", fmt.Sprintf("%s unreachable, pattern planning only", cfg.LLMHost())))
		}
	}

	if s.Security != nil {
		if _, err := s.Security.Evaluate("open notepad"); err != nil {
			checks = append(checks, fail("Risk rules", err.Error()))
		} else {
			checks = append(checks, ok("Risk rules", "loaded"))
		}
	} else {
		checks = append(checks, warn("Risk rules", "security service not initialized"))
	}

	if s.Cache != nil {
		if stats, err := s.Cache.Stats(); err == nil {
			checks = append(checks, ok("Response cache", fmt.Sprintf("%d entries, %d bytes used", stats.TotalEntries, stats.TotalBytes)))
		} else {
			checks = append(checks, warn("Response cache", err.Error()))
		}
	}

	if s.Memory != nil {
		pending, err := s.Memory.PendingTasks(ctx)
		if err != nil {
			checks = append(checks, warn("Memory store", err.Error()))
		} else {
			checks = append(checks, ok("Memory store", fmt.Sprintf("%d pending tasks", len(pending))))
		}
	}

	checks = append(checks, memoryFileCheck(cfg.Memory.Path))
	return domain.HealthReport{Checks: checks}, nil
}

func memoryFileCheck(path string) domain.HealthCheck {
	if path == "" {
		return warn("Memory file", "memory.path not configured")
	}
	if _, err := os.Stat(path); err != nil {
		return warn("Memory file", fmt.Sprintf("not created yet at %s", path))
	}
	return ok("Memory file", path)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
