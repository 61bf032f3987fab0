// Package app wires the dependency graph behind the CLI.
package app

import (
	"context"
	"net/http"

	"github.com/akhellaf/deskpilot/internal/dispatch"
	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/infrastructure/apps"
	"github.com/akhellaf/deskpilot/internal/infrastructure/automation"
	"github.com/akhellaf/deskpilot/internal/infrastructure/cache"
	"github.com/akhellaf/deskpilot/internal/infrastructure/config"
	"github.com/akhellaf/deskpilot/internal/infrastructure/executor"
	"github.com/akhellaf/deskpilot/internal/infrastructure/llm"
	"github.com/akhellaf/deskpilot/internal/infrastructure/memory"
	"github.com/akhellaf/deskpilot/internal/infrastructure/security"
	"github.com/akhellaf/deskpilot/internal/infrastructure/sysinfo"
	"github.com/akhellaf/deskpilot/internal/infrastructure/wifi"
	"github.com/akhellaf/deskpilot/internal/intent"
	"github.com/akhellaf/deskpilot/internal/pkg/logger"
	"github.com/akhellaf/deskpilot/internal/planner"
	"github.com/akhellaf/deskpilot/internal/ports"
	"github.com/akhellaf/deskpilot/internal/services"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Assistant    *services.AssistantService
	Diagnostics  *services.DiagnosticsService
	Cache        ports.ResponseCache
	Memory       ports.MemoryStore
	LLM          ports.LLMClient
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph. The prompter may be nil for
// non-interactive use; medium-risk work then runs without confirmation.
func BuildContainer(ctx context.Context, verbose bool, prompter ports.ConfirmationPrompter) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	responseCache, err := cache.New(cfg.Cache.Dir, cfg.CacheMaxBytes(), cfg.RecentWindow())
	if err != nil {
		return nil, err
	}
	store := memory.NewStore(cfg.Memory.Path, cfg.Memory.BackupDir, cfg.BackupKeep())

	llmClient := llm.NewOllamaClient(cfg.LLMHost(), cfg.LLMModel(), &http.Client{Timeout: cfg.LLMTimeout()})

	exec := executor.New(cfg.Execution.Shell, cfg.CommandTimeout())
	auto := automation.NewShell(exec, log)
	launcher := apps.NewLauncher(exec, auto, responseCache, log, cfg.LaunchWait())
	collector := sysinfo.New(store, log)
	scanner := wifi.NewScanner(exec, log)

	var guard ports.SecurityService
	if cfg.IsSecurityEnabled() {
		guardrail, err := security.NewGuardrail(cfg.Security.RulesFile)
		if err != nil {
			guardrail, err = security.NewGuardrail("")
			if err != nil {
				return nil, err
			}
		}
		guard = guardrail
	}
	if !cfg.ShouldConfirmBeforeExecution() {
		prompter = nil
	}

	matcher := intent.NewMatcher()
	plannerSvc := planner.New(llmClient, matcher, log, cfg.ContextWindow(), cfg.LLMMaxRetries())
	if cfg.Cache.Enabled {
		plannerSvc.AttachCache(responseCache, cfg.PatternTTL())
	}

	dispatcher := dispatch.New(guard, prompter, log)
	registerHandlers(dispatcher, handlerDeps{
		files:        dispatch.NewFileHandler(log),
		tasks:        dispatch.NewTaskHandler(store, log),
		apps:         dispatch.NewAppHandler(launcher, log),
		shell:        dispatch.NewShellHandler(exec),
		analysis:     dispatch.NewAnalysisHandler(collector),
		wifi:         dispatch.NewWifiHandler(scanner),
		automation:   dispatch.NewAutomationHandler(auto),
		wincmd:       dispatch.NewWindowsCommandHandler(llmClient, exec, log),
		capability:   dispatch.NewCapabilityHandler(),
		organize:     dispatch.NewOrganizeHandler(llmClient, log),
		cleanup:      dispatch.NewCleanupHandler(collector),
		productivity: dispatch.NewProductivityHandler(llmClient, collector, log),
		question:     dispatch.NewQuestionHandler(llmClient, store, log),
	})

	assistant := &services.AssistantService{
		Config:    cfg,
		Planner:   plannerSvc,
		Dispatch:  dispatcher,
		Cache:     responseCache,
		Memory:    store,
		Collector: collector,
		Logger:    log,
	}

	diagnostics := &services.DiagnosticsService{
		ConfigProvider: cfgLoader,
		LLM:            llmClient,
		Security:       guard,
		Cache:          responseCache,
		Memory:         store,
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Assistant:    assistant,
		Diagnostics:  diagnostics,
		Cache:        responseCache,
		Memory:       store,
		LLM:          llmClient,
		Logger:       log,
	}, nil
}

// Close releases resources held by long-lived adapters.
func (c *Container) Close() error {
	if c.Memory != nil {
		return c.Memory.Close()
	}
	return nil
}

type handlerDeps struct {
	files        ports.ActionHandler
	tasks        ports.ActionHandler
	apps         ports.ActionHandler
	shell        ports.ActionHandler
	analysis     ports.ActionHandler
	wifi         ports.ActionHandler
	automation   ports.ActionHandler
	wincmd       ports.ActionHandler
	capability   ports.ActionHandler
	organize     ports.ActionHandler
	cleanup      ports.ActionHandler
	productivity ports.ActionHandler
	question     ports.ActionHandler
}

func registerHandlers(d *dispatch.Dispatcher, deps handlerDeps) {
	d.Register(domain.IntentCreateFile, deps.files)
	d.Register(domain.IntentReadFile, deps.files)
	d.Register(domain.IntentListDirectory, deps.files)
	d.Register(domain.IntentAddTask, deps.tasks)
	d.Register(domain.IntentCompleteTask, deps.tasks)
	d.Register(domain.IntentOpenApp, deps.apps)
	d.Register(domain.IntentCloseApp, deps.apps)
	d.Register(domain.IntentRunCommand, deps.shell)
	d.Register(domain.IntentAnalyzeSystem, deps.analysis)
	d.Register(domain.IntentScanWifi, deps.wifi)
	d.Register(domain.IntentScanAvailableWifi, deps.wifi)
	d.Register(domain.IntentKeyboardShortcut, deps.automation)
	d.Register(domain.IntentComputerAutomation, deps.automation)
	d.Register(domain.IntentScreenAnalysis, deps.automation)
	d.Register(domain.IntentWebAutomation, deps.automation)
	d.Register(domain.IntentTaskAutomation, deps.automation)
	d.Register(domain.IntentWindowsCommand, deps.wincmd)
	d.Register(domain.IntentSystemCommands, deps.capability)
	d.Register(domain.IntentOrganizeFiles, deps.organize)
	d.Register(domain.IntentSystemCleanup, deps.cleanup)
	d.Register(domain.IntentProductivityBoost, deps.productivity)
	d.Register(domain.IntentGeneralQuestion, deps.question)
}
