package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/akhellaf/deskpilot/internal/app"
	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/infrastructure/config"
	"github.com/akhellaf/deskpilot/internal/ports"
)

func newAskCommand(container *app.Container) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ask [natural language]",
		Short: "Handle one request and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return runTurn(ctx, cmd.OutOrStdout(), container, joinArgs(args))
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Override request timeout")
	return cmd
}

func newReplCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), container)
		},
	}
}

// suggestionPattern matches "execute suggestion N" REPL shortcuts.
var suggestionPattern = regexp.MustCompile(`(?i)^(?:execute|run)\s+suggestion\s+(\d+)$`)

func runRepl(ctx context.Context, in io.Reader, out io.Writer, container *app.Container) error {
	name := container.Config.Preferences.AssistantName
	if name == "" {
		name = "DeskPilot"
	}
	fmt.Fprintf(out, "%s ready. Type 'help' for commands, 'exit' to quit.\n", name)

	stopBackups := startBackupLoop(ctx, container.Memory, container.Logger, container.Config.BackupInterval())
	defer stopBackups()

	var lastSuggestions []string
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit", "bye":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "help":
			printReplHelp(out)
			continue
		case "status":
			if report, err := container.Diagnostics.Run(ctx); err == nil {
				renderHealthReport(out, report)
			} else {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			continue
		case "tasks":
			if err := runTasksList(ctx, out, container, false); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			continue
		case "voice":
			fmt.Fprintln(out, "Voice input is not available in this build.")
			continue
		}
		if m := suggestionPattern.FindStringSubmatch(input); m != nil {
			n, _ := strconv.Atoi(m[1])
			if n < 1 || n > len(lastSuggestions) {
				fmt.Fprintf(out, "No suggestion %d to execute.\n", n)
				continue
			}
			input = lastSuggestions[n-1]
		}
		turn, err := handleTurn(ctx, out, container, input)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		lastSuggestions = turn.Suggestions
	}
}

// startBackupLoop writes periodic memory backups while an interactive session
// runs. The returned stop function ends the loop.
func startBackupLoop(ctx context.Context, store ports.MemoryStore, log ports.Logger, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := store.Backup(ctx); err != nil {
					log.Warn("periodic backup failed", map[string]interface{}{"error": err.Error()})
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return func() { close(done) }
}

func printReplHelp(out io.Writer) {
	fmt.Fprintln(out, strings.Join([]string{
		"Commands:",
		"  status                 environment diagnostics",
		"  tasks                  pending reminder tasks",
		"  execute suggestion N   run a proposed follow-up",
		"  exit / quit            leave the session",
		"Anything else is handled as a request.",
	}, "\n"))
}

func runTurn(ctx context.Context, out io.Writer, container *app.Container, input string) error {
	_, err := handleTurn(ctx, out, container, input)
	return err
}

func handleTurn(ctx context.Context, out io.Writer, container *app.Container, input string) (domain.TurnResult, error) {
	spinner := NewSpinner(os.Stderr)
	spinner.Start()
	turn, err := container.Assistant.HandleTurn(ctx, input)
	spinner.Stop()
	if err != nil {
		return domain.TurnResult{}, err
	}
	RenderTurn(out, turn)
	return turn, nil
}

func newStatusCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Diagnostics == nil {
				return fmt.Errorf("diagnostics service unavailable")
			}
			report, err := container.Diagnostics.Run(cmd.Context())
			renderHealthReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func renderHealthReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Details)
	}
}

func newTasksCommand(container *app.Container) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect reminder tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasksList(cmd.Context(), cmd.OutOrStdout(), container, false)
		},
	}

	var all bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasksList(cmd.Context(), cmd.OutOrStdout(), container, all)
		},
	}
	listCmd.Flags().BoolVar(&all, "all", false, "Include completed tasks")

	doneCmd := &cobra.Command{
		Use:   "done <description or id>",
		Short: "Mark a task as completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := container.Memory.CompleteTask(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s\n", task.Description)
			return nil
		},
	}

	tasksCmd.AddCommand(listCmd, doneCmd)
	return tasksCmd
}

func runTasksList(ctx context.Context, out io.Writer, container *app.Container, includeCompleted bool) error {
	pending, err := container.Memory.PendingTasks(ctx)
	if err != nil {
		return err
	}
	RenderTasks(out, "Pending tasks", pending)
	if !includeCompleted {
		return nil
	}
	completed, err := container.Memory.CompletedTasks(ctx)
	if err != nil {
		return err
	}
	RenderTasks(out, "Completed tasks", completed)
	return nil
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect conversation history",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversation turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			turns, err := container.Memory.RecentTurns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, turn := range turns {
				fmt.Fprintf(cmd.OutOrStdout(), "%s | you: %s\n%s | bot: %s\n",
					turn.Timestamp.Format(time.RFC3339),
					turn.UserInput,
					turn.Timestamp.Format(time.RFC3339),
					firstLine(turn.AssistantResponse))
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max turns to show")

	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a memory backup now",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := container.Memory.Backup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		},
	}

	historyCmd.AddCommand(listCmd, backupCmd)
	return historyCmd
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// cacheNamespaces are the namespaces the assistant writes to.
var cacheNamespaces = []string{"task_responses", "plans", "patterns", "app_launch"}

func newCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := container.Cache.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries: %d\nUsed: %d / %d bytes\n", stats.TotalEntries, stats.TotalBytes, stats.MaxBytes)
			for name, ns := range stats.Namespaces {
				fmt.Fprintf(out, "  %s: %d entries, %d bytes\n", name, ns.Count, ns.Bytes)
			}
			return nil
		},
	}

	var namespace string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			namespaces := cacheNamespaces
			if namespace != "" {
				namespaces = []string{namespace}
			}
			for _, ns := range namespaces {
				if err := container.Cache.Clear(ns); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	}
	clearCmd.Flags().StringVar(&namespace, "namespace", "", "Clear only one namespace")

	cacheCmd.AddCommand(statsCmd, clearCmd)
	return cacheCmd
}

func newConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect DeskPilot configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	var key string
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Get a specific configuration value",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return fmt.Errorf("--key is required")
			}
			return runConfigGet(cmd.Context(), cmd.OutOrStdout(), container, key)
		},
	}
	getCmd.Flags().StringVar(&key, "key", "", "Key path (e.g., llm.model)")

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := strings.Join(args[1:], " ")
			return runConfigSet(cmd.Context(), container, key, value)
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigEdit(container)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.ConfigLoader.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := configLoader(container)
			if err != nil {
				return err
			}
			cfg, err := loader.Reset()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration reset at %s\n", loader.Path())
			data, _ := yaml.Marshal(cfg)
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	configCmd.AddCommand(showCmd, getCmd, setCmd, editCmd, validateCmd, resetCmd)
	return configCmd
}

func runConfigShow(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigLoader.Load(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigGet(ctx context.Context, out io.Writer, container *app.Container, key string) error {
	cfg, err := container.ConfigLoader.Load(ctx)
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return err
	}
	value, ok := traverseKey(generic, strings.Split(key, "."))
	if !ok {
		return fmt.Errorf("key %s not found", key)
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

func traverseKey(data interface{}, path []string) (interface{}, bool) {
	if len(path) == 0 {
		return data, true
	}
	switch node := data.(type) {
	case map[string]interface{}:
		next, ok := node[path[0]]
		if !ok {
			return nil, false
		}
		return traverseKey(next, path[1:])
	default:
		return nil, false
	}
}

func runConfigSet(ctx context.Context, container *app.Container, key, value string) error {
	loader, err := configLoader(container)
	if err != nil {
		return err
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	cfgMap := map[string]interface{}{}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, &cfgMap); err != nil {
		return err
	}

	parsedValue, err := parseValue(value)
	if err != nil {
		return err
	}
	if !setMapValue(cfgMap, strings.Split(key, "."), parsedValue) {
		return fmt.Errorf("unable to set key %s", key)
	}

	updatedRaw, err := yaml.Marshal(cfgMap)
	if err != nil {
		return err
	}

	var updated domain.Config
	if err := yaml.Unmarshal(updatedRaw, &updated); err != nil {
		return err
	}

	return loader.Save(updated)
}

func runConfigEdit(container *app.Container) error {
	loader, err := configLoader(container)
	if err != nil {
		return err
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, loader.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func configLoader(container *app.Container) (*config.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, fmt.Errorf("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

func parseValue(input string) (interface{}, error) {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input, nil
	}
	return parsed, nil
}

func setMapValue(root map[string]interface{}, path []string, value interface{}) bool {
	if len(path) == 0 {
		return false
	}
	current := root
	for i := 0; i < len(path)-1; i++ {
		key := path[i]
		next, ok := current[key]
		if !ok {
			newChild := map[string]interface{}{}
			current[key] = newChild
			current = newChild
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			current[key] = child
		}
		current = child
	}
	current[path[len(path)-1]] = value
	return true
}
