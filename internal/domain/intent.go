// Package domain defines core business entities and value objects for DeskPilot.
//
// The domain layer is independent of infrastructure concerns and represents
// pure data structures shared by the pipeline stages: intent resolution,
// planning, dispatch and response composition.
package domain

// IntentLabel enumerates the fixed set of intents the pattern matcher and the
// LLM classifier can produce. The dispatcher maps each label to one handler.
type IntentLabel string

const (
	IntentOpenApp            IntentLabel = "open_app"
	IntentCloseApp           IntentLabel = "close_app"
	IntentCreateFile         IntentLabel = "create_file"
	IntentReadFile           IntentLabel = "read_file"
	IntentListDirectory      IntentLabel = "list_directory"
	IntentRunCommand         IntentLabel = "run_command"
	IntentAddTask            IntentLabel = "add_task"
	IntentCompleteTask       IntentLabel = "complete_task"
	IntentAnalyzeSystem      IntentLabel = "analyze_system"
	IntentScanWifi           IntentLabel = "scan_wifi"
	IntentScanAvailableWifi  IntentLabel = "scan_available_wifi"
	IntentWindowsCommand     IntentLabel = "windows_command"
	IntentKeyboardShortcut   IntentLabel = "keyboard_shortcut"
	IntentComputerAutomation IntentLabel = "computer_automation"
	IntentScreenAnalysis     IntentLabel = "screen_analysis"
	IntentWebAutomation      IntentLabel = "web_automation"
	IntentTaskAutomation     IntentLabel = "task_automation"
	IntentSystemCommands     IntentLabel = "system_commands"
	IntentOrganizeFiles      IntentLabel = "organize_files"
	IntentSystemCleanup      IntentLabel = "system_cleanup"
	IntentProductivityBoost  IntentLabel = "productivity_boost"
	IntentGeneralQuestion    IntentLabel = "general_question"
)

// IntentSource records which stage resolved the intent.
type IntentSource string

const (
	SourcePattern  IntentSource = "pattern"
	SourceLLM      IntentSource = "llm"
	SourceFallback IntentSource = "fallback"
)

// Intent is the result of classifying one user turn. It is created per turn,
// consumed immediately and never persisted.
type Intent struct {
	Label      IntentLabel  `json:"intent"`
	Entity     string       `json:"entity"`
	Confidence float64      `json:"confidence"`
	Source     IntentSource `json:"source"`
}

// Executable reports whether the intent maps to a dispatchable action rather
// than a conversational reply.
func (i Intent) Executable() bool {
	return i.Label != IntentGeneralQuestion && i.Label != ""
}
