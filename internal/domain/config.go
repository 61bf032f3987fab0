package domain

// Config mirrors ~/.deskpilot/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Preferences         Preferences        `yaml:"preferences"`
	LLM                 LLMSettings        `yaml:"llm"`
	Cache               CacheSettings      `yaml:"cache"`
	Memory              MemorySettings     `yaml:"memory"`
	Security            SecuritySettings   `yaml:"security"`
	Execution           ExecutionSettings  `yaml:"execution"`
	Automation          AutomationSettings `yaml:"automation"`
}

// Preferences captures user level toggles.
type Preferences struct {
	AssistantName  string `yaml:"assistant_name"`
	ContextWindow  int    `yaml:"context_window"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// LLMSettings configures the local model endpoint.
type LLMSettings struct {
	Host        string `yaml:"host"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout"`
	MaxRetries  int    `yaml:"max_retries"`
}

// CacheSettings controls the on-disk response cache.
type CacheSettings struct {
	Enabled             bool    `yaml:"enabled"`
	Dir                 string  `yaml:"dir"`
	MaxSizeMB           int     `yaml:"max_size_mb"`
	ResponseTTLSeconds  int     `yaml:"response_ttl"`
	PatternTTLSeconds   int     `yaml:"pattern_ttl"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	RecentWindow        int     `yaml:"recent_window"`
}

// MemorySettings controls conversation and task persistence.
type MemorySettings struct {
	Path          string `yaml:"path"`
	BackupDir     string `yaml:"backup_dir"`
	BackupKeep    int    `yaml:"backup_keep"`
	BackupMinutes int    `yaml:"backup_interval_minutes"`
}

// SecuritySettings defines guardrail behavior.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// ExecutionSettings controls how shell commands run.
type ExecutionSettings struct {
	Shell                string `yaml:"shell"`
	ConfirmBeforeExecute bool   `yaml:"confirm_before_execute"`
	CommandTimeout       int    `yaml:"command_timeout"`
}

// AutomationSettings tunes desktop automation behavior.
type AutomationSettings struct {
	LaunchWaitSeconds int  `yaml:"launch_wait_seconds"`
	Failsafe          bool `yaml:"failsafe"`
}
