package domain

import "time"

// LLMHost returns the configured model endpoint, defaulting to the local
// Ollama address.
func (c *Config) LLMHost() string {
	if c.LLM.Host == "" {
		return "http://localhost:11434"
	}
	return c.LLM.Host
}

// LLMModel returns the configured model name.
func (c *Config) LLMModel() string {
	if c.LLM.Model == "" {
		return "llama3.2"
	}
	return c.LLM.Model
}

// LLMTimeout returns the per-request model timeout.
func (c *Config) LLMTimeout() time.Duration {
	if c.LLM.TimeoutSecs <= 0 {
		return DefaultLLMTimeout
	}
	return time.Duration(c.LLM.TimeoutSecs) * time.Second
}

// LLMMaxRetries returns the planning retry budget.
func (c *Config) LLMMaxRetries() int {
	if c.LLM.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return c.LLM.MaxRetries
}

// ContextWindow returns how many recent conversation turns feed the planner.
func (c *Config) ContextWindow() int {
	if c.Preferences.ContextWindow <= 0 {
		return DefaultContextWindow
	}
	return c.Preferences.ContextWindow
}

// CacheMaxBytes returns the cache size budget in bytes.
func (c *Config) CacheMaxBytes() int64 {
	mb := c.Cache.MaxSizeMB
	if mb <= 0 {
		mb = DefaultCacheMaxSizeMB
	}
	return int64(mb) * 1024 * 1024
}

// ResponseTTL returns the task-response cache lifetime.
func (c *Config) ResponseTTL() time.Duration {
	if c.Cache.ResponseTTLSeconds <= 0 {
		return DefaultResponseTTL
	}
	return time.Duration(c.Cache.ResponseTTLSeconds) * time.Second
}

// PatternTTL returns the pattern/recent-input cache lifetime.
func (c *Config) PatternTTL() time.Duration {
	if c.Cache.PatternTTLSeconds <= 0 {
		return DefaultPatternTTL
	}
	return time.Duration(c.Cache.PatternTTLSeconds) * time.Second
}

// SimilarityThreshold returns the fuzzy-reuse cutoff for cached responses.
func (c *Config) SimilarityThreshold() float64 {
	if c.Cache.SimilarityThreshold <= 0 {
		return DefaultSimilarityThreshold
	}
	return c.Cache.SimilarityThreshold
}

// RecentWindow returns how many recent inputs the similarity index keeps.
func (c *Config) RecentWindow() int {
	if c.Cache.RecentWindow <= 0 {
		return DefaultRecentWindow
	}
	return c.Cache.RecentWindow
}

// BackupKeep returns how many memory backups to retain.
func (c *Config) BackupKeep() int {
	if c.Memory.BackupKeep <= 0 {
		return DefaultBackupKeep
	}
	return c.Memory.BackupKeep
}

// BackupInterval returns the automatic memory backup cadence.
func (c *Config) BackupInterval() time.Duration {
	if c.Memory.BackupMinutes <= 0 {
		return DefaultBackupInterval
	}
	return time.Duration(c.Memory.BackupMinutes) * time.Minute
}

// IsSecurityEnabled checks if security guardrails are enabled.
func (c *Config) IsSecurityEnabled() bool {
	return c.Security.Enabled
}

// ShouldConfirmBeforeExecution checks if user confirmation is required
// before running medium-risk work.
func (c *Config) ShouldConfirmBeforeExecution() bool {
	return c.Execution.ConfirmBeforeExecute
}

// CommandTimeout returns the per-command execution timeout.
func (c *Config) CommandTimeout() time.Duration {
	if c.Execution.CommandTimeout <= 0 {
		return DefaultCommandTimeout
	}
	return time.Duration(c.Execution.CommandTimeout) * time.Second
}

// LaunchWait returns how long to wait for an application to appear after a
// launch attempt.
func (c *Config) LaunchWait() time.Duration {
	if c.Automation.LaunchWaitSeconds <= 0 {
		return DefaultLaunchWait
	}
	return time.Duration(c.Automation.LaunchWaitSeconds) * time.Second
}
