package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultLLMTimeout bounds one model generation call
	DefaultLLMTimeout = 60 * time.Second
	// DefaultCommandTimeout bounds one shell command
	DefaultCommandTimeout = 30 * time.Second
	// DefaultLaunchWait is how long to wait after an app launch attempt
	DefaultLaunchWait = 3 * time.Second
	// DefaultBackupInterval is the memory backup cadence
	DefaultBackupInterval = time.Hour
)

// Cache constants
const (
	// DefaultCacheMaxSizeMB is the cache size budget
	DefaultCacheMaxSizeMB = 100
	// DefaultResponseTTL is the lifetime of cached turn responses
	DefaultResponseTTL = time.Hour
	// DefaultPatternTTL is the lifetime of pattern and recent-input entries
	DefaultPatternTTL = 24 * time.Hour
	// DefaultPlanTTL is the lifetime of cached execution plans
	DefaultPlanTTL = 2 * time.Hour
	// DefaultStrategyTTL is the lifetime of a cached app launch strategy
	DefaultStrategyTTL = 24 * time.Hour
	// DefaultSimilarityThreshold is the fuzzy-reuse cutoff
	DefaultSimilarityThreshold = 0.7
	// DefaultRecentWindow is how many recent inputs feed similarity lookup
	DefaultRecentWindow = 50
	// EvictionTargetRatio is how far below budget eviction trims the cache
	EvictionTargetRatio = 0.8
)

// Planner constants
const (
	// DefaultContextWindow is how many recent turns feed the prompt
	DefaultContextWindow = 5
	// DefaultMaxRetries is the retry budget for model calls
	DefaultMaxRetries = 2
	// ShortInputMaxWords bounds agreement/negative bypass detection
	ShortInputMaxWords = 3
)

// Memory constants
const (
	// DefaultBackupKeep is how many memory backups to retain
	DefaultBackupKeep = 20
	// DefaultHistoryLimit is the default number of turns to display
	DefaultHistoryLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
