package domain

// RiskLevel enumerates guardrail outcomes.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "safe"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ExecutionMode describes how a risky workflow should proceed.
type ExecutionMode string

const (
	// ModeAutomatic runs low-risk single-phase work without confirmation.
	ModeAutomatic ExecutionMode = "automatic"
	// ModeGuided runs phase by phase, confirming before each phase.
	ModeGuided ExecutionMode = "guided"
	// ModeManual returns step-by-step instructions instead of executing;
	// used for high-risk or admin-required work.
	ModeManual ExecutionMode = "manual"
)

// RiskAssessment aggregates the guardrail's evaluation of a request.
type RiskAssessment struct {
	Level        RiskLevel
	Mode         ExecutionMode
	Reasons      []string
	MatchedRules []string
	RequireAdmin bool
}
