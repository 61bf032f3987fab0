// Package security implements the risk policy applied to user requests
// before any action executes.
package security

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/akhellaf/deskpilot/assets"
	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/pkg/filesystem"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// Guardrail implements the SecurityService port with an ordered regex rule
// table. Rules come from a YAML file when configured, otherwise from the
// embedded defaults.
type Guardrail struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule RiskPattern
}

// RiskPattern describes a regex-based risk rule.
type RiskPattern struct {
	Pattern      string `yaml:"pattern"`
	Level        string `yaml:"level"`
	Message      string `yaml:"message"`
	RequireAdmin bool   `yaml:"require_admin"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		RiskPatterns []RiskPattern `yaml:"risk_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads risk rules from disk, falling back to the embedded
// defaults when the path is empty or unreadable.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	var compiled []compiledPattern
	for _, pattern := range rules.Rules.RiskPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}

	return &Guardrail{patterns: compiled}, nil
}

// Evaluate implements ports.SecurityService. Every matching rule contributes
// a reason; the highest matched level decides the execution mode.
func (g *Guardrail) Evaluate(request string) (domain.RiskAssessment, error) {
	if g == nil {
		return domain.RiskAssessment{}, errors.New("guardrail nil")
	}
	assessment := domain.RiskAssessment{
		Level: domain.RiskSafe,
		Mode:  domain.ModeAutomatic,
	}
	for _, pattern := range g.patterns {
		if !pattern.re.MatchString(request) {
			continue
		}
		ruleLevel := parseRiskLevel(pattern.rule.Level)
		if moreSevere(ruleLevel, assessment.Level) {
			assessment.Level = ruleLevel
		}
		if pattern.rule.RequireAdmin {
			assessment.RequireAdmin = true
		}
		assessment.Reasons = append(assessment.Reasons, pattern.rule.Message)
		assessment.MatchedRules = append(assessment.MatchedRules, pattern.rule.Pattern)
	}
	assessment.Mode = modeFor(assessment)
	return assessment, nil
}

func modeFor(a domain.RiskAssessment) domain.ExecutionMode {
	if a.Level == domain.RiskHigh || a.RequireAdmin {
		return domain.ModeManual
	}
	if a.Level == domain.RiskMedium {
		return domain.ModeGuided
	}
	return domain.ModeAutomatic
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	if path != "" {
		path = expandPath(path)
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &rules); err != nil {
				return RulesFile{}, err
			}
			if len(rules.Rules.RiskPatterns) > 0 {
				return rules, nil
			}
		}
	}
	if err := yaml.Unmarshal(assets.DefaultRulesYAML, &rules); err != nil {
		return RulesFile{}, err
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	default:
		return domain.RiskSafe
	}
}

func moreSevere(next domain.RiskLevel, current domain.RiskLevel) bool {
	order := map[domain.RiskLevel]int{
		domain.RiskSafe:   0,
		domain.RiskLow:    1,
		domain.RiskMedium: 2,
		domain.RiskHigh:   3,
	}
	return order[next] > order[current]
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.SecurityService = (*Guardrail)(nil)
