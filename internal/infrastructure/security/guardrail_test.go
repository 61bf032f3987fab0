package security

import (
	"testing"

	"github.com/akhellaf/deskpilot/internal/domain"
)

func TestGuardrailFlagsHighRiskRequests(t *testing.T) {
	guardrail, err := NewGuardrail("")
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	result, err := guardrail.Evaluate("please format disk C: for me")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if result.Level != domain.RiskHigh {
		t.Fatalf("expected high risk, got %+v", result)
	}
	if result.Mode != domain.ModeManual {
		t.Fatalf("expected manual mode for high risk, got %+v", result)
	}
	if !result.RequireAdmin {
		t.Fatalf("expected admin requirement, got %+v", result)
	}
}

func TestGuardrailAllowsSafeRequest(t *testing.T) {
	guardrail, err := NewGuardrail("")
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	result, err := guardrail.Evaluate("open notepad and list my files")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if result.Level != domain.RiskSafe {
		t.Fatalf("expected safe, got %+v", result)
	}
	if result.Mode != domain.ModeAutomatic {
		t.Fatalf("expected automatic mode, got %+v", result)
	}
}

func TestGuardrailMediumRiskUsesGuidedMode(t *testing.T) {
	guardrail, err := NewGuardrail("")
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	result, err := guardrail.Evaluate("restart my computer")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if result.Level != domain.RiskMedium {
		t.Fatalf("expected medium risk, got %+v", result)
	}
	if result.Mode != domain.ModeGuided {
		t.Fatalf("expected guided mode, got %+v", result)
	}
}

func TestGuardrailCollectsAllMatchedReasons(t *testing.T) {
	guardrail, err := NewGuardrail("")
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	result, err := guardrail.Evaluate("delete the registry and disable defender")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if len(result.Reasons) < 2 {
		t.Fatalf("expected reasons from every matched rule, got %+v", result.Reasons)
	}
}
