package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/pkg/logger"
	"github.com/akhellaf/deskpilot/internal/ports"
)

type scriptedExecutor struct {
	results map[string]domain.ExecutionResult
	errs    map[string]error
	ran     []string
}

func (e *scriptedExecutor) Execute(_ context.Context, command string) (domain.ExecutionResult, error) {
	e.ran = append(e.ran, command)
	if err, ok := e.errs[command]; ok {
		return domain.ExecutionResult{}, err
	}
	if res, ok := e.results[command]; ok {
		return res, nil
	}
	return domain.ExecutionResult{Ran: true, Stdout: "ok"}, nil
}

type offlineLLM struct{}

func (offlineLLM) Generate(context.Context, ports.GenerateRequest) (string, error) {
	return "", errors.New("offline")
}
func (offlineLLM) Available(context.Context) bool { return false }

func TestWindowsCommandUsesFamilyWhenOffline(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]domain.ExecutionResult{
		"tasklist": {Ran: true, Stdout: "chrome.exe  1234"},
	}}
	h := NewWindowsCommandHandler(offlineLLM{}, exec, logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentWindowsCommand,
		Target: "show running processes",
	}, "")

	require.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, []string{"tasklist"}, exec.ran)
	assert.Equal(t, false, result.Payload["used_fallback"])
}

func TestWindowsCommandFallsBackAndReportsIt(t *testing.T) {
	exec := &scriptedExecutor{
		errs: map[string]error{"tasklist": errors.New("not recognized")},
		results: map[string]domain.ExecutionResult{
			"wmic process get name,processid,workingsetsize": {Ran: true, Stdout: "chrome.exe 1234"},
		},
	}
	h := NewWindowsCommandHandler(offlineLLM{}, exec, logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentWindowsCommand,
		Target: "list running processes",
	}, "")

	require.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, true, result.Payload["used_fallback"])
	assert.Len(t, exec.ran, 2)
}

func TestWindowsCommandBothAttemptsFailing(t *testing.T) {
	exec := &scriptedExecutor{errs: map[string]error{
		"tasklist": errors.New("broken"),
		"wmic process get name,processid,workingsetsize": errors.New("also broken"),
	}}
	h := NewWindowsCommandHandler(offlineLLM{}, exec, logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentWindowsCommand,
		Target: "list running processes",
	}, "")

	assert.Equal(t, domain.StatusError, result.Status)
}

func TestWindowsCommandUnknownRequestFails(t *testing.T) {
	h := NewWindowsCommandHandler(offlineLLM{}, &scriptedExecutor{}, logger.Nop{})
	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentWindowsCommand,
		Target: "bake a cake",
	}, "")
	assert.Equal(t, domain.StatusError, result.Status)
}

type cannedLLM struct {
	response string
}

func (c cannedLLM) Generate(context.Context, ports.GenerateRequest) (string, error) {
	return c.response, nil
}
func (cannedLLM) Available(context.Context) bool { return true }

func TestWindowsCommandPrefersModelProposal(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]domain.ExecutionResult{
		"ipconfig /displaydns": {Ran: true, Stdout: "dns cache"},
	}}
	h := NewWindowsCommandHandler(cannedLLM{response: "```\nipconfig /displaydns\n```"}, exec, logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentWindowsCommand,
		Target: "show my dns cache from the network stack",
	}, "")

	require.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, "ipconfig /displaydns", result.Payload["command"])
}
