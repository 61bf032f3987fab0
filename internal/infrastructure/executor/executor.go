// Package executor runs shell commands on the host with a timeout.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// LocalExecutor runs commands on the host shell.
type LocalExecutor struct {
	shell   string
	timeout time.Duration
}

// New builds an executor. An empty or "auto" shell resolves to cmd on
// Windows and $SHELL (or /bin/sh) elsewhere.
func New(shell string, timeout time.Duration) *LocalExecutor {
	if shell == "" || shell == "auto" {
		if runtime.GOOS == "windows" {
			shell = "cmd"
		} else if env := os.Getenv("SHELL"); env != "" {
			shell = env
		} else {
			shell = "/bin/sh"
		}
	}
	if timeout <= 0 {
		timeout = domain.DefaultCommandTimeout
	}
	return &LocalExecutor{shell: shell, timeout: timeout}
}

// Execute implements ports.CommandExecutor.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var c *exec.Cmd
	if e.shell == "cmd" {
		c = exec.CommandContext(ctx, e.shell, "/C", command)
	} else {
		c = exec.CommandContext(ctx, e.shell, "-c", command)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	duration := time.Since(start).Milliseconds()

	result := domain.ExecutionResult{
		Ran:        err == nil,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: duration,
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.Err = ctx.Err()
		return result, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Ran = true
		return result, nil
	}
	if err != nil {
		result.Err = err
		return result, err
	}
	return result, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
