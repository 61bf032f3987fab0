// Package automation drives keyboard and screen primitives through
// PowerShell, which is present on every supported Windows install.
package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/akhellaf/deskpilot/internal/ports"
)

// sendKeysCodes maps friendly key names to SendKeys notation.
var sendKeysCodes = map[string]string{
	"enter":  "{ENTER}",
	"tab":    "{TAB}",
	"esc":    "{ESC}",
	"escape": "{ESC}",
	"space":  " ",
	"up":     "{UP}",
	"down":   "{DOWN}",
	"left":   "{LEFT}",
	"right":  "{RIGHT}",
	"delete": "{DELETE}",
	"f5":     "{F5}",
	"win":    "^{ESC}",
}

var modifierCodes = map[string]string{
	"ctrl":  "^",
	"alt":   "%",
	"shift": "+",
}

// Shell runs automation through the command executor.
type Shell struct {
	executor ports.CommandExecutor
	logger   ports.Logger
}

// NewShell builds the PowerShell-backed automation adapter.
func NewShell(executor ports.CommandExecutor, logger ports.Logger) *Shell {
	return &Shell{executor: executor, logger: logger}
}

// SendKeys implements ports.Automation. A key list like [ctrl c] becomes one
// chord; single keys are sent as-is.
func (s *Shell) SendKeys(ctx context.Context, keys []string) error {
	sequence := encodeChord(keys)
	if sequence == "" {
		return fmt.Errorf("no keys to send")
	}
	return s.sendWait(ctx, sequence)
}

// TypeText implements ports.Automation.
func (s *Shell) TypeText(ctx context.Context, text string) error {
	return s.sendWait(ctx, escapeSendKeys(text))
}

// Screenshot implements ports.Automation, capturing the primary screen.
func (s *Shell) Screenshot(ctx context.Context, path string) error {
	script := fmt.Sprintf(
		"Add-Type -AssemblyName System.Windows.Forms,System.Drawing; "+
			"$b = New-Object Drawing.Bitmap([Windows.Forms.Screen]::PrimaryScreen.Bounds.Width, [Windows.Forms.Screen]::PrimaryScreen.Bounds.Height); "+
			"$g = [Drawing.Graphics]::FromImage($b); "+
			"$g.CopyFromScreen(0, 0, 0, 0, $b.Size); "+
			"$b.Save('%s')",
		strings.ReplaceAll(path, "'", "''"))
	result, err := s.executor.Execute(ctx, "powershell -NoProfile -Command \""+script+"\"")
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("screenshot: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

func (s *Shell) sendWait(ctx context.Context, sequence string) error {
	script := fmt.Sprintf(
		"Add-Type -AssemblyName System.Windows.Forms; [System.Windows.Forms.SendKeys]::SendWait('%s')",
		strings.ReplaceAll(sequence, "'", "''"))
	result, err := s.executor.Execute(ctx, "powershell -NoProfile -Command \""+script+"\"")
	if err != nil {
		return fmt.Errorf("send keys: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("send keys: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// encodeChord joins modifiers and keys into one SendKeys sequence.
func encodeChord(keys []string) string {
	var modifiers, rest string
	for _, key := range keys {
		lower := strings.ToLower(strings.TrimSpace(key))
		if lower == "" {
			continue
		}
		if mod, ok := modifierCodes[lower]; ok {
			modifiers += mod
			continue
		}
		if code, ok := sendKeysCodes[lower]; ok {
			rest += code
			continue
		}
		rest += escapeSendKeys(lower)
	}
	return modifiers + rest
}

// escapeSendKeys protects characters SendKeys treats specially.
func escapeSendKeys(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '+', '^', '%', '~', '(', ')', '{', '}', '[', ']':
			fmt.Fprintf(&b, "{%c}", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var _ ports.Automation = (*Shell)(nil)
