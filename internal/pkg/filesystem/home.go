// Package filesystem holds small path helpers shared by the config loader,
// the guardrail and the file handlers.
package filesystem

import "os"

// UserHomeDir returns the current user's home directory, or "." when it
// cannot be resolved so path joins still produce a usable relative path.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
