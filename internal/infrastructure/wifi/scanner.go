package wifi

import (
	"context"
	"fmt"
	"time"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// Scanner lists saved wireless profiles and broadcasting networks via netsh.
type Scanner struct {
	executor ports.CommandExecutor
	logger   ports.Logger
	// settle is how long to wait after the refresh before reading scan
	// results; the radio needs a moment to report fresh data.
	settle time.Duration
}

// NewScanner builds a netsh-backed scanner.
func NewScanner(executor ports.CommandExecutor, logger ports.Logger) *Scanner {
	return &Scanner{executor: executor, logger: logger, settle: 2 * time.Second}
}

// SavedNetworks implements ports.WifiScanner.
func (s *Scanner) SavedNetworks(ctx context.Context) ([]domain.WifiNetwork, error) {
	result, err := s.executor.Execute(ctx, "netsh wlan show profiles")
	if err != nil {
		return nil, fmt.Errorf("list wifi profiles: %w", err)
	}

	var networks []domain.WifiNetwork
	for _, name := range parseProfiles(result.Output()) {
		detail, err := s.executor.Execute(ctx, fmt.Sprintf(`netsh wlan show profile name="%s"`, name))
		if err != nil {
			s.logger.Debug("profile detail failed", map[string]interface{}{"profile": name, "error": err.Error()})
			networks = append(networks, domain.WifiNetwork{Name: name, Type: "saved"})
			continue
		}
		networks = append(networks, parseProfileDetail(name, detail.Output()))
	}
	return networks, nil
}

// AvailableNetworks implements ports.WifiScanner. A refresh is requested
// first so the listing reflects networks currently in the air.
func (s *Scanner) AvailableNetworks(ctx context.Context) ([]domain.WifiNetwork, error) {
	if _, err := s.executor.Execute(ctx, "netsh wlan show networks"); err == nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.settle):
		}
	}

	result, err := s.executor.Execute(ctx, "netsh wlan show networks mode=bssid")
	if err != nil {
		return nil, fmt.Errorf("scan wifi networks: %w", err)
	}
	return parseAvailableNetworks(result.Output()), nil
}

var _ ports.WifiScanner = (*Scanner)(nil)
