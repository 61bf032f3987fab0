// Package wifi shells out to netsh and parses its localized output.
package wifi

import (
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
)

// netsh localizes its labels; match the English and French variants we see
// in the field.
var (
	profileLabels        = []string{"All User Profile", "Profil Tous les utilisateurs"}
	securityLabels       = []string{"Security type", "Type de sécurité"}
	authenticationLabels = []string{"Authentication", "Authentification"}
	encryptionLabels     = []string{"Encryption", "Chiffrement"}
	signalLabels         = []string{"Signal"}
	networkTypeLabels    = []string{"Network type", "Type de réseau"}
)

// parseProfiles extracts saved profile names from `netsh wlan show profiles`.
func parseProfiles(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		if value, ok := labeledValue(line, profileLabels); ok && value != "" {
			names = append(names, value)
		}
	}
	return names
}

// parseProfileDetail extracts security fields from
// `netsh wlan show profile name=<ssid>`.
func parseProfileDetail(name, output string) domain.WifiNetwork {
	network := domain.WifiNetwork{Name: name, Type: "saved"}
	for _, line := range strings.Split(output, "\n") {
		if value, ok := labeledValue(line, securityLabels); ok {
			network.Security = value
		}
		if value, ok := labeledValue(line, authenticationLabels); ok {
			network.Authentication = value
		}
		if value, ok := labeledValue(line, encryptionLabels); ok {
			network.Encryption = value
		}
	}
	return network
}

// parseAvailableNetworks extracts broadcasting networks from
// `netsh wlan show networks mode=bssid`, deduplicating SSIDs and counting
// their access points.
func parseAvailableNetworks(output string) []domain.WifiNetwork {
	var ordered []string
	byName := map[string]*domain.WifiNetwork{}
	var current *domain.WifiNetwork

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "SSID") && !strings.HasPrefix(trimmed, "BSSID") {
			name := valueAfterColon(trimmed)
			if name == "" {
				name = "(hidden)"
			}
			if existing, ok := byName[name]; ok {
				current = existing
			} else {
				network := &domain.WifiNetwork{Name: name, Type: "available"}
				byName[name] = network
				ordered = append(ordered, name)
				current = network
			}
			continue
		}
		if current == nil {
			continue
		}
		if strings.HasPrefix(trimmed, "BSSID") {
			current.AccessPoints++
			continue
		}
		if value, ok := labeledValue(line, authenticationLabels); ok {
			current.Authentication = value
		}
		if value, ok := labeledValue(line, encryptionLabels); ok {
			current.Encryption = value
		}
		if value, ok := labeledValue(line, signalLabels); ok {
			current.Signal = value
		}
		if value, ok := labeledValue(line, networkTypeLabels); ok && value != "" {
			current.Security = value
		}
	}

	networks := make([]domain.WifiNetwork, 0, len(ordered))
	for _, name := range ordered {
		networks = append(networks, *byName[name])
	}
	return networks
}

func labeledValue(line string, labels []string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, label := range labels {
		if strings.HasPrefix(trimmed, label) {
			return valueAfterColon(trimmed), true
		}
	}
	return "", false
}

func valueAfterColon(line string) string {
	if i := strings.IndexAny(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}
