package wifi

import (
	"testing"
)

const profilesOutputEN = `
Profiles on interface Wi-Fi:

Group policy profiles (read only)
---------------------------------
    <None>

User profiles
-------------
    All User Profile     : HomeNet
    All User Profile     : OfficeGuest
`

const profilesOutputFR = `
Profils sur l'interface Wi-Fi :

Profils utilisateurs
--------------------
    Profil Tous les utilisateurs     : Maison
    Profil Tous les utilisateurs     : Bureau-5G
`

func TestParseProfilesEnglish(t *testing.T) {
	names := parseProfiles(profilesOutputEN)
	if len(names) != 2 {
		t.Fatalf("expected 2 profiles, got %v", names)
	}
	if names[0] != "HomeNet" || names[1] != "OfficeGuest" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestParseProfilesFrench(t *testing.T) {
	names := parseProfiles(profilesOutputFR)
	if len(names) != 2 {
		t.Fatalf("expected 2 profiles, got %v", names)
	}
	if names[0] != "Maison" || names[1] != "Bureau-5G" {
		t.Fatalf("unexpected names %v", names)
	}
}

const profileDetailEN = `
Profile HomeNet on interface Wi-Fi:
=======================================================================

Connectivity settings
---------------------
    Number of SSIDs        : 1
    SSID name              : "HomeNet"

Security settings
-----------------
    Authentication         : WPA2-Personal
    Cipher                 : CCMP
    Security type          : WPA2-Personal
    Encryption             : AES
`

func TestParseProfileDetail(t *testing.T) {
	network := parseProfileDetail("HomeNet", profileDetailEN)
	if network.Name != "HomeNet" {
		t.Fatalf("unexpected name %q", network.Name)
	}
	if network.Security != "WPA2-Personal" {
		t.Fatalf("unexpected security %q", network.Security)
	}
	if network.Authentication != "WPA2-Personal" {
		t.Fatalf("unexpected authentication %q", network.Authentication)
	}
	if network.Encryption != "AES" {
		t.Fatalf("unexpected encryption %q", network.Encryption)
	}
}

const availableOutput = `
Interface name : Wi-Fi
There are 3 networks currently visible.

SSID 1 : HomeNet
    Network type            : Infrastructure
    Authentication          : WPA2-Personal
    Encryption              : CCMP
    BSSID 1                 : aa:bb:cc:dd:ee:01
         Signal             : 92%
    BSSID 2                 : aa:bb:cc:dd:ee:02
         Signal             : 55%

SSID 2 : CoffeeShop
    Network type            : Infrastructure
    Authentication          : Open
    Encryption              : None
    BSSID 1                 : 11:22:33:44:55:66
         Signal             : 70%

SSID 3 : HomeNet
    Network type            : Infrastructure
    Authentication          : WPA2-Personal
    Encryption              : CCMP
    BSSID 1                 : aa:bb:cc:dd:ee:03
         Signal             : 40%
`

func TestParseAvailableNetworksDeduplicatesSSIDs(t *testing.T) {
	networks := parseAvailableNetworks(availableOutput)
	if len(networks) != 2 {
		t.Fatalf("expected 2 distinct networks, got %d: %v", len(networks), networks)
	}

	home := networks[0]
	if home.Name != "HomeNet" {
		t.Fatalf("unexpected first network %q", home.Name)
	}
	if home.AccessPoints != 3 {
		t.Fatalf("expected 3 access points for HomeNet, got %d", home.AccessPoints)
	}
	if home.Authentication != "WPA2-Personal" {
		t.Fatalf("unexpected authentication %q", home.Authentication)
	}

	shop := networks[1]
	if shop.Name != "CoffeeShop" || shop.AccessPoints != 1 {
		t.Fatalf("unexpected second network %+v", shop)
	}
	if shop.Signal != "70%" {
		t.Fatalf("unexpected signal %q", shop.Signal)
	}
}

func TestParseAvailableNetworksHandlesHiddenSSID(t *testing.T) {
	output := `
SSID 1 :
    Network type            : Infrastructure
    Authentication          : WPA2-Personal
    BSSID 1                 : aa:bb:cc:dd:ee:ff
`
	networks := parseAvailableNetworks(output)
	if len(networks) != 1 {
		t.Fatalf("expected 1 network, got %v", networks)
	}
	if networks[0].Name != "(hidden)" {
		t.Fatalf("unexpected name %q", networks[0].Name)
	}
}
