package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultRulesYAML contains the embedded default risk rules.
//
//go:embed defaults/rules.yaml
var DefaultRulesYAML []byte
