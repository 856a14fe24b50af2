package nonoconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileWriteOptions controls config file formatting on write.
type FileWriteOptions struct {
	// HeaderLines are written above the JSON content, one per line.
	HeaderLines []string
}

// cleanNetworkConfig mirrors NetworkConfig but is used only for marshaling,
// so omitempty behaves the way it looks like it should.
type cleanNetworkConfig struct {
	Block          bool     `json:"block,omitempty"`
	AllowedDomains []string `json:"allowedDomains,omitempty"`
	SOCKSProxyPort int      `json:"socksProxyPort,omitempty"`
}

type cleanCommandConfig struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

type cleanConfig struct {
	Extends    string               `json:"extends,omitempty"`
	Filesystem []FsRule             `json:"filesystem,omitempty"`
	Network    *cleanNetworkConfig  `json:"network,omitempty"`
	Command    *cleanCommandConfig  `json:"command,omitempty"`
	RawRules   []string             `json:"rawRules,omitempty"`
}

// MarshalConfigJSON renders cfg as indented JSON with extends first and
// every empty section omitted.
func MarshalConfigJSON(cfg *Config) ([]byte, error) {
	clean := cleanConfig{
		Extends:    cfg.Extends,
		Filesystem: cfg.Filesystem,
		RawRules:   cfg.RawRules,
	}

	network := cleanNetworkConfig{
		Block:          cfg.Network.Block,
		AllowedDomains: cfg.Network.AllowedDomains,
		SOCKSProxyPort: cfg.Network.SOCKSProxyPort,
	}
	if !isNetworkEmpty(network) {
		clean.Network = &network
	}

	command := cleanCommandConfig{
		Allow: cfg.Command.Allow,
		Deny:  cfg.Command.Deny,
	}
	if !isCommandEmpty(command) {
		clean.Command = &command
	}

	return json.MarshalIndent(clean, "", "  ")
}

func isNetworkEmpty(n cleanNetworkConfig) bool {
	return !n.Block && len(n.AllowedDomains) == 0 && n.SOCKSProxyPort == 0
}

func isCommandEmpty(c cleanCommandConfig) bool {
	return len(c.Allow) == 0 && len(c.Deny) == 0
}

// FormatConfigForFile returns cfg's JSON with optional header lines
// prepended, e.g. a "// generated by nono" comment line.
func FormatConfigForFile(cfg *Config, opts FileWriteOptions) (string, error) {
	data, err := MarshalConfigJSON(cfg)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, line := range opts.HeaderLines {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.Write(data)
	out.WriteByte('\n')
	return out.String(), nil
}

// WriteConfigFile writes cfg to path.
func WriteConfigFile(cfg *Config, path string, opts FileWriteOptions) error {
	output, err := FormatConfigForFile(cfg, opts)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, []byte(output), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
