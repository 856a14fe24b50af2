// Package nonoconfig loads JSONC sandbox configuration files and turns them
// into a nono.CapabilitySet, expanding glob patterns against the live
// filesystem before each path reaches the capability engine.
package nonoconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"

	"github.com/Use-Tusk/nono/internal/nono"
)

// FsRule is a single filesystem grant in source form, before glob expansion
// and path resolution.
type FsRule struct {
	Path   string `json:"path"`
	Access string `json:"access"` // "R", "W", or "RW"
}

// NetworkConfig controls the network capability. nono only models a binary
// outbound block; domain-level filtering is handled cooperatively by
// nonoproxy, not by the kernel back-ends.
type NetworkConfig struct {
	Block           bool     `json:"block,omitempty"`
	AllowedDomains  []string `json:"allowedDomains,omitempty"`
	SOCKSProxyPort  int      `json:"socksProxyPort,omitempty"`
}

// CommandConfig carries the command allow/block metadata lists (§4.3 —
// these are not kernel-enforced). They are copied into the CapabilitySet's
// command lists and its SandboxState; no back-end and no cmd/nono
// subcommand acts on them.
type CommandConfig struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// Config is the JSONC-decoded shape of a sandbox config file.
type Config struct {
	Extends    string        `json:"extends,omitempty"`
	Filesystem []FsRule      `json:"filesystem,omitempty"`
	Network    NetworkConfig `json:"network,omitempty"`
	Command    CommandConfig `json:"command,omitempty"`
	RawRules   []string      `json:"rawRules,omitempty"`

	baseDir string // directory the file was loaded from, for relative path and extends resolution
}

// Default returns an empty config with no grants.
func Default() *Config {
	return &Config{}
}

// Load reads and decodes a JSONC config file at path, following its
// extends chain (a config may extend exactly one parent, resolved relative
// to the child's own directory). A cycle in the extends chain is reported
// as an error rather than looping forever.
func Load(path string) (*Config, error) {
	return load(path, map[string]bool{})
}

func load(path string, seen map[string]bool) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %q: %w", path, err)
	}
	if seen[abs] {
		return nil, fmt.Errorf("extends cycle detected at %q", abs)
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", abs, err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("invalid JSON in config %q: %w", abs, err)
	}
	cfg.baseDir = filepath.Dir(abs)

	if cfg.Extends == "" {
		return &cfg, nil
	}

	parentPath := cfg.Extends
	if !filepath.IsAbs(parentPath) {
		parentPath = filepath.Join(cfg.baseDir, parentPath)
	}
	parent, err := load(parentPath, seen)
	if err != nil {
		return nil, fmt.Errorf("extends %q: %w", cfg.Extends, err)
	}

	return mergeConfigs(parent, &cfg), nil
}

// mergeConfigs layers child over parent: list fields concatenate (parent
// first), scalar fields prefer the child's value when set.
func mergeConfigs(parent, child *Config) *Config {
	merged := &Config{
		baseDir:    child.baseDir,
		Filesystem: append(append([]FsRule{}, parent.Filesystem...), child.Filesystem...),
		RawRules:   append(append([]string{}, parent.RawRules...), child.RawRules...),
	}

	merged.Network = parent.Network
	if child.Network.Block {
		merged.Network.Block = true
	}
	merged.Network.AllowedDomains = append(append([]string{}, parent.Network.AllowedDomains...), child.Network.AllowedDomains...)
	if child.Network.SOCKSProxyPort != 0 {
		merged.Network.SOCKSProxyPort = child.Network.SOCKSProxyPort
	}

	merged.Command.Allow = append(append([]string{}, parent.Command.Allow...), child.Command.Allow...)
	merged.Command.Deny = append(append([]string{}, parent.Command.Deny...), child.Command.Deny...)

	return merged
}

// ToCapabilitySet expands every filesystem rule's glob pattern and builds a
// nono.CapabilitySet. A pattern ending in "/**" is resolved to a single
// directory capability over its base directory rather than one capability
// per matched descendant — Landlock and Seatbelt both express "everything
// under this directory" as one rule, so enumerating matches here would
// only waste rule slots and lose coverage of files created after the
// config was loaded.
func (c *Config) ToCapabilitySet() (*nono.CapabilitySet, error) {
	caps := nono.NewCapabilitySet()

	for _, rule := range c.Filesystem {
		mode, ok := parseAccess(rule.Access)
		if !ok {
			return nil, fmt.Errorf("filesystem rule %q: invalid access %q", rule.Path, rule.Access)
		}

		pattern := c.resolveRelative(rule.Path)

		if base, isRecursive := recursiveGlobBase(pattern); isRecursive {
			if err := caps.AllowPath(base, mode); err != nil {
				return nil, fmt.Errorf("filesystem rule %q: %w", rule.Path, err)
			}
			continue
		}

		if !containsGlobChars(pattern) {
			if err := allowSingle(caps, pattern, mode); err != nil {
				return nil, fmt.Errorf("filesystem rule %q: %w", rule.Path, err)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("filesystem rule %q: invalid glob: %w", rule.Path, err)
		}
		for _, m := range matches {
			if err := allowSingle(caps, m, mode); err != nil {
				return nil, fmt.Errorf("filesystem rule %q: %w", rule.Path, err)
			}
		}
	}

	if c.Network.Block {
		caps.BlockNetwork()
	}
	for _, cmd := range c.Command.Allow {
		caps.AllowCommand(cmd)
	}
	for _, cmd := range c.Command.Deny {
		caps.BlockCommand(cmd)
	}
	for _, raw := range c.RawRules {
		if err := caps.PlatformRule(raw); err != nil {
			return nil, fmt.Errorf("raw rule %q: %w", raw, err)
		}
	}

	caps.Deduplicate()
	return caps, nil
}

func allowSingle(caps *nono.CapabilitySet, path string, mode nono.AccessMode) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return caps.AllowPath(path, mode)
	}
	return caps.AllowFile(path, mode)
}

// resolveRelative joins a relative pattern against the config file's own
// directory, leaving absolute patterns and "~" expansion to the capability
// engine's own resolver.
func (c *Config) resolveRelative(pattern string) string {
	if filepath.IsAbs(pattern) || strings.HasPrefix(pattern, "~") {
		return pattern
	}
	if c.baseDir == "" {
		return pattern
	}
	return filepath.Join(c.baseDir, pattern)
}

func containsGlobChars(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]")
}

// recursiveGlobBase reports whether pattern has the shape "dir/**" and, if
// so, returns dir.
func recursiveGlobBase(pattern string) (string, bool) {
	const suffix = "/**"
	if !strings.HasSuffix(pattern, suffix) {
		return "", false
	}
	base := strings.TrimSuffix(pattern, suffix)
	if containsGlobChars(base) {
		return "", false
	}
	return base, true
}

func parseAccess(s string) (nono.AccessMode, bool) {
	switch strings.ToUpper(s) {
	case "R":
		return nono.Read, true
	case "W":
		return nono.Write, true
	case "RW", "":
		return nono.ReadWrite, true
	default:
		return 0, false
	}
}
