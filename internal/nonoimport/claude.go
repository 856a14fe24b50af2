// Package nonoimport converts other tools' permission settings into
// nonoconfig.Config documents.
package nonoimport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/Use-Tusk/nono/internal/nonoconfig"
)

// ClaudeSettings is the relevant subset of a Claude Code settings.json file.
type ClaudeSettings struct {
	Permissions ClaudePermissions `json:"permissions"`
}

// ClaudePermissions is the permissions block within Claude Code settings.
type ClaudePermissions struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
	Ask   []string `json:"ask"`
}

// DefaultClaudeSettingsPath returns the default user-level Claude settings
// path, or "" if the home directory cannot be determined.
func DefaultClaudeSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "settings.json")
}

// LoadClaudeSettings loads and JSONC-decodes a Claude Code settings file.
func LoadClaudeSettings(path string) (*ClaudeSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claude settings: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return &ClaudeSettings{}, nil
	}

	var settings ClaudeSettings
	if err := json.Unmarshal(jsonc.ToJSON(data), &settings); err != nil {
		return nil, fmt.Errorf("invalid JSON in claude settings: %w", err)
	}
	return &settings, nil
}

var (
	bashPattern  = regexp.MustCompile(`^Bash\((.+)\)$`)
	readPattern  = regexp.MustCompile(`^Read\((.+)\)$`)
	writePattern = regexp.MustCompile(`^Write\((.+)\)$`)
	editPattern  = regexp.MustCompile(`^Edit\((.+)\)$`)
)

// ConvertClaudeToNono translates Claude Code permission rules into a
// nonoconfig.Config. Allowed Read rules become read (R) grants and allowed
// Write/Edit rules become read-write (RW) grants. Denied or ask
// Read/Write/Edit rules have no nono equivalent — nono's filesystem model
// is allow-only — and are dropped here; ImportFromClaude warns about the
// denied Read rules among them.
func ConvertClaudeToNono(settings *ClaudeSettings) *nonoconfig.Config {
	cfg := nonoconfig.Default()

	for _, rule := range settings.Permissions.Allow {
		applyClaudeRule(rule, cfg, true)
	}
	for _, rule := range settings.Permissions.Deny {
		applyClaudeRule(rule, cfg, false)
	}
	for _, rule := range settings.Permissions.Ask {
		applyClaudeRule(rule, cfg, false)
	}

	return cfg
}

func applyClaudeRule(rule string, cfg *nonoconfig.Config, isAllow bool) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return
	}

	if m := bashPattern.FindStringSubmatch(rule); len(m) == 2 {
		cmd := normalizeClaudeCommand(m[1])
		if cmd == "" {
			return
		}
		if isAllow {
			cfg.Command.Allow = appendUnique(cfg.Command.Allow, cmd)
		} else {
			cfg.Command.Deny = appendUnique(cfg.Command.Deny, cmd)
		}
		return
	}

	if m := writePattern.FindStringSubmatch(rule); len(m) == 2 {
		addFsRule(cfg, normalizeClaudePath(m[1]), isAllow)
		return
	}

	if m := editPattern.FindStringSubmatch(rule); len(m) == 2 {
		addFsRule(cfg, normalizeClaudePath(m[1]), isAllow)
		return
	}

	if m := readPattern.FindStringSubmatch(rule); len(m) == 2 {
		// nono grants read access explicitly rather than denying it, so an
		// allow-read rule becomes a read grant; a deny-read rule has no
		// direct equivalent and is surfaced as a warning by the caller.
		if isAllow {
			addFsReadRule(cfg, normalizeClaudePath(m[1]))
		}
		return
	}
}

func addFsRule(cfg *nonoconfig.Config, path string, isAllow bool) {
	if path == "" || !isAllow {
		return
	}
	cfg.Filesystem = append(cfg.Filesystem, nonoconfig.FsRule{Path: path, Access: "RW"})
}

func addFsReadRule(cfg *nonoconfig.Config, path string) {
	if path == "" {
		return
	}
	cfg.Filesystem = append(cfg.Filesystem, nonoconfig.FsRule{Path: path, Access: "R"})
}

func normalizeClaudeCommand(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	cmd = strings.TrimSuffix(cmd, ":*")
	return cmd
}

func normalizeClaudePath(path string) string {
	return strings.TrimSpace(path)
}

func appendUnique(slice []string, value string) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	return append(slice, value)
}

// ImportResult describes the outcome of an import.
type ImportResult struct {
	Config        *nonoconfig.Config
	SourcePath    string
	RulesImported int
	Warnings      []string
}

// ImportOptions configures ImportFromClaude.
type ImportOptions struct {
	Extends string
}

// ImportFromClaude imports settings from Claude Code at path (or the
// default location, if path is empty) and returns a nono config.
func ImportFromClaude(path string, opts ImportOptions) (*ImportResult, error) {
	if path == "" {
		path = DefaultClaudeSettingsPath()
	}
	if path == "" {
		return nil, fmt.Errorf("could not determine claude settings path")
	}

	settings, err := LoadClaudeSettings(path)
	if err != nil {
		return nil, err
	}

	cfg := ConvertClaudeToNono(settings)
	if opts.Extends != "" {
		cfg.Extends = opts.Extends
	}

	result := &ImportResult{
		Config:     cfg,
		SourcePath: path,
		RulesImported: len(settings.Permissions.Allow) +
			len(settings.Permissions.Deny) +
			len(settings.Permissions.Ask),
	}

	for _, rule := range settings.Permissions.Deny {
		if m := readPattern.FindStringSubmatch(strings.TrimSpace(rule)); len(m) == 2 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("deny-read rule %q skipped (nono grants read access explicitly rather than denying it)", rule))
		}
	}
	for _, rule := range append(append([]string{}, settings.Permissions.Allow...), settings.Permissions.Deny...) {
		if isGlobalToolRule(rule) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("global tool permission %q skipped (nono uses path/command-based rules)", rule))
		}
	}
	for _, rule := range settings.Permissions.Ask {
		if isGlobalToolRule(rule) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("global tool permission %q skipped (nono uses path/command-based rules)", rule))
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("ask rule %q converted to deny (nono has no interactive prompt)", rule))
		}
	}

	return result, nil
}

func isGlobalToolRule(rule string) bool {
	return !strings.Contains(strings.TrimSpace(rule), "(")
}

// FormatConfigWithComment renders cfg with a header noting which template
// it extends, if any.
func FormatConfigWithComment(cfg *nonoconfig.Config) (string, error) {
	return nonoconfig.FormatConfigForFile(cfg, nonoconfig.FileWriteOptions{
		HeaderLines: importHeaderLines(cfg),
	})
}

// WriteConfig writes cfg to path with the same header as FormatConfigWithComment.
func WriteConfig(cfg *nonoconfig.Config, path string) error {
	return nonoconfig.WriteConfigFile(cfg, path, nonoconfig.FileWriteOptions{
		HeaderLines: importHeaderLines(cfg),
	})
}

func importHeaderLines(cfg *nonoconfig.Config) []string {
	if cfg.Extends == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("// This config extends %q.", cfg.Extends),
		"// Only the additional rules imported from Claude Code are shown below.",
	}
}
