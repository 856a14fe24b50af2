package nonoimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertClaudeToNonoBashRules(t *testing.T) {
	settings := &ClaudeSettings{
		Permissions: ClaudePermissions{
			Allow: []string{"Bash(npm run test:*)"},
			Deny:  []string{"Bash(curl:*)"},
		},
	}
	cfg := ConvertClaudeToNono(settings)
	require.Len(t, cfg.Command.Allow, 1)
	assert.Equal(t, "npm run test", cfg.Command.Allow[0])
	require.Len(t, cfg.Command.Deny, 1)
	assert.Equal(t, "curl", cfg.Command.Deny[0])
}

func TestConvertClaudeToNonoWriteRules(t *testing.T) {
	settings := &ClaudeSettings{
		Permissions: ClaudePermissions{
			Allow: []string{"Write(./output/**)", "Edit(./src/**)"},
			Deny:  []string{"Write(./secrets/**)"},
		},
	}
	cfg := ConvertClaudeToNono(settings)
	require.Len(t, cfg.Filesystem, 2, "deny-write has no nono equivalent and should be dropped")
	for _, r := range cfg.Filesystem {
		assert.Equal(t, "RW", r.Access)
	}
}

func TestConvertClaudeToNonoAllowReadRule(t *testing.T) {
	settings := &ClaudeSettings{
		Permissions: ClaudePermissions{Allow: []string{"Read(./.env)"}},
	}
	cfg := ConvertClaudeToNono(settings)
	require.Len(t, cfg.Filesystem, 1)
	assert.Equal(t, "R", cfg.Filesystem[0].Access)
}

func TestImportFromClaudeWarnsOnGlobalRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"permissions":{"allow":["Bash"],"ask":["WebFetch"]}}`), 0o644))

	result, err := ImportFromClaude(path, ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 2)
}

func TestImportFromClaudeSetsExtends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"permissions":{}}`), 0o644))

	result, err := ImportFromClaude(path, ImportOptions{Extends: "strict"})
	require.NoError(t, err)
	assert.Equal(t, "strict", result.Config.Extends)
}

func TestLoadClaudeSettingsHandlesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	settings, err := LoadClaudeSettings(path)
	require.NoError(t, err)
	assert.Empty(t, settings.Permissions.Allow)
}
