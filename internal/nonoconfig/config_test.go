package nonoconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadSimpleConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sandbox.jsonc")
	writeFile(t, cfgPath, `{
		// allow read-write to the project directory
		"filesystem": [{"path": ".", "access": "RW"}],
		"network": {"block": true}
	}`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.True(t, cfg.Network.Block)
	assert.Len(t, cfg.Filesystem, 1)
}

func TestLoadExtendsMerge(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.jsonc")
	writeFile(t, base, `{"filesystem": [{"path": "/tmp", "access": "R"}], "command": {"allow": ["ls"]}}`)

	child := filepath.Join(dir, "child.jsonc")
	writeFile(t, child, `{"extends": "base.jsonc", "filesystem": [{"path": "/var", "access": "W"}], "command": {"deny": ["rm"]}}`)

	cfg, err := Load(child)
	require.NoError(t, err)
	assert.Len(t, cfg.Filesystem, 2)
	assert.Len(t, cfg.Command.Allow, 1)
	assert.Len(t, cfg.Command.Deny, 1)
}

func TestLoadExtendsCycleFails(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jsonc")
	b := filepath.Join(dir, "b.jsonc")
	writeFile(t, a, `{"extends": "b.jsonc"}`)
	writeFile(t, b, `{"extends": "a.jsonc"}`)

	_, err := Load(a)
	assert.Error(t, err)
}

func TestToCapabilitySetRecursiveGlob(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeFile(t, filepath.Join(sub, "a.txt"), "x")

	cfg := &Config{
		baseDir:    dir,
		Filesystem: []FsRule{{Path: "data/**", Access: "R"}},
	}
	caps, err := cfg.ToCapabilitySet()
	require.NoError(t, err)

	fs := caps.FsCapabilities()
	require.Len(t, fs, 1, "recursive glob should collapse to a single directory capability")
	assert.False(t, fs[0].IsFile)
}

func TestToCapabilitySetNonRecursiveGlobExpandsPerMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.txt"), "x")
	writeFile(t, filepath.Join(dir, "two.txt"), "x")

	cfg := &Config{
		baseDir:    dir,
		Filesystem: []FsRule{{Path: "*.txt", Access: "R"}},
	}
	caps, err := cfg.ToCapabilitySet()
	require.NoError(t, err)
	assert.Len(t, caps.FsCapabilities(), 2)
}

func TestToCapabilitySetRejectsInvalidAccess(t *testing.T) {
	cfg := &Config{Filesystem: []FsRule{{Path: "/tmp", Access: "XX"}}}
	_, err := cfg.ToCapabilitySet()
	assert.Error(t, err)
}

func TestMarshalConfigJSONOmitsEmptySections(t *testing.T) {
	cfg := Default()
	data, err := MarshalConfigJSON(cfg)
	require.NoError(t, err)

	output := string(data)
	assert.NotContains(t, output, `"network"`)
	assert.NotContains(t, output, `"command"`)
	assert.NotContains(t, output, `"filesystem"`)
	assert.NotContains(t, output, `"rawRules"`)
}
