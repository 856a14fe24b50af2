package nonoconfig

import (
	"os"
	"path/filepath"
)

// DefaultReadablePaths returns the system and toolchain paths most programs
// need read access to just to start up: the dynamic linker, shared libraries,
// DNS/SSL/locale config, and the installation directories of common language
// version managers. Runtimes like Node.js load modules from deep inside
// these directories, not just their bin/, so the version-manager grants
// (nvm, fnm, volta, pyenv, pipx, rbenv, rvm, rustup) cover the whole
// directory; the remaining toolchains (cargo, go, bun, deno, ~/.local/bin,
// ~/bin) are granted only their bin/ directory.
func DefaultReadablePaths() []string {
	home, _ := os.UserHomeDir()

	paths := []string{
		"/bin",
		"/sbin",
		"/usr",
		"/lib",
		"/lib64",
		"/etc",
		"/proc",
		"/sys",
		"/dev",
		"/System",
		"/Library",
		"/Applications",
		"/private/etc",
		"/private/var/db",
		"/private/var/run",
		"/opt",
		"/run",
		"/tmp",
		"/private/tmp",
		"/usr/local",
		"/opt/homebrew",
		"/nix",
		"/snap",
	}

	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".nvm"),
			filepath.Join(home, ".fnm"),
			filepath.Join(home, ".volta"),
			filepath.Join(home, ".pyenv"),
			filepath.Join(home, ".local/pipx"),
			filepath.Join(home, ".rbenv"),
			filepath.Join(home, ".rvm"),
			filepath.Join(home, ".cargo/bin"),
			filepath.Join(home, ".rustup"),
			filepath.Join(home, "go/bin"),
			filepath.Join(home, ".local/bin"),
			filepath.Join(home, "bin"),
			filepath.Join(home, ".bun/bin"),
			filepath.Join(home, ".deno/bin"),
		)
	}

	return paths
}

// DefaultWritePaths returns paths commands typically need write access to
// regardless of what project directory they were granted: scratch space,
// npm's log directory, and nono's own debug directory.
func DefaultWritePaths() []string {
	home, _ := os.UserHomeDir()

	paths := []string{
		"/tmp/nono",
		"/private/tmp/nono",
	}

	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".npm/_logs"),
			filepath.Join(home, ".nono/debug"),
		)
	}

	return paths
}

// ApplyDefaults appends DefaultReadablePaths and DefaultWritePaths as
// filesystem rules, skipping any path that doesn't currently exist so the
// generated config doesn't carry dead grants for toolchains the host
// doesn't have installed.
func (c *Config) ApplyDefaults() {
	for _, p := range DefaultReadablePaths() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		c.Filesystem = append(c.Filesystem, FsRule{Path: p, Access: "R"})
	}
	for _, p := range DefaultWritePaths() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		c.Filesystem = append(c.Filesystem, FsRule{Path: p, Access: "W"})
	}
}
