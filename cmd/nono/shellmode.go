package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	shellModeDefault = "default"
	shellModeUser    = "user"
)

var allowedUserShells = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "ksh": true, "dash": true, "fish": true,
}

// resolveShell returns the shell executable and its "run a command" flag.
// Mode "default" always launches bash for deterministic behavior; mode
// "user" launches $SHELL after validating it's an absolute path to one of
// a known-safe set of shell binaries, so a stray or hostile $SHELL value
// can't be used to smuggle in an arbitrary executable.
func resolveShell(explicitPath, mode string, login bool) (path, flag string, err error) {
	if explicitPath != "" {
		return explicitPath, shellRunFlag(login), nil
	}
	if mode == "" {
		mode = shellModeDefault
	}

	switch mode {
	case shellModeDefault:
		resolved, err := exec.LookPath("bash")
		if err != nil {
			return "", "", fmt.Errorf("shell %q not found: %w", "bash", err)
		}
		return resolved, shellRunFlag(login), nil
	case shellModeUser:
		envShell := strings.TrimSpace(os.Getenv("SHELL"))
		if envShell == "" {
			return "", "", fmt.Errorf("shell mode %q requires $SHELL to be set", shellModeUser)
		}
		if !filepath.IsAbs(envShell) {
			return "", "", fmt.Errorf("shell mode %q requires an absolute $SHELL path, got %q", shellModeUser, envShell)
		}
		name := filepath.Base(envShell)
		if !allowedUserShells[name] {
			return "", "", fmt.Errorf("shell %q from $SHELL is not in the allowed set", name)
		}
		info, err := os.Stat(envShell)
		if err != nil {
			return "", "", fmt.Errorf("shell from $SHELL not found: %w", err)
		}
		if info.IsDir() || info.Mode()&0o111 == 0 {
			return "", "", fmt.Errorf("shell from $SHELL is not executable: %q", envShell)
		}
		return envShell, shellRunFlag(login), nil
	default:
		return "", "", fmt.Errorf("invalid shell mode %q (expected %q or %q)", mode, shellModeDefault, shellModeUser)
	}
}

func shellRunFlag(login bool) string {
	if login {
		return "-lc"
	}
	return "-c"
}
