package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/nono/internal/nono"
)

func newShellCmd() *cobra.Command {
	var configPath string
	var shellPath string
	var shellMode string
	var login bool
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Apply a sandbox and drop into an interactive PTY shell under it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault(configPath, useDefaults)
			if err != nil {
				return err
			}
			caps, err := cfg.ToCapabilitySet()
			if err != nil {
				return fmt.Errorf("build capability set: %w", err)
			}
			if err := nono.Apply(caps); err != nil {
				return fmt.Errorf("apply sandbox: %w", err)
			}

			resolvedShell, _, err := resolveShell(shellPath, shellMode, login)
			if err != nil {
				return err
			}

			var shellArgs []string
			if login {
				shellArgs = append(shellArgs, "-l")
			}
			child := exec.Command(resolvedShell, shellArgs...)
			child.Env = append(os.Environ(), cfg.ProxyEnv()...)

			cleanup, err := startCommandWithPTY(child)
			if err != nil {
				return fmt.Errorf("start pty: %w", err)
			}
			defer cleanup()

			return child.Wait()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a nono sandbox config (JSONC)")
	cmd.Flags().StringVar(&shellPath, "shell", "", "shell executable to launch (overrides --shell-mode)")
	cmd.Flags().StringVar(&shellMode, "shell-mode", shellModeDefault, "\"default\" launches bash; \"user\" launches a validated $SHELL")
	cmd.Flags().BoolVar(&login, "login", false, "launch the shell as a login shell")
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "append the built-in readable/writable system and toolchain paths")
	return cmd
}
