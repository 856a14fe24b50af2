package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/nono/internal/nono"
	"github.com/Use-Tusk/nono/internal/nonoconfig"
)

func newApplyCmd() *cobra.Command {
	var configPath string
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "apply -- <command> [args...]",
		Short: "Narrow this process to a capability set and exec a command under it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault(configPath, useDefaults)
			if err != nil {
				return err
			}
			caps, err := cfg.ToCapabilitySet()
			if err != nil {
				return fmt.Errorf("build capability set: %w", err)
			}

			logger.Info("applying sandbox", "fs_capabilities", len(caps.FsCapabilities()), "network_blocked", caps.IsNetworkBlocked())
			if err := nono.Apply(caps); err != nil {
				return fmt.Errorf("apply sandbox: %w", err)
			}

			child := exec.Command(args[0], args[1:]...)
			child.Stdin = os.Stdin
			child.Stdout = os.Stdout
			child.Stderr = os.Stderr
			child.Env = append(os.Environ(), cfg.ProxyEnv()...)
			if err := child.Run(); err != nil {
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) {
					os.Exit(exitErr.ExitCode())
				}
				return fmt.Errorf("run %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a nono sandbox config (JSONC)")
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "append the built-in readable/writable system and toolchain paths")
	return cmd
}

func loadConfigOrDefault(configPath string, useDefaults bool) (*nonoconfig.Config, error) {
	var cfg *nonoconfig.Config
	if configPath == "" {
		cfg = nonoconfig.Default()
	} else {
		var err error
		cfg, err = nonoconfig.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
	}
	if useDefaults {
		cfg.ApplyDefaults()
	}
	return cfg, nil
}

func loadCapsOrDefault(configPath string) (*nono.CapabilitySet, error) {
	cfg, err := loadConfigOrDefault(configPath, false)
	if err != nil {
		return nil, err
	}
	return cfg.ToCapabilitySet()
}
