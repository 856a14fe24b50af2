package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/nono/internal/nono"
)

func newQueryCmd() *cobra.Command {
	var configPath string
	var access string

	cmd := &cobra.Command{
		Use:   "query <path>",
		Short: "Report whether a config would grant access to a path, without applying anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caps, err := loadCapsOrDefault(configPath)
			if err != nil {
				return err
			}

			mode, ok := parseAccessFlag(access)
			if !ok {
				return fmt.Errorf("invalid --access %q, expected R, W, or RW", access)
			}

			q := nono.NewQueryContext(caps)
			outcome := q.QueryPath(args[0], mode)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(outcome)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a nono sandbox config (JSONC)")
	cmd.Flags().StringVarP(&access, "access", "a", "R", "access level to query: R, W, or RW")
	return cmd
}

func parseAccessFlag(s string) (nono.AccessMode, bool) {
	switch s {
	case "R":
		return nono.Read, true
	case "W":
		return nono.Write, true
	case "RW":
		return nono.ReadWrite, true
	default:
		return 0, false
	}
}
