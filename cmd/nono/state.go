package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/nono/internal/nono"
)

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <config.jsonc>",
		Short: "Print the canonical SandboxState JSON for a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caps, err := loadCapsOrDefault(args[0])
			if err != nil {
				return err
			}
			text, err := nono.FromCaps(caps).ToText()
			if err != nil {
				return fmt.Errorf("encode sandbox state: %w", err)
			}
			fmt.Println(text)
			return nil
		},
	}
}
