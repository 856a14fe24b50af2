package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/nono/internal/nono"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report whether this host can enforce a sandbox, and why",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(nono.Support())
		},
	}
}
