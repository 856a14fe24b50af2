package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/nono/internal/nonoschema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the sandbox config format",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := nonoschema.Generate()
			if err != nil {
				return fmt.Errorf("generate schema: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
