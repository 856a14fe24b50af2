package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/nono/internal/nonoimport"
)

func newImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import permission settings from other tools",
	}
	importCmd.AddCommand(newImportClaudeCmd())
	return importCmd
}

func newImportClaudeCmd() *cobra.Command {
	var sourcePath string
	var outPath string
	var extends string

	cmd := &cobra.Command{
		Use:   "claude",
		Short: "Import permissions from a Claude Code settings.json file",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := nonoimport.ImportFromClaude(sourcePath, nonoimport.ImportOptions{Extends: extends})
			if err != nil {
				return fmt.Errorf("import claude settings: %w", err)
			}

			for _, w := range result.Warnings {
				logger.Warn(w)
			}

			if outPath == "" {
				text, err := nonoimport.FormatConfigWithComment(result.Config)
				if err != nil {
					return err
				}
				fmt.Print(text)
				return nil
			}

			if err := nonoimport.WriteConfig(result.Config, outPath); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			logger.Info("imported claude settings", "source", result.SourcePath, "rules", result.RulesImported, "out", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "path to Claude settings.json (default: ~/.claude/settings.json)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the resulting config to this path instead of stdout")
	cmd.Flags().StringVar(&extends, "extends", "", "set the resulting config's extends field")
	return cmd
}
