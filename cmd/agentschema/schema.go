package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bazelment/yoloswe/agentschema/universal"
)

var schemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the universal event JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := schemaOut
		if out == "" {
			out = cfg.SchemaOut
		}
		if out == "" || out == "-" {
			return universal.WriteSchema(cmd.OutOrStdout())
		}

		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("create schema directory: %w", err)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create schema file: %w", err)
		}
		if err := universal.WriteSchema(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		newLogger(cfg, cmd.ErrOrStderr()).Info("wrote schema", "path", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&schemaOut, "out", "o", "", "Write the schema to this file instead of stdout")
}
