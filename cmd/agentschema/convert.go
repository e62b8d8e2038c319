package main

import (
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert backend NDJSON into universal event envelopes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := newPipeline(cmd, cfg, "", "")
		if err != nil {
			return err
		}

		in, err := openInput(cmd, args)
		if err != nil {
			return err
		}
		defer in.Close()

		_, err = p.Convert(cmd.Context(), in, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
