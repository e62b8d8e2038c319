package main

import (
	"github.com/spf13/cobra"
)

var (
	reverseThreadID string
	reverseTurnID   string
)

var reverseCmd = &cobra.Command{
	Use:   "reverse [file]",
	Short: "Convert universal events back into backend NDJSON",
	Long: `Reverse reads universal event envelopes (as written by convert) or bare
universal events and writes one backend line per event. Only messages and
errors have a backend form; other events are logged and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := newPipeline(cmd, cfg, reverseThreadID, reverseTurnID)
		if err != nil {
			return err
		}

		in, err := openInput(cmd, args)
		if err != nil {
			return err
		}
		defer in.Close()

		_, err = p.Reverse(cmd.Context(), in, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(reverseCmd)
	reverseCmd.Flags().StringVar(&reverseThreadID, "thread-id", "", "Thread id for events without a session (default: config placeholder)")
	reverseCmd.Flags().StringVar(&reverseTurnID, "turn-id", "", "Turn id for reverse conversions (default: config placeholder)")
}
