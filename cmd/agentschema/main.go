// Command agentschema converts agent backend event streams to and from the
// universal event schema.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bazelment/yoloswe/agentschema/internal/backend"
	"github.com/bazelment/yoloswe/agentschema/internal/config"
	"github.com/bazelment/yoloswe/agentschema/internal/pipeline"
)

var (
	configPath  string
	backendName string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "agentschema",
	Short: "Convert agent event streams to and from the universal schema",
	Long: `Agentschema reads newline-delimited JSON emitted by Codex, Claude Code,
OpenCode or Amp and writes one universal event envelope per line. The
reverse command turns universal events back into backend lines, and the
schema command prints the JSON Schema of the envelope.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&backendName, "backend", "b", "", fmt.Sprintf("Backend name %v (overrides config)", backend.Names()))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if backendName != "" {
		cfg.Backend = backendName
	}
	return cfg, nil
}

// newLogger creates a structured logger with the configured verbosity.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newPipeline builds the stream driver for the configured backend.
func newPipeline(cmd *cobra.Command, cfg *config.Config, threadID, turnID string) (*pipeline.Pipeline, error) {
	if cfg.Backend == "" {
		return nil, fmt.Errorf("no backend selected; pass --backend or set backend in %s", configPath)
	}
	conv, err := backend.New(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if threadID == "" {
		threadID = cfg.Placeholder.ThreadID
	}
	if turnID == "" {
		turnID = cfg.Placeholder.TurnID
	}
	return pipeline.New(pipeline.Config{
		Converter: conv,
		Logger:    newLogger(cfg, cmd.ErrOrStderr()),
		ThreadID:  threadID,
		TurnID:    turnID,
		Pretty:    cfg.PrettyOutput(isTerminal(cmd.OutOrStdout())),
	})
}

// openInput returns the named file, or the command's stdin for no argument
// or "-".
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
