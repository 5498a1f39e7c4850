package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"corec/internal/diagfmt"
	"corec/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "corec",
	Short: "corec language compiler and toolchain",
	Long:  `corec compiles a small statically typed language to textual LLVM IR (.ll) modules; it does not assemble or link them.`,
}

var (
	timeoutCancel   context.CancelFunc
	timeoutDuration time.Duration
)

func main() {
	rootCmd.Version = version.Version

	rootCmd.PersistentPreRunE = applyTimeout
	rootCmd.PersistentPostRun = cleanupTimeout

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show phase timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyTimeout(cmd *cobra.Command, _ []string) error {
	secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
	if err != nil {
		return fmt.Errorf("failed to read timeout flag: %w", err)
	}
	if secs <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}

	timeoutDuration = time.Duration(secs) * time.Second
	ctx, cancel := context.WithTimeout(cmd.Context(), timeoutDuration)
	timeoutCancel = cancel

	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(os.Stderr, "corec: command timed out after %s\n", timeoutDuration)
			os.Exit(1)
		}
	}()

	return nil
}

func cleanupTimeout(*cobra.Command, []string) {
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
}

// colorEnabled resolves the --color flag and out's TTY-ness into a
// single on/off decision.
func colorEnabled(cmd *cobra.Command, out *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return diagfmt.IsTTY(out)
	}
}
