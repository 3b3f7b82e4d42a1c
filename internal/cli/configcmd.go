package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/exectimer/internal/config"
	"github.com/alexander-akhmetov/exectimer/timer"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage exectimer configuration",
	Long:  `View and manage exectimer configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with source annotations",
	Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/exectimer/config.yaml)
  3. Environment variables (EXECTIMER_*)
  4. Local config (.exectimer/config.yaml)
  5. CLI flags (highest precedence)`,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	writeConfig(cmd.OutOrStdout(), cfg)
	return nil
}

// writeConfig prints cfg as the timer would see it. Rejected values are
// listed with the default that replaces them.
func writeConfig(w io.Writer, cfg *config.Config) {
	tc, warnings, err := timer.ConfigFromValues(cfg.Timer)
	var verr *timer.ValidationError
	if errors.As(err, &verr) {
		warnings = verr.Warnings
	}

	fmt.Fprintln(w, render(w, titleStyle, "# Exectimer Configuration"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "## Sources (in order of precedence)")
	for _, src := range cfg.Sources() {
		fmt.Fprintf(w, "  - %s\n", src)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Directories")
	fmt.Fprintf(w, "  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		fmt.Fprintf(w, "  Local config:  %s\n", cfg.LocalDir())
	} else {
		fmt.Fprintf(w, "  Local config:  (none detected)\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Timer Settings")
	fmt.Fprintf(w, "  %s   %t\n", render(w, labelStyle, timer.OptSaveMeasure+":"), tc.SaveMeasure)
	fmt.Fprintf(w, "  %s    %t\n", render(w, labelStyle, timer.OptNanoseconds+":"), tc.Nanoseconds)
	fmt.Fprintf(w, "  %s         %d\n", render(w, labelStyle, timer.OptIterations+":"), tc.Iterations)
	fmt.Fprintf(w, "  %s %t\n", render(w, labelStyle, timer.OptReturnMeasure+":"), tc.ReturnMeasure)
	fmt.Fprintf(w, "  %s  %t\n", render(w, labelStyle, timer.OptPrintMeasure+":"), tc.PrintMeasure)
	if tc.MaxSamples > 0 {
		fmt.Fprintf(w, "  %s    %d\n", render(w, labelStyle, timer.OptMaxSamples+":"), tc.MaxSamples)
	} else {
		fmt.Fprintf(w, "  %s    (unbounded)\n", render(w, labelStyle, timer.OptMaxSamples+":"))
	}
	fmt.Fprintf(w, "  %s         %t\n", render(w, labelStyle, timer.OptStrict+":"), tc.Strict)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Output Settings")
	fmt.Fprintf(w, "  format: %s\n", cfg.Output.Format)

	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Warnings")
		for _, warn := range warnings {
			fmt.Fprintf(w, "  - %s %s\n", render(w, warningStyle, "warning:"), warn)
		}
	}
}
