package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/exectimer/internal/config"
	"github.com/alexander-akhmetov/exectimer/internal/debug"
	"github.com/alexander-akhmetov/exectimer/internal/export"
	"github.com/alexander-akhmetov/exectimer/timer"
	"github.com/alexander-akhmetov/exectimer/timer/promexport"
)

// runFlags holds the flags of the run command. Timer flags only override
// the configuration when they were given on the command line.
type runFlags struct {
	iterations  int
	nanoseconds bool
	noSave      bool
	printEach   bool
	strict      bool
	maxSamples  int
	format      string
	textfile    string
	showOutput  bool
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run [flags] -- command [args...]",
	Short: "Time a command",
	Long: `Run a command n_iter times and time every run.

The command's own output is discarded unless --show-output is set (with
EXECTIMER_DEBUG=1 its stderr is kept). A run that exits with a non-zero
status stops the remaining iterations; the samples recorded so far are
still summarized.

Examples:
  exectimer run -- sleep 0.1
  exectimer run -n 10 --format json -- go version
  exectimer run -n 5 --ns --textfile /var/lib/node_exporter/build.prom -- make build`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	flags := runCmd.Flags()
	flags.SetInterspersed(false)
	flags.IntVarP(&runOpts.iterations, "iterations", "n", timer.DefaultIterations, "Number of runs (n_iter)")
	flags.BoolVar(&runOpts.nanoseconds, "ns", false, "Record samples in nanoseconds")
	flags.BoolVar(&runOpts.noSave, "no-save", false, "Do not keep samples (disables the summary)")
	flags.BoolVar(&runOpts.printEach, "print-each", false, "Print a report after every run")
	flags.BoolVar(&runOpts.strict, "strict", false, "Fail on invalid timer options instead of warning")
	flags.IntVar(&runOpts.maxSamples, "max-samples", timer.DefaultMaxSamples, "Keep only the most recent N samples (0 = all)")
	flags.StringVar(&runOpts.format, "format", "", "Summary format: table, json or none (default: from config)")
	flags.StringVar(&runOpts.textfile, "textfile", "", "Write Prometheus metrics to this file")
	flags.BoolVar(&runOpts.showOutput, "show-output", false, "Pass the command's output through")
}

// timerValues returns the timer options set by flags for which changed
// reports true.
func (f runFlags) timerValues(changed func(name string) bool) map[string]any {
	values := make(map[string]any)
	if changed("iterations") {
		values[timer.OptIterations] = f.iterations
	}
	if changed("ns") {
		values[timer.OptNanoseconds] = f.nanoseconds
	}
	if changed("no-save") {
		values[timer.OptSaveMeasure] = !f.noSave
	}
	if changed("print-each") {
		values[timer.OptPrintMeasure] = f.printEach
	}
	if changed("strict") {
		values[timer.OptStrict] = f.strict
	}
	if changed("max-samples") {
		values[timer.OptMaxSamples] = f.maxSamples
	}
	return values
}

func runRun(cmd *cobra.Command, args []string) error {
	loaded := debug.Stopwatch("config load")
	cfg, err := config.Load()
	loaded()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyCLIFlags(runOpts.timerValues(cmd.Flags().Changed))
	cfg.ApplyOutputFlag(runOpts.format)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return execute(ctx, cfg, runOpts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// execute times args with a recorder built from cfg and writes the summary.
func execute(ctx context.Context, cfg *config.Config, opts runFlags, args []string, stdout, stderr io.Writer) error {
	reg := prometheus.NewRegistry()
	rec, err := timer.NewFromValues(cfg.Timer,
		timer.WithOutput(stdout),
		timer.WithWarningHandler(warningPrinter(stderr)),
		timer.WithObserver(promexport.New(reg)),
	)
	if err != nil {
		return fmt.Errorf("configure timer: %w", err)
	}

	key := timer.FuncKey(filepath.Base(args[0]))
	debug.Logf("timing %q, %d iterations", strings.Join(args, " "), rec.Config().Iterations)

	runErr := timer.Do(rec, key, func() error {
		return runOnce(ctx, args, opts.showOutput, stdout, stderr)
	})

	if err := writeSummary(stdout, cfg.Output.Format, rec); err != nil {
		return err
	}
	if opts.textfile != "" {
		if err := prometheus.WriteToTextfile(opts.textfile, reg); err != nil {
			return fmt.Errorf("write textfile: %w", err)
		}
		debug.Logf("metrics written to %s", opts.textfile)
	}

	if runErr != nil {
		return fmt.Errorf("run %s: %w", key.Name, runErr)
	}
	return nil
}

func runOnce(ctx context.Context, args []string, showOutput bool, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // user-supplied command is the point
	switch {
	case showOutput:
		cmd.Stdout = stdout
		cmd.Stderr = stderr
	case debug.Enabled():
		cmd.Stderr = stderr
	}
	return cmd.Run()
}

func writeSummary(w io.Writer, format string, rec *timer.Recorder) error {
	if format == config.FormatNone || !rec.Config().SaveMeasure {
		return nil
	}

	store := rec.Measured()
	switch format {
	case config.FormatJSON:
		data, err := export.JSON(store, rec.Resolution())
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		if isTerminal(w) {
			fmt.Fprintln(w)
			fmt.Fprintln(w, titleStyle.Render("Summary ("+rec.Resolution().Unit()+")"))
		}
		return export.Table(w, store, rec.Resolution())
	}
}

func warningPrinter(w io.Writer) func(timer.Warning) {
	return func(warn timer.Warning) {
		fmt.Fprintf(w, "%s %s\n", render(w, warningStyle, "warning:"), warn)
	}
}
