// Package main provides the CLI entry point for uctbench, a benchmark
// harness for UCT search parallelization strategies.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weiihann/uctbench/config"
	"github.com/weiihann/uctbench/report"
	"github.com/weiihann/uctbench/runner"
	"github.com/weiihann/uctbench/stats"
	"github.com/weiihann/uctbench/sweep"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "uctbench",
		Short: "Benchmark harness for UCT parallelization strategies",
		Long: `Uctbench sweeps an iteration budget across powers of two, runs five
UCT search variants (plain, root-, tree-, leaf-parallel, and pickling)
through an external dispatcher, and scrapes the resulting log files
into summary tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSweepCmd(logger))
	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newStatsCmd(logger))

	return root
}

func newSweepCmd(logger *slog.Logger) *cobra.Command {
	var (
		configPath string
		minExp     int
		maxExp     int
		dispatcher string
		runDir     string
		logbook    string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the iteration budget across powers of two",
		Long: `Run every benchmark target once per iteration budget 2^i for each
exponent in the configured range, appending status lines to the shared
sweep logbook. Target failures are logged and skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("min-exp") {
				cfg.MinExp = minExp
			}
			if flags.Changed("max-exp") {
				cfg.MaxExp = maxExp
			}
			if flags.Changed("dispatcher") {
				cfg.Dispatcher = dispatcher
			}
			if flags.Changed("run-dir") {
				cfg.RunDir = runDir
			}
			if flags.Changed("logbook") {
				cfg.Logbook = logbook
			}

			return runSweep(cmd.Context(), logger, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"Path to YAML config file")
	flags.IntVar(&minExp, "min-exp", sweep.DefaultMinExp,
		"Smallest budget exponent (budget = 2^exp)")
	flags.IntVar(&maxExp, "max-exp", sweep.DefaultMaxExp,
		"Largest budget exponent")
	flags.StringVar(&dispatcher, "dispatcher", "./run.sh",
		"Dispatcher program invoked per target")
	flags.StringVar(&runDir, "run-dir", ".",
		"Directory for per-target log files")
	flags.StringVar(&logbook, "logbook", "sweep.out",
		"Shared sweep status log (truncated at start)")

	return cmd
}

func runSweep(ctx context.Context, logger *slog.Logger, cfg config.Config) error {
	if err := os.MkdirAll(cfg.RunDir, 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	logbook, err := sweep.NewLogbook(cfg.Logbook)
	if err != nil {
		return err
	}

	targets := runner.ResolveTargets(cfg.Dispatcher, cfg.Targets)
	launcher := runner.NewExecLauncher(cfg.Timeout(), logger)
	r := runner.NewRunner(launcher, targets, cfg.RunDir, logbook, logger)

	driver := sweep.NewDriver(r, logbook, logger)
	driver.EnableProgressIfInteractive()

	logger.InfoContext(ctx, "starting sweep",
		slog.Int("min_exp", cfg.MinExp),
		slog.Int("max_exp", cfg.MaxExp),
		slog.String("dispatcher", cfg.Dispatcher),
		slog.String("logbook", logbook.Path()),
	)

	if err := driver.Run(ctx, cfg.MinExp, cfg.MaxExp); err != nil {
		return err
	}

	logger.InfoContext(ctx, "sweep complete")

	return nil
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		configPath string
		dispatcher string
		runDir     string
		logbook    string
	)

	cmd := &cobra.Command{
		Use:   "run [iterations]",
		Short: "Run every benchmark target once",
		Long: `Invoke the dispatcher once per target, in fixed order. When an
iteration limit is given it is forwarded as "-i <limit>".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var iterations int64

			if len(args) == 1 {
				v, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || v <= 0 {
					return fmt.Errorf("invalid iteration limit %q", args[0])
				}

				iterations = v
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("dispatcher") {
				cfg.Dispatcher = dispatcher
			}
			if flags.Changed("run-dir") {
				cfg.RunDir = runDir
			}
			if flags.Changed("logbook") {
				cfg.Logbook = logbook
			}

			return runTargets(cmd.Context(), logger, cfg, iterations)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"Path to YAML config file")
	flags.StringVar(&dispatcher, "dispatcher", "./run.sh",
		"Dispatcher program invoked per target")
	flags.StringVar(&runDir, "run-dir", ".",
		"Directory for per-target log files")
	flags.StringVar(&logbook, "logbook", "sweep.out",
		"Shared status log (appended, never truncated)")

	return cmd
}

func runTargets(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Config,
	iterations int64,
) error {
	if err := os.MkdirAll(cfg.RunDir, 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	logbook, err := sweep.OpenLogbook(cfg.Logbook)
	if err != nil {
		return err
	}

	targets := runner.ResolveTargets(cfg.Dispatcher, cfg.Targets)
	launcher := runner.NewExecLauncher(cfg.Timeout(), logger)
	r := runner.NewRunner(launcher, targets, cfg.RunDir, logbook, logger)

	results := r.RunAll(ctx, iterations)

	logger.InfoContext(ctx, "run complete",
		slog.Int("targets_completed", len(results)),
		slog.Int("targets_total", len(targets)),
	)

	return nil
}

func newStatsCmd(logger *slog.Logger) *cobra.Command {
	var (
		dir           string
		format        string
		chartPath     string
		correctedMean bool
	)

	cmd := &cobra.Command{
		Use:   "stats <label> <tag>",
		Short: "Extract summary rows from benchmark logs",
		Long: `Scan every *.log file in a directory, extract iteration budget, CPU
utilization, user time, and mean search depth, and print one summary
row per complete log. The label and run-time tag are copied verbatim
into each row.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(logger, statsConfig{
				label:         args[0],
				tag:           args[1],
				dir:           dir,
				format:        format,
				chartPath:     chartPath,
				correctedMean: correctedMean,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", ".",
		"Directory containing *.log files")
	flags.StringVar(&format, "format", "latex",
		"Output format: latex, markdown, json")
	flags.StringVar(&chartPath, "chart", "",
		"Also write an HTML chart to this path")
	flags.BoolVar(&correctedMean, "corrected-mean", false,
		"Average depth over depth lines only instead of the historical all-lines divisor")

	return cmd
}

type statsConfig struct {
	label         string
	tag           string
	dir           string
	format        string
	chartPath     string
	correctedMean bool
}

func runStats(logger *slog.Logger, cfg statsConfig) error {
	records, err := stats.ExtractDir(
		cfg.dir,
		stats.Options{CorrectedMean: cfg.correctedMean},
		logger,
	)
	if err != nil {
		return err
	}

	rows := report.BuildRows(cfg.label, cfg.tag, records)
	if len(rows) == 0 {
		logger.Warn("no complete log files found",
			slog.String("dir", cfg.dir),
		)
	}

	switch cfg.format {
	case "latex":
		err = report.WriteLaTeX(os.Stdout, rows)
	case "markdown":
		err = report.WriteMarkdown(os.Stdout, rows)
	case "json":
		err = report.WriteJSON(os.Stdout, rows)
	default:
		return fmt.Errorf("unknown format %q", cfg.format)
	}

	if err != nil {
		return err
	}

	if cfg.chartPath != "" {
		f, err := os.Create(cfg.chartPath)
		if err != nil {
			return fmt.Errorf("create chart file: %w", err)
		}
		defer f.Close()

		title := fmt.Sprintf("%s (%s)", cfg.label, cfg.tag)
		if err := report.WriteChart(f, title, rows); err != nil {
			return err
		}
	}

	return nil
}
