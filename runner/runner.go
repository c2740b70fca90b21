package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// Launcher starts one benchmark target and records its output into a
// log file. Implementations other than ExecLauncher exist only for
// testing the orchestration around it.
type Launcher interface {
	Launch(ctx context.Context, target Target, iterations int64, logPath string) (*Result, error)
}

// StatusAppender receives the human-readable status lines the runner
// also prints to stdout. *sweep.Logbook satisfies it.
type StatusAppender interface {
	Append(line string) error
}

// ExecLauncher launches targets as child processes and measures their
// resource usage from the exited process state.
type ExecLauncher struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewExecLauncher creates an ExecLauncher with the given per-run
// timeout. A zero timeout means no limit.
func NewExecLauncher(timeout time.Duration, logger *slog.Logger) *ExecLauncher {
	return &ExecLauncher{
		Timeout: timeout,
		Logger:  logger.With(slog.String("component", "launcher")),
	}
}

// Launch runs the target to completion, writing its combined output
// followed by a timing trailer to logPath. The trailer mirrors the
// `/usr/bin/time -v` fields the statistics extractor consumes.
func (l *ExecLauncher) Launch(
	ctx context.Context,
	target Target,
	iterations int64,
	logPath string,
) (*Result, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log %s: %w", logPath, err)
	}
	defer logFile.Close()

	args := dispatchArgs(target, iterations)
	cmd := exec.CommandContext(ctx, target.Command, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	l.Logger.Info("starting target",
		slog.String("target", target.Name),
		slog.String("command", target.Command),
		slog.Int64("iterations", iterations),
	)

	wallStart := time.Now()
	runErr := cmd.Run()
	wall := time.Since(wallStart)

	if cmd.ProcessState == nil {
		return nil, fmt.Errorf("run %s: %w", target.Name, runErr)
	}

	user := cmd.ProcessState.UserTime()
	sys := cmd.ProcessState.SystemTime()
	cpu := cpuPercent(user, sys, wall)

	if err := writeTrailer(logFile, iterations, user, sys, cpu, wall); err != nil {
		return nil, fmt.Errorf("write trailer %s: %w", logPath, err)
	}

	if err := logFile.Close(); err != nil {
		return nil, fmt.Errorf("close log %s: %w", logPath, err)
	}

	result := &Result{
		Target:     target.Name,
		Iterations: iterations,
		WallTime:   wall,
		UserTime:   user,
		SystemTime: sys,
		CPUPercent: cpu,
		LogPath:    logPath,
	}

	if runErr != nil {
		return result, fmt.Errorf("run %s: %w", target.Name, runErr)
	}

	l.Logger.Info("target finished",
		slog.String("target", target.Name),
		slog.Duration("wall_time", wall),
		slog.Duration("user_time", user),
	)

	return result, nil
}

// dispatchArgs builds the dispatcher argument list: the target's own
// arguments plus the `-i <limit>` pair when a limit was supplied.
func dispatchArgs(target Target, iterations int64) []string {
	args := make([]string, 0, len(target.Args)+2)
	args = append(args, target.Args...)

	if iterations > 0 {
		args = append(args, "-i", strconv.FormatInt(iterations, 10))
	}

	return args
}

func cpuPercent(user, sys, wall time.Duration) float64 {
	if wall <= 0 {
		return 0
	}

	return float64(user+sys) / float64(wall) * 100
}

// writeTrailer appends the timing fields to the target log in the
// textual layout the extractor's field indices depend on.
func writeTrailer(
	w io.Writer,
	iterations int64,
	user, sys time.Duration,
	cpu float64,
	wall time.Duration,
) error {
	if iterations > 0 {
		if _, err := fmt.Fprintf(w, "Max iterations: %d\n", iterations); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w,
		"User time (seconds): %.2f\n"+
			"System time (seconds): %.2f\n"+
			"Percent of CPU this job got: %d%%\n"+
			"Elapsed (wall clock) time (seconds): %.2f\n",
		user.Seconds(),
		sys.Seconds(),
		int(math.Round(cpu)),
		wall.Seconds(),
	)

	return err
}

// Runner executes the full fixed-order target list once per call.
type Runner struct {
	Launcher Launcher
	Targets  []Target
	LogDir   string
	Status   StatusAppender
	Logger   *slog.Logger
}

// NewRunner creates a Runner over the given targets. status may be
// nil, in which case status lines only go to stdout.
func NewRunner(
	launcher Launcher,
	targets []Target,
	logDir string,
	status StatusAppender,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		Launcher: launcher,
		Targets:  targets,
		LogDir:   logDir,
		Status:   status,
		Logger:   logger.With(slog.String("component", "runner")),
	}
}

// RunAll launches every target in order. A failed target is logged
// and skipped; the remaining targets still run. The returned slice
// holds the results of the launches that completed.
func (r *Runner) RunAll(ctx context.Context, iterations int64) []Result {
	results := make([]Result, 0, len(r.Targets))

	for _, target := range r.Targets {
		line := fmt.Sprintf("%s Running %s...",
			time.Now().Format(time.RFC3339), target.Name)
		fmt.Println(line)

		if r.Status != nil {
			if err := r.Status.Append(line); err != nil {
				r.Logger.Warn("failed to append status line",
					slog.String("error", err.Error()),
				)
			}
		}

		result, err := r.Launcher.Launch(
			ctx, target, iterations, r.logPath(target, iterations),
		)
		if err != nil {
			r.Logger.Warn("target failed",
				slog.String("target", target.Name),
				slog.String("error", err.Error()),
			)

			continue
		}

		results = append(results, *result)
	}

	return results
}

func (r *Runner) logPath(target Target, iterations int64) string {
	name := target.Name + ".log"
	if iterations > 0 {
		name = fmt.Sprintf("%s-%d.log", target.Name, iterations)
	}

	return filepath.Join(r.LogDir, name)
}
