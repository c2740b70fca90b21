package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/weiihann/uctbench/runner"
)

// DefaultMinExp and DefaultMaxExp bound the default sweep: iteration
// budgets from 2^10 up to and including 2^30.
const (
	DefaultMinExp = 10
	DefaultMaxExp = 30
)

// TargetRunner runs the full benchmark target list once for a given
// iteration budget. *runner.Runner satisfies it.
type TargetRunner interface {
	RunAll(ctx context.Context, iterations int64) []runner.Result
}

// Driver executes one budget sweep. Target failures never stop the
// sweep; the driver unconditionally advances to the next exponent.
type Driver struct {
	Runner       TargetRunner
	Logbook      *Logbook
	Logger       *slog.Logger
	ShowProgress bool
}

// NewDriver creates a Driver writing status lines to logbook.
func NewDriver(r TargetRunner, logbook *Logbook, logger *slog.Logger) *Driver {
	return &Driver{
		Runner:  r,
		Logbook: logbook,
		Logger:  logger.With(slog.String("component", "sweep")),
	}
}

// Budgets expands an inclusive exponent range into iteration budgets.
func Budgets(minExp, maxExp int) ([]int64, error) {
	if minExp < 0 || maxExp > 62 || minExp > maxExp {
		return nil, fmt.Errorf(
			"invalid exponent range [%d, %d]", minExp, maxExp,
		)
	}

	budgets := make([]int64, 0, maxExp-minExp+1)
	for i := minExp; i <= maxExp; i++ {
		budgets = append(budgets, int64(1)<<uint(i))
	}

	return budgets, nil
}

// Run sweeps every exponent in [minExp, maxExp], invoking the target
// runner once per budget. The returned error only reflects setup
// problems; child failures are absorbed.
func (d *Driver) Run(ctx context.Context, minExp, maxExp int) error {
	budgets, err := Budgets(minExp, maxExp)
	if err != nil {
		return err
	}

	if err := d.writeHeader(); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if d.ShowProgress {
		bar = progressbar.Default(int64(len(budgets)))
	}

	for i, budget := range budgets {
		line := fmt.Sprintf("Sweep: budget %d (2^%d)", budget, minExp+i)
		fmt.Println(line)

		if err := d.Logbook.Append(line); err != nil {
			return fmt.Errorf("log sweep status: %w", err)
		}

		results := d.Runner.RunAll(ctx, budget)

		d.Logger.Info("budget complete",
			slog.Int64("budget", budget),
			slog.Int("targets_completed", len(results)),
		)

		if bar != nil {
			if err := bar.Add(1); err != nil {
				d.Logger.Warn("progress bar update failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return nil
}

func (d *Driver) writeHeader() error {
	header := fmt.Sprintf("uctbench sweep %s started %s",
		uuid.NewString(),
		time.Now().Format(time.RFC3339),
	)

	if err := d.Logbook.Append(header); err != nil {
		return fmt.Errorf("write logbook header: %w", err)
	}

	for _, line := range hostHeader() {
		if err := d.Logbook.Append(line); err != nil {
			return fmt.Errorf("write logbook header: %w", err)
		}
	}

	return nil
}

// interactive reports whether stderr is a terminal; the progress bar
// is only useful there.
func interactive() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// EnableProgressIfInteractive turns the progress bar on when stderr
// is attached to a terminal.
func (d *Driver) EnableProgressIfInteractive() {
	d.ShowProgress = interactive()
}
