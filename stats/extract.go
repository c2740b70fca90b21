// Package stats extracts timing, CPU utilization, and search-depth
// figures from benchmark log files.
//
// The field positions mirror the log layout: the UCT programs print
// "Max iterations: N" and "Max search depth: N" lines, and the runner
// appends a `/usr/bin/time -v` style trailer with "User time
// (seconds): F" and "Percent of CPU this job got: N%" lines.
package stats

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	mstats "github.com/montanaflynn/stats"
)

// Options controls extraction behavior.
type Options struct {
	// CorrectedMean computes the mean over depth-bearing lines only
	// instead of the historical running mean whose divisor is the
	// line number within the whole file.
	CorrectedMean bool
}

// Record holds the fields extracted from one log file.
type Record struct {
	File         string
	IterationMax int64
	TimeSeconds  float64
	CPUPercent   float64
	MeanDepth    float64
	Depths       []float64

	HasIterations bool
	HasTime       bool
	HasCPU        bool
	HasDepth      bool
}

// Complete reports whether the record may be emitted as a summary
// row. The time field deliberately stays out of the guard: a record
// without it is still emitted, with a zero normalized time.
func (r *Record) Complete() bool {
	return r.HasIterations && r.HasCPU && r.HasDepth
}

// NormalizedTime approximates single-core-equivalent runtime:
// user time divided by CPU utilization, rounded to 3 decimal places.
func (r *Record) NormalizedTime() float64 {
	if !r.HasTime || r.CPUPercent == 0 {
		return 0
	}

	return math.Round(r.TimeSeconds/r.CPUPercent*100*1000) / 1000
}

// Extract scans one log file. Field rules, in whitespace-field
// positions counted from 1:
//
//   - first line containing "iterations": field 3 is the budget
//   - first line containing "User time": field 4 is user seconds
//   - first line containing "CPU": field 7, trailing "%" stripped
//   - every line containing "depth": field 4 accumulates into a sum;
//     the running mean divides by the line number within the file,
//     and the value at the last such line becomes MeanDepth
//
// The first matching line decides a field even when it is too short
// to hold the expected position; the field then counts as absent.
func Extract(r io.Reader, opts Options) (*Record, error) {
	rec := &Record{}

	var (
		seenIterations bool
		seenTime       bool
		seenCPU        bool
		depthSum       float64
		lineNum        int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := strings.Fields(line)

		if !seenIterations && strings.Contains(line, "iterations") {
			seenIterations = true

			if len(fields) >= 3 {
				v, err := strconv.ParseInt(fields[2], 10, 64)
				if err != nil {
					return nil, fmt.Errorf(
						"line %d: parse iterations %q: %w",
						lineNum, fields[2], err,
					)
				}

				rec.IterationMax = v
				rec.HasIterations = true
			}
		}

		if !seenTime && strings.Contains(line, "User time") {
			seenTime = true

			if len(fields) >= 4 {
				v, err := strconv.ParseFloat(fields[3], 64)
				if err != nil {
					return nil, fmt.Errorf(
						"line %d: parse user time %q: %w",
						lineNum, fields[3], err,
					)
				}

				rec.TimeSeconds = v
				rec.HasTime = true
			}
		}

		if !seenCPU && strings.Contains(line, "CPU") {
			seenCPU = true

			if len(fields) >= 7 {
				raw := strings.TrimSuffix(fields[6], "%")

				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf(
						"line %d: parse CPU percent %q: %w",
						lineNum, fields[6], err,
					)
				}

				rec.CPUPercent = v
				rec.HasCPU = true
			}
		}

		if strings.Contains(line, "depth") && len(fields) >= 4 {
			v, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf(
					"line %d: parse depth %q: %w",
					lineNum, fields[3], err,
				)
			}

			depthSum += v
			rec.Depths = append(rec.Depths, v)
			rec.MeanDepth = depthSum / float64(lineNum)
			rec.HasDepth = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if opts.CorrectedMean && rec.HasDepth {
		mean, err := mstats.Mean(rec.Depths)
		if err != nil {
			return nil, fmt.Errorf("mean depth: %w", err)
		}

		rec.MeanDepth = mean
	}

	return rec, nil
}

// ExtractDir extracts every *.log file in dir, in lexical filename
// order so repeated scans of an unchanged directory produce identical
// output. Any unreadable or malformed file aborts the whole scan.
// Records missing one of the guarded fields are returned with
// Complete() == false; the caller decides whether to skip them.
func ExtractDir(dir string, opts Options, logger *slog.Logger) ([]*Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}

	records := make([]*Record, 0, len(paths))

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}

		rec, err := Extract(f, opts)
		f.Close()

		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", path, err)
		}

		rec.File = filepath.Base(path)

		if !rec.Complete() {
			logger.Debug("skipping incomplete log",
				slog.String("file", rec.File),
			)
		} else if !rec.HasTime {
			logger.Warn("log has no user time field, normalized time is zero",
				slog.String("file", rec.File),
			)
		}

		records = append(records, rec)
	}

	return records, nil
}
