package stats

import (
	"fmt"

	mstats "github.com/montanaflynn/stats"
)

// DepthSummary aggregates the depth samples of one log file.
type DepthSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes summary statistics over the depth samples.
func Summarize(depths []float64) (DepthSummary, error) {
	if len(depths) == 0 {
		return DepthSummary{}, fmt.Errorf("no depth samples")
	}

	mean, err := mstats.Mean(depths)
	if err != nil {
		return DepthSummary{}, fmt.Errorf("mean: %w", err)
	}

	minV, err := mstats.Min(depths)
	if err != nil {
		return DepthSummary{}, fmt.Errorf("min: %w", err)
	}

	maxV, err := mstats.Max(depths)
	if err != nil {
		return DepthSummary{}, fmt.Errorf("max: %w", err)
	}

	stdDev, err := mstats.StandardDeviation(depths)
	if err != nil {
		return DepthSummary{}, fmt.Errorf("stddev: %w", err)
	}

	return DepthSummary{
		Count:  len(depths),
		Mean:   mean,
		Min:    minV,
		Max:    maxV,
		StdDev: stdDev,
	}, nil
}
