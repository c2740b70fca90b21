// Package runner manages execution of the UCT benchmark targets
// through an external dispatcher.
package runner

import "time"

// Result holds the measured outcome of one target launch.
type Result struct {
	Target     string        `json:"target"`
	Iterations int64         `json:"iterations,omitempty"`
	WallTime   time.Duration `json:"wall_time"`
	UserTime   time.Duration `json:"user_time"`
	SystemTime time.Duration `json:"system_time"`
	CPUPercent float64       `json:"cpu_percent"`
	LogPath    string        `json:"log_path"`
}
