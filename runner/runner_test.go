package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type launchCall struct {
	target     string
	iterations int64
	logPath    string
}

type mockLauncher struct {
	calls   []launchCall
	failFor map[string]bool
}

func (m *mockLauncher) Launch(
	_ context.Context,
	target Target,
	iterations int64,
	logPath string,
) (*Result, error) {
	m.calls = append(m.calls, launchCall{
		target:     target.Name,
		iterations: iterations,
		logPath:    logPath,
	})

	if m.failFor[target.Name] {
		return nil, fmt.Errorf("launch %s: boom", target.Name)
	}

	return &Result{Target: target.Name, Iterations: iterations}, nil
}

type recordingAppender struct {
	lines []string
}

func (a *recordingAppender) Append(line string) error {
	a.lines = append(a.lines, line)

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAllFixedOrder(t *testing.T) {
	launcher := &mockLauncher{}
	targets := ResolveTargets("./run.sh", nil)
	status := &recordingAppender{}
	r := NewRunner(launcher, targets, "logs", status, testLogger())

	results := r.RunAll(context.Background(), 512)

	want := KnownTargets()
	if len(launcher.calls) != len(want) {
		t.Fatalf("launches = %d, want %d", len(launcher.calls), len(want))
	}

	for i, call := range launcher.calls {
		if call.target != want[i] {
			t.Errorf("launch %d = %q, want %q", i, call.target, want[i])
		}
		if call.iterations != 512 {
			t.Errorf("launch %d iterations = %d, want 512", i, call.iterations)
		}
	}

	if len(results) != len(want) {
		t.Errorf("results = %d, want %d", len(results), len(want))
	}

	if len(status.lines) != len(want) {
		t.Fatalf("status lines = %d, want %d", len(status.lines), len(want))
	}

	for i, line := range status.lines {
		if !strings.Contains(line, "Running "+want[i]+"...") {
			t.Errorf("status line %d = %q, want mention of %q", i, line, want[i])
		}
	}
}

func TestRunAllContinuesOnFailure(t *testing.T) {
	launcher := &mockLauncher{failFor: map[string]bool{"tree-parallel": true}}
	targets := ResolveTargets("./run.sh", nil)
	r := NewRunner(launcher, targets, "logs", nil, testLogger())

	results := r.RunAll(context.Background(), 0)

	if len(launcher.calls) != 5 {
		t.Errorf("launches = %d, want 5 despite failure", len(launcher.calls))
	}
	if len(results) != 4 {
		t.Errorf("results = %d, want 4", len(results))
	}

	for _, res := range results {
		if res.Target == "tree-parallel" {
			t.Error("failed target should not appear in results")
		}
	}
}

func TestRunAllLogPaths(t *testing.T) {
	launcher := &mockLauncher{}
	targets := ResolveTargets("./run.sh", nil)
	r := NewRunner(launcher, targets, "logs", nil, testLogger())

	r.RunAll(context.Background(), 1024)

	if got := launcher.calls[0].logPath; got != "logs/plain-1024.log" {
		t.Errorf("log path = %q, want logs/plain-1024.log", got)
	}

	launcher.calls = nil
	r.RunAll(context.Background(), 0)

	if got := launcher.calls[0].logPath; got != "logs/plain.log" {
		t.Errorf("log path without budget = %q, want logs/plain.log", got)
	}
}

func TestDispatchArgs(t *testing.T) {
	target := Target{Name: "plain", Command: "./run.sh", Args: []string{"plain"}}

	got := dispatchArgs(target, 0)
	if len(got) != 1 || got[0] != "plain" {
		t.Errorf("args without limit = %v, want [plain]", got)
	}

	got = dispatchArgs(target, 2048)
	want := []string{"plain", "-i", "2048"}
	if len(got) != len(want) {
		t.Fatalf("args with limit = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveTargetsOverride(t *testing.T) {
	overrides := map[string][]string{
		"pickling": {"pypy", "uct-pickling.py"},
	}

	targets := ResolveTargets("./run.sh", overrides)

	if len(targets) != 5 {
		t.Fatalf("targets = %d, want 5", len(targets))
	}

	last := targets[4]
	if last.Name != "pickling" {
		t.Errorf("last target = %q, want pickling", last.Name)
	}
	if last.Command != "pypy" {
		t.Errorf("override command = %q, want pypy", last.Command)
	}
	if len(last.Args) != 1 || last.Args[0] != "uct-pickling.py" {
		t.Errorf("override args = %v, want [uct-pickling.py]", last.Args)
	}

	first := targets[0]
	if first.Command != "./run.sh" || first.Args[0] != "plain" {
		t.Errorf("default target = %+v, want dispatcher invocation", first)
	}
}

func TestWriteTrailer(t *testing.T) {
	var buf bytes.Buffer

	err := writeTrailer(&buf, 512,
		1500*time.Millisecond, 500*time.Millisecond, 50, 4*time.Second)
	if err != nil {
		t.Fatalf("writeTrailer failed: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"Max iterations: 512\n",
		"User time (seconds): 1.50\n",
		"System time (seconds): 0.50\n",
		"Percent of CPU this job got: 50%\n",
		"Elapsed (wall clock) time (seconds): 4.00\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("trailer missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteTrailerWithoutBudget(t *testing.T) {
	var buf bytes.Buffer

	if err := writeTrailer(&buf, 0, time.Second, 0, 100, time.Second); err != nil {
		t.Fatalf("writeTrailer failed: %v", err)
	}

	if strings.Contains(buf.String(), "Max iterations") {
		t.Error("trailer should omit the iterations line without a budget")
	}
}

func TestCPUPercent(t *testing.T) {
	got := cpuPercent(3*time.Second, time.Second, 2*time.Second)
	if got != 200 {
		t.Errorf("cpuPercent = %v, want 200", got)
	}

	if got := cpuPercent(time.Second, 0, 0); got != 0 {
		t.Errorf("cpuPercent with zero wall = %v, want 0", got)
	}
}
