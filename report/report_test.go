package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/weiihann/uctbench/stats"
)

func sampleRow() Row {
	return Row{
		Label:          "uct",
		Tag:            "pypy",
		File:           "plain-500.log",
		IterationMax:   500,
		CPUPercent:     80,
		NormalizedTime: 5,
		MeanDepth:      1.6,
	}
}

func TestWriteLaTeX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLaTeX(&buf, []Row{sampleRow()}); err != nil {
		t.Fatalf("WriteLaTeX failed: %v", err)
	}

	want := `uct & pypy & 500 & 80\% & 5.000 & 1.6 \\ \hline` + "\n"
	if buf.String() != want {
		t.Errorf("row = %q, want %q", buf.String(), want)
	}
}

func TestWriteLaTeXEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLaTeX(&buf, nil); err != nil {
		t.Fatalf("WriteLaTeX failed: %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("expected no output for zero rows, got %q", buf.String())
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, []Row{sampleRow()}); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "| Label | Tag |") {
		t.Error("missing table header")
	}
	if !strings.Contains(output, "| uct | pypy | 500 | 80% | 5.000 | 1.6 |") {
		t.Errorf("missing row in output:\n%s", output)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []Row{sampleRow()}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var parsed []Row
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed) != 1 {
		t.Fatalf("expected 1 row, got %d", len(parsed))
	}
	if parsed[0].IterationMax != 500 {
		t.Errorf("iteration_max = %d, want 500", parsed[0].IterationMax)
	}
}

func TestBuildRowsGuard(t *testing.T) {
	records := []*stats.Record{
		{
			File:          "complete.log",
			IterationMax:  500,
			TimeSeconds:   4,
			CPUPercent:    80,
			MeanDepth:     1.6,
			Depths:        []float64{3, 5},
			HasIterations: true,
			HasTime:       true,
			HasCPU:        true,
			HasDepth:      true,
		},
		{
			File:          "incomplete.log",
			IterationMax:  500,
			HasIterations: true,
		},
	}

	rows := BuildRows("uct", "pypy", records)

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].File != "complete.log" {
		t.Errorf("row file = %q, want complete.log", rows[0].File)
	}
	if rows[0].NormalizedTime != 5 {
		t.Errorf("normalized time = %v, want 5", rows[0].NormalizedTime)
	}
	if rows[0].Depth == nil || rows[0].Depth.Count != 2 {
		t.Error("expected depth summary for complete record")
	}
}

func TestBuildRowsMissingTime(t *testing.T) {
	records := []*stats.Record{
		{
			File:          "no-time.log",
			IterationMax:  500,
			CPUPercent:    80,
			MeanDepth:     1.6,
			Depths:        []float64{3, 5},
			HasIterations: true,
			HasCPU:        true,
			HasDepth:      true,
		},
	}

	rows := BuildRows("uct", "pypy", records)

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (time is not part of the guard)", len(rows))
	}
	if rows[0].NormalizedTime != 0 {
		t.Errorf("normalized time = %v, want 0 without a time field",
			rows[0].NormalizedTime)
	}
}

func TestFormatNum(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{80, "80"},
		{186.5, "186.5"},
		{1.6, "1.6"},
		{0, "0"},
	}

	for _, tt := range tests {
		got := formatNum(tt.input)
		if got != tt.want {
			t.Errorf("formatNum(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
