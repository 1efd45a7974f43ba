package calibration

import (
	"bytes"
	"context"
	"reflect"
	"runtime"
	"strings"
	"testing"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/ui"
)

func TestGenerateWorkerCounts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		max  int
		want []int
	}{
		{1, []int{1}},
		{2, []int{1, 2}},
		{4, []int{1, 2, 4}},
		{6, []int{1, 2, 4, 6}},
		{8, []int{1, 2, 4, 8}},
		{12, []int{1, 2, 4, 8, 12}},
	}
	for _, tt := range tests {
		if got := GenerateWorkerCounts(tt.max); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("GenerateWorkerCounts(%d) = %v, want %v", tt.max, got, tt.want)
		}
	}

	counts := GenerateWorkerCounts(0)
	if counts[0] != 1 || counts[len(counts)-1] != runtime.NumCPU() {
		t.Errorf("GenerateWorkerCounts(0) = %v, want 1..%d", counts, runtime.NumCPU())
	}
}

func TestGenerateQuickWorkerCounts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		max  int
		want []int
	}{
		{1, []int{1}},
		{2, []int{1, 2}},
		{3, []int{1, 3}},
		{16, []int{1, 8, 16}},
	}
	for _, tt := range tests {
		if got := GenerateQuickWorkerCounts(tt.max); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("GenerateQuickWorkerCounts(%d) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestRun(t *testing.T) {
	t.Parallel()
	results, best := Run(context.Background(), Options{N: 100000, Counts: []int{1, 2, 4}, Repeat: 2})
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("workers=%d: unexpected error %v", res.Workers, res.Err)
		}
	}
	if best != 1 && best != 2 && best != 4 {
		t.Errorf("best = %d, want one of the measured counts", best)
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, best := Run(ctx, Options{N: 1000, Counts: []int{1, 2}})
	if best != 0 {
		t.Errorf("best = %d, want 0 after cancellation", best)
	}
	for _, res := range results {
		if !apperrors.IsContextError(res.Err) {
			t.Errorf("workers=%d: err = %v, want context error", res.Workers, res.Err)
		}
	}
}

func TestRunInvalidWorkerCount(t *testing.T) {
	t.Parallel()
	results, best := Run(context.Background(), Options{N: 10, Counts: []int{0, 2}})
	if results[0].Err == nil {
		t.Error("zero workers should be rejected")
	}
	if best != 2 {
		t.Errorf("best = %d, want 2", best)
	}
}

func TestRunCalibrationOutput(t *testing.T) {
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(orig) })

	var buf bytes.Buffer
	code := RunCalibration(context.Background(), &buf, 10000, 2, nil)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"Calibration Summary", "1 (serial)", "(Optimal)", "-threads"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunCalibrationCanceled(t *testing.T) {
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(orig) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	code := RunCalibration(ctx, &buf, 10000, 2, nil)
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(buf.String(), "N/A") {
		t.Errorf("failed runs should show N/A:\n%s", buf.String())
	}
}
