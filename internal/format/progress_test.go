package format

import (
	"strings"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func closeTo(got, want, tolerance time.Duration) bool {
	diff := got - want
	return diff >= -tolerance && diff <= tolerance
}

// TestProgressWithETA_SequentialVariants replays the updates of two variants
// that run one after another, as ExecuteVariants reports them: chunk
// fractions for the running variant, then its final 1.
func TestProgressWithETA_SequentialVariants(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProgressWithClock(2, clock.now)

	steps := []struct {
		after   time.Duration
		index   int
		value   float64
		wantAvg float64
		wantETA time.Duration
	}{
		{time.Second, 0, 0.5, 0.25, 3 * time.Second},
		{time.Second, 0, 1, 0.5, 2 * time.Second},
		// Slower second variant: the rate is smoothed, not replaced.
		{2 * time.Second, 1, 0.5, 0.75, 1176470588 * time.Nanosecond},
		{time.Second, 1, 1, 1, 0},
	}
	for i, s := range steps {
		clock.advance(s.after)
		avg, eta := p.UpdateWithETA(s.index, s.value)
		if avg != s.wantAvg {
			t.Errorf("step %d: average = %v, want %v", i, avg, s.wantAvg)
		}
		if !closeTo(eta, s.wantETA, time.Millisecond) {
			t.Errorf("step %d: ETA = %v, want %v", i, eta, s.wantETA)
		}
	}
}

func TestProgressWithETA_RepeatedUpdateKeepsRate(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProgressWithClock(1, clock.now)

	clock.advance(time.Second)
	_, first := p.UpdateWithETA(0, 0.25)
	// The final update of a variant can repeat its last chunk fraction.
	clock.advance(10 * time.Second)
	_, again := p.UpdateWithETA(0, 0.25)
	if first != 3*time.Second || again != first {
		t.Errorf("ETA = %v then %v, want 3s both times", first, again)
	}
}

func TestProgressWithETA_UnknownBeforeProgress(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProgressWithClock(3, clock.now)
	if eta := p.GetETA(); eta != 0 {
		t.Errorf("ETA before any update = %v, want 0", eta)
	}
	// No time has passed: no rate can be derived yet.
	if _, eta := p.UpdateWithETA(0, 0.5); eta != 0 {
		t.Errorf("ETA without elapsed time = %v, want 0", eta)
	}
}

func TestProgressWithETA_CappedForSlowRuns(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProgressWithClock(1, clock.now)
	clock.advance(1000 * time.Hour)
	if _, eta := p.UpdateWithETA(0, 0.001); eta != maxETA {
		t.Errorf("ETA = %v, want cap %v", eta, maxETA)
	}
}

func TestProgressState(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(4)
	ps.Update(0, 1)
	ps.Update(1, 0.5)
	ps.Update(2, 7)  // clamped to 1
	ps.Update(3, -1) // clamped to 0
	ps.Update(9, 1)  // ignored
	ps.Update(-1, 1) // ignored
	if avg := ps.CalculateAverage(); avg != 0.625 {
		t.Errorf("average = %v, want 0.625", avg)
	}
	if avg := NewProgressState(0).CalculateAverage(); avg != 0 {
		t.Errorf("empty average = %v, want 0", avg)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		want     string
	}{
		{0, "░░░░░░░░"},
		{0.25, "██░░░░░░"},
		{0.99, "███████░"},
		{1, "████████"},
		{1.5, "████████"},
		{-0.2, "░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.progress, 8); got != tt.want {
			t.Errorf("ProgressBar(%v, 8) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

// TestFormatProgressBarWithETA checks the suffix shown by the CLI spinner
// and the dashboard status line.
func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		eta      time.Duration
		want     string
	}{
		{0, 0, "[░░░░] " + "  0.0% ETA: calculating..."},
		{0.5, 90 * time.Second, "[██░░]  50.0% ETA: 1m30s"},
		{1, 0, "[████] 100.0% ETA: calculating..."},
	}
	for _, tt := range tests {
		got := FormatProgressBarWithETA(tt.progress, tt.eta, 4)
		if got != tt.want {
			t.Errorf("FormatProgressBarWithETA(%v, %v) = %q, want %q", tt.progress, tt.eta, got, tt.want)
		}
		if !strings.HasPrefix(got, "[") {
			t.Errorf("bar should open the line: %q", got)
		}
	}
}
