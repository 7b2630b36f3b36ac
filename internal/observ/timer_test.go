package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("collect")
	tm.End(idx, "3 files")
	tm.End(99, "ignored")

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("align", time.Millisecond)
		}()
	}
	wg.Wait()

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(rep.Phases))
	}
	align := rep.Phases[1]
	if align.Name != "align" || align.Count != 4 || align.DurationMS < 4 {
		t.Errorf("align phase = %+v", align)
	}
	if rep.TotalMS >= align.DurationMS+rep.Phases[0].DurationMS {
		t.Errorf("accumulated phase counted in total: %+v", rep)
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "collect", "// 3 files", "(x4)", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("Summary missing %q:\n%s", want, sum)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if rep := NewTimer().Report(); len(rep.Phases) != 0 || rep.TotalMS != 0 {
		t.Errorf("empty report = %+v", rep)
	}
	var tm *Timer
	tm.Add("x", time.Second) // nil-safe
}
