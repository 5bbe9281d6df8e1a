package panel

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestInitialState(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := New(nil, WithClock(fixedClock(now)))
	s := p.Snapshot()

	if s.Active != FilterHourly {
		t.Errorf("expected hourly active by default, got %s", s.Active)
	}
	if s.Loading || s.Overlay {
		t.Errorf("panel must start idle, got %+v", s)
	}
	if len(s.Buttons) != 3 {
		t.Fatalf("expected 3 quick-filter buttons, got %d", len(s.Buttons))
	}
	if !s.Buttons[0].Disabled {
		t.Errorf("active filter button must be disabled")
	}
	if s.Buttons[1].Disabled || s.Buttons[2].Disabled {
		t.Errorf("inactive filter buttons must be enabled")
	}
	if !s.End.Equal(now) {
		t.Errorf("default range must end now, got %v", s.End)
	}
	if !s.Start.Equal(now.Add(-FilterHourly.Window())) {
		t.Errorf("default range must cover the hourly window, got start %v", s.Start)
	}
}

func TestInitialRangeProvided(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	p := New(nil, WithRange(start, end))

	gotStart, gotEnd := p.Range()
	if !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Errorf("expected provided range, got %v..%v", gotStart, gotEnd)
	}
}

func TestSelectActiveFilterIsNoop(t *testing.T) {
	calls := 0
	p := New(nil, WithChangeFunc(func(string) { calls++ }))

	if p.Select(FilterHourly) {
		t.Errorf("selecting the active filter must not transition")
	}
	if calls != 0 {
		t.Errorf("callback must not fire for the active filter, fired %d times", calls)
	}
	if p.Snapshot().Loading {
		t.Errorf("no-op select must not enter loading")
	}
}

func TestSelectComputesRangeAndNotifies(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var labels []string
	p := New(nil,
		WithClock(fixedClock(now)),
		WithChangeFunc(func(l string) { labels = append(labels, l) }),
	)

	cases := []struct {
		filter Filter
		label  string
		window time.Duration
	}{
		{FilterDaily, "Daily", 7 * 24 * time.Hour},
		{FilterMonthly, "Monthly", 30 * 24 * time.Hour},
		{FilterHourly, "Hourly", 24 * time.Hour},
	}

	for _, tc := range cases {
		if !p.Select(tc.filter) {
			t.Fatalf("select %s: expected transition", tc.filter)
		}
		start, end := p.Range()
		if !end.Equal(now) {
			t.Errorf("select %s: range end must be now, got %v", tc.filter, end)
		}
		if !start.Equal(now.Add(-tc.window)) {
			t.Errorf("select %s: expected start now-%v, got %v", tc.filter, tc.window, start)
		}
		if !p.Snapshot().Loading {
			t.Errorf("select %s: panel must be loading", tc.filter)
		}
		// Settle before the next case: distinct label counts per round.
		p.ObserveRender(len(labels))
	}

	want := []string{"Daily", "Monthly", "Hourly"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d callback invocations, got %d: %v", len(want), len(labels), labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("callback %d: expected %q, got %q", i, want[i], labels[i])
		}
	}
}

func TestObserveRenderEdgeTriggered(t *testing.T) {
	p := New(nil)

	p.Select(FilterDaily)
	if !p.Snapshot().Loading {
		t.Fatal("expected loading after select")
	}

	// Same count as last observed (initial 0): no transition.
	if p.ObserveRender(0) {
		t.Errorf("unchanged label count must not leave loading")
	}
	if !p.Snapshot().Loading {
		t.Errorf("panel left loading without a distinct label count")
	}

	// Distinct count: back to idle, count recorded.
	if !p.ObserveRender(24) {
		t.Errorf("distinct label count must leave loading")
	}
	s := p.Snapshot()
	if s.Loading {
		t.Errorf("expected idle after render report")
	}
	if s.LabelCount != 24 {
		t.Errorf("expected label count recorded, got %d", s.LabelCount)
	}

	// Idle + distinct count: count recorded, still no transition claimed.
	if p.ObserveRender(30) {
		t.Errorf("render report while idle must not claim a transition")
	}
	if p.Snapshot().LabelCount != 30 {
		t.Errorf("label count must be recorded even while idle")
	}
}

func TestForcedLoadingOverlay(t *testing.T) {
	p := New(nil)

	p.SetForcedLoading(true)
	s := p.Snapshot()
	if !s.Overlay {
		t.Errorf("forced flag must show the overlay")
	}
	if s.Loading {
		t.Errorf("forced flag must not alter internal state")
	}

	p.SetForcedLoading(false)
	if p.Snapshot().Overlay {
		t.Errorf("overlay must hide when both flags are clear")
	}

	// Overlay stays while internal loading even without the forced flag.
	p.Select(FilterMonthly)
	if !p.Snapshot().Overlay {
		t.Errorf("internal loading must show the overlay")
	}
}

func TestRapidSelectsLastWriteWins(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := New(nil, WithClock(fixedClock(now)))

	p.Select(FilterDaily)
	p.Select(FilterMonthly)

	if p.Active() != FilterMonthly {
		t.Errorf("expected last selected filter to win, got %s", p.Active())
	}
	start, _ := p.Range()
	if !start.Equal(now.Add(-30 * 24 * time.Hour)) {
		t.Errorf("range must reflect the last selection, got start %v", start)
	}
}

func TestSetRange(t *testing.T) {
	calls := 0
	p := New(nil, WithChangeFunc(func(string) { calls++ }))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	p.SetRange(start, end)

	if p.Active() != FilterRange {
		t.Errorf("explicit range must switch to range mode, got %s", p.Active())
	}
	gotStart, gotEnd := p.Range()
	if !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Errorf("unexpected range %v..%v", gotStart, gotEnd)
	}
	if calls != 0 {
		t.Errorf("explicit range must not fire the filter-change callback")
	}
}

func TestParseFilter(t *testing.T) {
	for in, want := range map[string]Filter{
		"hourly":  FilterHourly,
		"Hourly":  FilterHourly,
		"daily":   FilterDaily,
		"Monthly": FilterMonthly,
	} {
		got, ok := ParseFilter(in)
		if !ok || got != want {
			t.Errorf("ParseFilter(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseFilter("yearly"); ok {
		t.Errorf("unknown filter must not parse")
	}
}
