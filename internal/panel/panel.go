// Package panel implements the interaction state machine behind a chart
// panel: quick-filter selection, the computed date range, and the loading
// flag toggled between a filter change and the next completed redraw.
package panel

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Filter identifies one of the preset date-range shortcuts, or the
// free-form range mode driven by explicit start/end values.
type Filter string

const (
	FilterHourly  Filter = "hourly"
	FilterDaily   Filter = "daily"
	FilterMonthly Filter = "monthly"
	FilterRange   Filter = "range"
)

// QuickFilters lists the preset filters in display order.
var QuickFilters = []Filter{FilterHourly, FilterDaily, FilterMonthly}

// ParseFilter maps a wire value to a Filter. The coarse callback labels
// ("Hourly", "Daily", "Monthly") are accepted alongside the lowercase
// forms.
func ParseFilter(s string) (Filter, bool) {
	switch s {
	case "hourly", "Hourly":
		return FilterHourly, true
	case "daily", "Daily":
		return FilterDaily, true
	case "monthly", "Monthly":
		return FilterMonthly, true
	case "range", "Range":
		return FilterRange, true
	}
	return "", false
}

// Label returns the coarse label delivered to the filter-change callback.
func (f Filter) Label() string {
	switch f {
	case FilterHourly:
		return "Hourly"
	case FilterDaily:
		return "Daily"
	case FilterMonthly:
		return "Monthly"
	case FilterRange:
		return "Range"
	}
	return string(f)
}

// Window returns the lookback covered by a quick filter. The range mode
// has no fixed window and returns zero.
func (f Filter) Window() time.Duration {
	switch f {
	case FilterHourly:
		return 24 * time.Hour
	case FilterDaily:
		return 7 * 24 * time.Hour
	case FilterMonthly:
		return 30 * 24 * time.Hour
	}
	return 0
}

// ChangeFunc is the host callback invoked when a quick filter is
// selected. It receives the coarse filter label.
type ChangeFunc func(label string)

// Panel tracks the interaction state of one mounted chart panel.
// Transitions happen on discrete events: a button click, a completed
// redraw report, or the host toggling its forced-loading flag.
type Panel struct {
	mu sync.Mutex

	active     Filter
	loading    bool
	forced     bool
	labelCount int
	start, end time.Time

	onChange ChangeFunc
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Panel at construction time.
type Option func(*Panel)

// WithChangeFunc registers the host filter-change callback.
func WithChangeFunc(fn ChangeFunc) Option {
	return func(p *Panel) { p.onChange = fn }
}

// WithRange sets the initial date range.
func WithRange(start, end time.Time) Option {
	return func(p *Panel) { p.start, p.end = start, end }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

// New creates a Panel in the idle state with the hourly quick filter
// active. Without an explicit range the panel covers the active
// filter's window ending now, so the first render already has data.
func New(logger *zap.Logger, opts ...Option) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Panel{
		active: FilterHourly,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.start.IsZero() && p.end.IsZero() {
		now := p.now()
		p.start, p.end = now.Add(-p.active.Window()), now
	}
	return p
}

// Select activates a quick filter. Selecting the already-active filter is
// a no-op: the button is disabled while active. Otherwise the range is
// recomputed as (now - window, now), the host callback fires once with
// the coarse label, and the panel enters loading until the next distinct
// redraw report. Returns whether a transition happened.
func (p *Panel) Select(f Filter) bool {
	p.mu.Lock()
	if f == p.active {
		p.mu.Unlock()
		return false
	}

	now := p.now()
	start, end := now.Add(-f.Window()), now
	p.active = f
	p.start, p.end = start, end
	p.loading = true
	onChange := p.onChange
	p.mu.Unlock()

	p.logger.Debug("Quick filter selected",
		zap.String("filter", f.Label()),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	// Callback runs outside the lock: the host may call back into the
	// panel while handling the change.
	if onChange != nil {
		onChange(f.Label())
	}
	return true
}

// SetRange switches the panel to the free-form range mode with an
// explicit start/end pair. No callback fires; the caller already knows
// the range it asked for.
func (p *Panel) SetRange(start, end time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = FilterRange
	p.start, p.end = start, end
}

// ObserveRender ingests a completed-redraw report from the chart. The
// label count is an edge-triggered heuristic: only a count different
// from the last observed one means new data has rendered. Returns
// whether the panel left the loading state.
func (p *Panel) ObserveRender(labelCount int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if labelCount == p.labelCount {
		return false
	}
	p.labelCount = labelCount

	if !p.loading {
		return false
	}
	p.loading = false
	return true
}

// SetForcedLoading toggles the host-controlled loading flag. It affects
// only overlay visibility, never the internal state machine.
func (p *Panel) SetForcedLoading(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forced = on
}

// Range returns the current date range.
func (p *Panel) Range() (start, end time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.start, p.end
}

// Active returns the currently selected filter.
func (p *Panel) Active() Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Button is the render state of one quick-filter button.
type Button struct {
	Filter   Filter `json:"filter"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// State is a point-in-time render view of the panel.
type State struct {
	Active     Filter    `json:"active"`
	Label      string    `json:"label"`
	Loading    bool      `json:"loading"`
	Overlay    bool      `json:"overlay"`
	LabelCount int       `json:"label_count"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Buttons    []Button  `json:"buttons"`
}

// Snapshot captures the panel for rendering. The overlay is visible
// whenever internal loading or the host's forced flag is set; each
// quick-filter button is disabled exactly when it is active.
func (p *Panel) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := State{
		Active:     p.active,
		Label:      p.active.Label(),
		Loading:    p.loading,
		Overlay:    p.loading || p.forced,
		LabelCount: p.labelCount,
		Start:      p.start,
		End:        p.end,
	}
	for _, f := range QuickFilters {
		s.Buttons = append(s.Buttons, Button{
			Filter:   f,
			Label:    f.Label(),
			Disabled: f == p.active,
		})
	}
	return s
}
