package api

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meteograph/meteograph/internal/chart"
	"github.com/meteograph/meteograph/internal/panel"
	"github.com/meteograph/meteograph/internal/storage"
	"github.com/meteograph/meteograph/pkg/version"
)

// DashboardData contains all data for the dashboard template. Payloads
// carries the initial chart payload per station, embedded in the page so
// the first render needs no fetch.
type DashboardData struct {
	Version    string
	Stations   []StationData
	LastUpdate string
	Loading    string
	Payloads   map[string]panelResponse
}

// StationData contains station info with panel state and chart data.
type StationData struct {
	Name    string
	Enabled bool
	Latest  *storage.Observation
	Panel   panel.State
	Buttons []panelButton
	Title   string
}

// panelButton is one quick-filter button with its localized caption.
type panelButton struct {
	Filter   panel.Filter
	Label    string
	Disabled bool
}

// panelResponse is the JSON reply for the filter/rendered/chart endpoints.
type panelResponse struct {
	State panel.State     `json:"state"`
	Title string          `json:"title"`
	Chart chart.ChartData `json:"chart"`
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := s.getDashboardData(r.Context())

	funcMap := template.FuncMap{
		"json": jsonFunc,
	}

	tmpl := template.Must(template.New("dashboard").Funcs(funcMap).Parse(dashboardTemplate))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("Failed to render dashboard", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleStationChart returns chart data plus panel state for one station.
// Optional from/to query parameters (RFC 3339) switch the panel into an
// explicit date range.
func (s *Server) handleStationChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := s.panels[name]
	if !ok {
		s.writeError(w, http.StatusNotFound, "Station not found")
		return
	}

	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr != "" && toStr != "" {
		from, err1 := time.Parse(time.RFC3339, fromStr)
		to, err2 := time.Parse(time.RFC3339, toStr)
		if err1 != nil || err2 != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid from/to timestamp")
			return
		}
		if to.Before(from) {
			s.writeError(w, http.StatusBadRequest, "Range end precedes range start")
			return
		}
		p.SetRange(from, to)
	}

	s.writePanelResponse(r.Context(), w, name, p)
}

// handleStationFilter applies a quick-filter selection to a station panel
// and returns the refreshed chart. Re-selecting the active filter is a
// no-op and returns the current state unchanged.
func (s *Server) handleStationFilter(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := s.panels[name]
	if !ok {
		s.writeError(w, http.StatusNotFound, "Station not found")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	f, ok := panel.ParseFilter(r.PostFormValue("filter"))
	if !ok || f == panel.FilterRange {
		s.writeError(w, http.StatusBadRequest, "Unknown filter")
		return
	}

	p.Select(f)
	s.writePanelResponse(r.Context(), w, name, p)
}

// handleStationRendered ingests a completed-redraw report from the
// browser. The reported label count clears the loading overlay when it
// differs from the previous render.
func (s *Server) handleStationRendered(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := s.panels[name]
	if !ok {
		s.writeError(w, http.StatusNotFound, "Station not found")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	labelCount, err := strconv.Atoi(r.PostFormValue("labels"))
	if err != nil || labelCount < 0 {
		s.writeError(w, http.StatusBadRequest, "Invalid label count")
		return
	}

	p.ObserveRender(labelCount)

	s.writeJSON(w, http.StatusOK, successResponse{
		Status: "ok",
		Data:   p.Snapshot(),
	})
}

// writePanelResponse renders the station's current chart and state.
func (s *Server) writePanelResponse(ctx context.Context, w http.ResponseWriter, name string, p *panel.Panel) {
	chartData := s.buildStationChart(ctx, name, p)
	state := p.Snapshot()

	s.writeJSON(w, http.StatusOK, panelResponse{
		State: state,
		Title: s.chartTitle(state),
		Chart: chartData,
	})
}

// buildStationChart loads observations for the panel's current range and
// shapes them into chart input.
func (s *Server) buildStationChart(ctx context.Context, name string, p *panel.Panel) chart.ChartData {
	start, end := p.Range()

	observations, err := s.storage.GetObservations(ctx, storage.ObservationFilter{
		Station: name,
		Since:   start,
		Until:   end,
		Limit:   500,
	})
	if err != nil {
		s.logger.Error("Failed to load observations for chart",
			zap.String("station", name),
			zap.Error(err),
		)
	}

	times := make([]string, 0, len(observations))
	temps := make([]float64, 0, len(observations))
	hums := make([]float64, 0, len(observations))
	winds := make([]float64, 0, len(observations))

	// Storage returns newest first; reverse for chronological display.
	for i := len(observations) - 1; i >= 0; i-- {
		o := observations[i]
		times = append(times, o.CreatedAt.Format(time.RFC3339))
		temps = append(temps, o.TemperatureC)
		hums = append(hums, o.HumidityPct)
		winds = append(winds, o.WindKph)
	}

	colors := []chart.ColorSpec{}
	if st := s.fullConfig.GetStationByName(name); st != nil && st.Color != "" {
		colors = append(colors, chart.Named(st.Color))
	}

	return s.formatter.Build(chart.Input{
		Series: []string{"Temperature (°C)", "Humidity (%)", "Wind (km/h)"},
		Times:  times,
		Values: [][]float64{temps, hums, winds},
		Colors: colors,
	})
}

// chartTitle renders the localized chart title for the active filter.
func (s *Server) chartTitle(state panel.State) string {
	return fmt.Sprintf(s.fullConfig.Locale.TitleFormat, s.localizedLabel(state.Active))
}

// localizedLabel maps a filter to its configured caption.
func (s *Server) localizedLabel(f panel.Filter) string {
	loc := s.fullConfig.Locale
	switch f {
	case panel.FilterHourly:
		return loc.Hourly
	case panel.FilterDaily:
		return loc.Daily
	case panel.FilterMonthly:
		return loc.Monthly
	}
	return f.Label()
}

// getDashboardData collects all data needed for the dashboard.
func (s *Server) getDashboardData(ctx context.Context) DashboardData {
	data := DashboardData{
		Version:    version.GetShortVersion(),
		LastUpdate: time.Now().Local().Format("15:04:05"),
		Loading:    s.fullConfig.Locale.Loading,
		Payloads:   make(map[string]panelResponse),
	}

	// Get latest observation per station
	latest, _ := s.storage.GetLatestObservations(ctx)
	latestMap := make(map[string]*storage.Observation)
	for i := range latest {
		latestMap[latest[i].Station] = &latest[i]
	}

	for _, st := range s.fullConfig.Stations {
		stData := StationData{
			Name:    st.Name,
			Enabled: st.Enabled,
		}

		if p, ok := s.panels[st.Name]; ok {
			stData.Panel = p.Snapshot()
			stData.Title = s.chartTitle(stData.Panel)
			data.Payloads[st.Name] = panelResponse{
				State: stData.Panel,
				Title: stData.Title,
				Chart: s.buildStationChart(ctx, st.Name, p),
			}
			for _, b := range stData.Panel.Buttons {
				stData.Buttons = append(stData.Buttons, panelButton{
					Filter:   b.Filter,
					Label:    s.localizedLabel(b.Filter),
					Disabled: b.Disabled,
				})
			}
		}

		if obs, ok := latestMap[st.Name]; ok {
			stData.Latest = obs
		}

		data.Stations = append(data.Stations, stData)
	}

	return data
}

const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Meteograph Dashboard</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
    <link href="https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@400;500;700&family=Space+Grotesk:wght@400;500;600;700&display=swap" rel="stylesheet">
    <style>
        :root {
            --bg-dark: #0a0a0f;
            --bg-card: #12121a;
            --text-primary: #e4e4e7;
            --text-secondary: #a1a1aa;
            --text-muted: #71717a;
            --accent-cyan: #06b6d4;
            --accent-violet: #8b5cf6;
            --accent-green: #10b981;
            --border: #27272a;
            --glow-cyan: 0 0 20px rgba(6, 182, 212, 0.3);
            --glow-green: 0 0 20px rgba(16, 185, 129, 0.3);
        }

        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: 'Space Grotesk', -apple-system, BlinkMacSystemFont, sans-serif;
            background: var(--bg-dark);
            color: var(--text-primary);
            min-height: 100vh;
            background-image:
                radial-gradient(ellipse at top, rgba(6, 182, 212, 0.1) 0%, transparent 50%),
                radial-gradient(ellipse at bottom right, rgba(139, 92, 246, 0.05) 0%, transparent 50%);
        }

        .container {
            max-width: 1600px;
            margin: 0 auto;
            padding: 2rem;
        }

        header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 2.5rem;
            padding-bottom: 1.5rem;
            border-bottom: 1px solid var(--border);
        }

        .logo {
            display: flex;
            align-items: center;
            gap: 1rem;
        }

        .logo h1 {
            font-size: 1.75rem;
            font-weight: 700;
            background: linear-gradient(135deg, var(--accent-cyan), var(--accent-violet));
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
            background-clip: text;
        }

        .logo .version {
            background: linear-gradient(135deg, var(--accent-cyan), var(--accent-violet));
            color: white;
            padding: 0.25rem 0.75rem;
            border-radius: 2rem;
            font-size: 0.75rem;
            font-weight: 600;
            font-family: 'JetBrains Mono', monospace;
        }

        .header-info {
            display: flex;
            align-items: center;
            gap: 1.5rem;
            color: var(--text-secondary);
            font-size: 0.875rem;
        }

        .pulse {
            width: 8px;
            height: 8px;
            background: var(--accent-green);
            border-radius: 50%;
            box-shadow: var(--glow-green);
            animation: pulse 2s infinite;
            display: inline-block;
            margin-right: 0.5rem;
        }

        @keyframes pulse {
            0%, 100% { opacity: 1; transform: scale(1); }
            50% { opacity: 0.6; transform: scale(0.9); }
        }

        .stations-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(520px, 1fr));
            gap: 1.5rem;
            margin-bottom: 2rem;
        }

        .station-card {
            background: var(--bg-card);
            border-radius: 1rem;
            border: 1px solid var(--border);
            overflow: hidden;
            transition: all 0.3s ease;
        }

        .station-card:hover {
            border-color: var(--accent-cyan);
            box-shadow: 0 20px 40px rgba(0, 0, 0, 0.4), var(--glow-cyan);
        }

        .station-card.disabled {
            opacity: 0.4;
        }

        .card-header {
            padding: 1rem 1.5rem;
            display: flex;
            justify-content: space-between;
            align-items: center;
            border-bottom: 1px solid var(--border);
            background: linear-gradient(180deg, rgba(255,255,255,0.02) 0%, transparent 100%);
        }

        .station-name {
            font-weight: 600;
            font-size: 1.125rem;
            font-family: 'JetBrains Mono', monospace;
        }

        .latest-row {
            display: grid;
            grid-template-columns: repeat(4, 1fr);
            gap: 1rem;
            padding: 1rem 1.5rem;
        }

        .metric { text-align: center; }

        .metric-value {
            font-size: 1.5rem;
            font-weight: 700;
            font-family: 'JetBrains Mono', monospace;
            display: block;
            line-height: 1;
        }

        .metric-label {
            font-size: 0.7rem;
            color: var(--text-muted);
            text-transform: uppercase;
            letter-spacing: 0.05em;
            margin-top: 0.25rem;
            display: block;
        }

        .filter-row {
            display: flex;
            gap: 0.5rem;
            padding: 0 1.5rem 0.75rem;
        }

        .filter-btn {
            background: var(--bg-dark);
            border: 1px solid var(--border);
            color: var(--text-secondary);
            padding: 0.5rem 1rem;
            border-radius: 0.5rem;
            cursor: pointer;
            font-family: 'JetBrains Mono', monospace;
            font-size: 0.875rem;
            transition: all 0.2s ease;
        }

        .filter-btn:hover:not(:disabled) {
            border-color: var(--accent-cyan);
            color: var(--text-primary);
        }

        .filter-btn:disabled {
            background: var(--accent-cyan);
            border-color: var(--accent-cyan);
            color: white;
            cursor: default;
        }

        .chart-title {
            padding-left: 1.5rem;
            text-indent: 0.75rem;
            font-size: 0.95rem;
            color: var(--text-secondary);
            margin-bottom: 0.25rem;
        }

        .chart-wrap {
            position: relative;
            height: 320px;
            padding: 0.5rem 1.5rem 1.5rem;
        }

        .chart-wrap.is-loading canvas {
            filter: blur(3px);
        }

        .loading-overlay {
            position: absolute;
            inset: 0;
            display: none;
            align-items: center;
            justify-content: center;
            background: rgba(10, 10, 15, 0.55);
            z-index: 10;
        }

        .chart-wrap.is-loading .loading-overlay {
            display: flex;
        }

        .loading-overlay span {
            background: var(--accent-cyan);
            color: white;
            padding: 0.5rem 1.25rem;
            border-radius: 2rem;
            font-size: 0.875rem;
            font-weight: 500;
        }

        .card-footer {
            display: flex;
            justify-content: space-between;
            padding: 0.75rem 1.5rem;
            font-size: 0.75rem;
            color: var(--text-muted);
            border-top: 1px solid var(--border);
            background: rgba(0, 0, 0, 0.2);
        }

        footer {
            text-align: center;
            padding: 2rem;
            color: var(--text-muted);
            font-size: 0.875rem;
        }

        footer a {
            color: var(--accent-cyan);
            text-decoration: none;
        }

        @media (max-width: 768px) {
            .container { padding: 1rem; }
            header { flex-direction: column; gap: 1rem; text-align: center; }
            .stations-grid { grid-template-columns: 1fr; }
            .filter-row { flex-wrap: wrap; }
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <div class="logo">
                <h1>Meteograph</h1>
                <span class="version">v{{.Version}}</span>
            </div>
            <div class="header-info">
                <span><span class="pulse"></span>Live</span>
                <span id="last-update">{{.LastUpdate}}</span>
            </div>
        </header>

        <div class="stations-grid">
            {{range $idx, $st := .Stations}}
            <div class="station-card {{if not $st.Enabled}}disabled{{end}}" data-station="{{$st.Name}}">
                <div class="card-header">
                    <span class="station-name">{{$st.Name}}</span>
                </div>
                {{if $st.Latest}}
                <div class="latest-row">
                    <div class="metric">
                        <span class="metric-value">{{printf "%.1f" $st.Latest.TemperatureC}}</span>
                        <span class="metric-label">°C</span>
                    </div>
                    <div class="metric">
                        <span class="metric-value">{{printf "%.0f" $st.Latest.HumidityPct}}</span>
                        <span class="metric-label">% rh</span>
                    </div>
                    <div class="metric">
                        <span class="metric-value">{{printf "%.0f" $st.Latest.PressureHpa}}</span>
                        <span class="metric-label">hPa</span>
                    </div>
                    <div class="metric">
                        <span class="metric-value">{{printf "%.0f" $st.Latest.WindKph}}</span>
                        <span class="metric-label">km/h</span>
                    </div>
                </div>
                {{end}}
                <div class="filter-row" id="filters-{{$idx}}">
                    {{range $st.Buttons}}
                    <button class="filter-btn" data-filter="{{.Filter}}" {{if .Disabled}}disabled{{end}}>{{.Label}}</button>
                    {{end}}
                </div>
                <div class="chart-title" id="title-{{$idx}}">{{$st.Title}}</div>
                <div class="chart-wrap{{if $st.Panel.Overlay}} is-loading{{end}}" id="wrap-{{$idx}}">
                    <canvas id="chart-{{$idx}}"></canvas>
                    <div class="loading-overlay"><span>{{$.Loading}}</span></div>
                </div>
                {{if $st.Latest}}
                <div class="card-footer">
                    <span>Last observation</span>
                    <span>{{$st.Latest.CreatedAt.Local.Format "01-02 15:04"}}</span>
                </div>
                {{end}}
            </div>
            {{end}}
        </div>

        <footer>
            <p>Meteograph v{{.Version}} &middot;
            <a href="/api/">API Documentation</a></p>
        </footer>
    </div>

    <script>
        // Vertical hover guide: draws a dashed line through the hovered
        // point, full chart height. Registered once; a second registration
        // attempt is skipped.
        (function() {
            if (Chart.registry.plugins.get('hoverGuide')) return;
            Chart.register({
                id: 'hoverGuide',
                afterDraw(chart) {
                    const actives = chart.tooltip && chart.tooltip.getActiveElements();
                    if (!actives || !actives.length) return;
                    const x = actives[0].element.x;
                    const { top, bottom } = chart.chartArea;
                    const ctx = chart.ctx;
                    ctx.save();
                    ctx.beginPath();
                    ctx.setLineDash([4, 4]);
                    ctx.moveTo(x, top);
                    ctx.lineTo(x, bottom);
                    ctx.lineWidth = 1;
                    ctx.strokeStyle = 'rgba(161, 161, 170, 0.6)';
                    ctx.stroke();
                    ctx.restore();
                }
            });
        })();

        const stationCharts = {};

        const chartOptions = {
            responsive: true,
            maintainAspectRatio: false,
            interaction: { mode: 'index', intersect: false },
            plugins: {
                legend: { labels: { color: '#a1a1aa' } },
                tooltip: {
                    backgroundColor: '#12121a',
                    titleColor: '#e4e4e7',
                    bodyColor: '#a1a1aa',
                    borderColor: '#27272a',
                    borderWidth: 1,
                    padding: 12
                }
            },
            scales: {
                x: {
                    grid: { color: 'rgba(39, 39, 42, 0.5)' },
                    ticks: { color: '#71717a', maxTicksLimit: 12 }
                },
                y: {
                    grid: { color: 'rgba(39, 39, 42, 0.5)' },
                    ticks: { color: '#71717a' }
                }
            }
        };

        function setLoading(idx, on) {
            document.getElementById('wrap-' + idx).classList.toggle('is-loading', on);
        }

        function applyState(idx, state, title) {
            document.getElementById('title-' + idx).textContent = title;
            document.querySelectorAll('#filters-' + idx + ' .filter-btn').forEach(btn => {
                btn.disabled = btn.dataset.filter === state.active;
            });
            setLoading(idx, state.overlay);
        }

        async function reportRendered(name, idx, labelCount) {
            const body = new URLSearchParams({ labels: String(labelCount) });
            const response = await fetch('/dashboard/station/' + encodeURIComponent(name) + '/rendered', {
                method: 'POST',
                body: body
            });
            const result = await response.json();
            setLoading(idx, result.data.overlay);
        }

        function renderChart(name, idx, payload) {
            const ctx = document.getElementById('chart-' + idx);
            if (stationCharts[name]) {
                stationCharts[name].data = payload.chart;
                stationCharts[name].update('none');
            } else {
                stationCharts[name] = new Chart(ctx, {
                    type: 'line',
                    data: payload.chart,
                    options: chartOptions
                });
            }
            applyState(idx, payload.state, payload.title);
            reportRendered(name, idx, payload.chart.labels.length);
        }

        async function loadChart(name, idx) {
            const response = await fetch('/dashboard/station/' + encodeURIComponent(name) + '/chart');
            renderChart(name, idx, await response.json());
        }

        async function selectFilter(name, idx, filter) {
            const body = new URLSearchParams({ filter: filter });
            const response = await fetch('/dashboard/station/' + encodeURIComponent(name) + '/filter', {
                method: 'POST',
                body: body
            });
            renderChart(name, idx, await response.json());
        }

        // Initial payloads are embedded at render time; the first chart
        // draws without a fetch.
        const initialPayloads = {{json .Payloads}};

        document.querySelectorAll('.station-card').forEach((card, idx) => {
            const name = card.dataset.station;
            const initial = initialPayloads[name];
            if (initial) {
                renderChart(name, idx, initial);
            } else {
                loadChart(name, idx);
            }
            card.querySelectorAll('.filter-btn').forEach(btn => {
                btn.addEventListener('click', () => selectFilter(name, idx, btn.dataset.filter));
            });
        });

        // Refresh charts periodically
        setInterval(() => {
            document.querySelectorAll('.station-card').forEach((card, idx) => {
                loadChart(card.dataset.station, idx);
            });
            document.getElementById('last-update').textContent =
                new Date().toLocaleTimeString([], {hour: '2-digit', minute: '2-digit', second: '2-digit'});
        }, 60000);
    </script>
</body>
</html>`

// jsonFunc is a template function to convert data to JSON.
func jsonFunc(v interface{}) template.JS {
	b, _ := json.Marshal(v)
	return template.JS(b)
}
