package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dissolve/internal/config"
	"github.com/san-kum/dissolve/internal/sim"
	"github.com/san-kum/dissolve/internal/watch"
)

const (
	maskWidth       = 24
	maskHeight      = 10
	historyCapacity = 240
	barWidth        = 20
)

type TickMsg time.Time

// ReloadMsg delivers a config reload result from the watcher.
type ReloadMsg watch.Update

// Model owns the runner and is the only place its driver is touched.
type Model struct {
	runner    *sim.Runner
	name      string
	t, dt     float64
	paused    bool
	last      sim.Sample
	primary   []float64
	secondary []float64
	maxScale  float64
	mask      *Mask
	updates   <-chan watch.Update
	notice    string
	err       error
}

// NewModel builds a live view over r. updates may be nil.
func NewModel(r *sim.Runner, cfg *config.Config, updates <-chan watch.Update) Model {
	m := Model{
		runner:    r,
		name:      cfg.Name,
		dt:        cfg.Sim.Dt,
		primary:   make([]float64, 0, historyCapacity),
		secondary: make([]float64, 0, historyCapacity),
		maxScale:  secondaryScale(cfg),
		mask:      NewMask(maskWidth, maskHeight),
		updates:   updates,
	}
	if m.dt <= 0 {
		m.dt = config.DefaultDt
	}

	s, errs := r.Step(0, 0)
	m.record(s)
	m.err = errors.Join(errs...)
	return m
}

func secondaryScale(cfg *config.Config) float64 {
	if cfg.Secondary == nil || cfg.Secondary.MaxIntensity <= 0 {
		return 1
	}
	return cfg.Secondary.MaxIntensity
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForUpdate(ch <-chan watch.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg(u)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), waitForUpdate(m.updates))
}

// Update handles keys, ticks and config reloads.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	drv := m.runner.Driver()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			drv.Start()
			m.notice = "started"
		case "r":
			drv.Reset()
			m.notice = "reset"
		case "p":
			m.paused = !m.paused
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			v := float64(key[0]-'0') / 9
			if err := drv.SetManual(v); err != nil {
				m.err = err
			} else {
				m.notice = fmt.Sprintf("manual %.2f", v)
			}
		}
		m.record(sim.Capture(m.t, drv))
	case TickMsg:
		if !m.paused {
			m.t += m.dt
			s, errs := m.runner.Step(m.t, m.dt)
			if len(errs) > 0 {
				m.err = errors.Join(errs...)
			}
			m.record(s)
		}
		return m, m.tick()
	case ReloadMsg:
		m.apply(watch.Update(msg))
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

// apply reconfigures the driver from a reload. On failure the driver keeps
// its previous config.
func (m *Model) apply(u watch.Update) {
	if u.Err != nil {
		m.err = fmt.Errorf("reload %s: %w", u.Path, u.Err)
		return
	}
	dc, err := u.Config.DriverConfig()
	if err == nil {
		err = m.runner.Driver().Configure(dc)
	}
	if err != nil {
		m.err = fmt.Errorf("reload %s: %w", u.Path, err)
		return
	}
	m.name = u.Config.Name
	if u.Config.Sim.Dt > 0 {
		m.dt = u.Config.Sim.Dt
	}
	m.maxScale = secondaryScale(u.Config)
	m.err = nil
	m.notice = "reloaded " + u.Path
}

func (m *Model) record(s sim.Sample) {
	m.last = s
	m.primary = appendCapped(m.primary, s.Primary)
	m.secondary = appendCapped(m.secondary, s.Secondary)
	m.mask.Render(s.Primary)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Model) View() string {
	s := m.last
	var b strings.Builder

	b.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	status := strings.ToUpper(s.Status.String())
	if m.paused {
		status += " (PAUSED)"
	}
	b.WriteString(statusStyle(s.Status).Render(status) + "\n\n")

	if len(m.primary) > 1 {
		chart := asciigraph.Plot(m.primary,
			asciigraph.Height(6), asciigraph.Width(40),
			asciigraph.LowerBound(0), asciigraph.UpperBound(1),
			asciigraph.Caption("Output"))
		b.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	b.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", s.Time)) + "\n")
	b.WriteString(labelStyle.Render("Phase") + valueStyle.Render(fmt.Sprintf("%s (%s)", s.Phase, s.Direction)) + "\n")
	b.WriteString(labelStyle.Render("Progress") + valueStyle.Render(fmt.Sprintf("%.3f", s.Progress)) + "\n")
	b.WriteString(labelStyle.Render("Output") + ProgressBar(s.Primary, barWidth) + valueStyle.Render(fmt.Sprintf(" %.3f", s.Primary)) + "\n")
	if m.runner.Driver().Config().Secondary != nil {
		b.WriteString(labelStyle.Render("Light") + ProgressBar(s.Secondary/m.maxScale, barWidth) + valueStyle.Render(fmt.Sprintf(" %.3f", s.Secondary)) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}

	b.WriteString(helpStyle.Render("SP:Start R:Reset 0-9:Set P:Pause Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, maskStyle.Render(m.mask.String()), panelStyle.Render(b.String()))
}
