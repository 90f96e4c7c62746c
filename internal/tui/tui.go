// internal/tui/tui.go
// Package tui is the terminal shell for the dashboard: stage columns to pick
// filters from and text charts that redraw after every change.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/prefdash/internal/chart"
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/util"
)

// visibleOptions is the number of option rows drawn per stage column.
const visibleOptions = 8

var (
	headerStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	tagStyle     = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("40")).Padding(0, 1).MarginLeft(1)
	columnStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	focusedStyle = columnStyle.BorderForeground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
)

// Options seeds the first screen.
type Options struct {
	Pipeline string
	State    dashboard.SelectionState
	Stacked  bool
}

type model struct {
	dash     *dashboard.Dashboard
	keys     keyMap
	help     help.Model
	viewport viewport.Model

	pipeline dashboard.PipelineName
	states   map[dashboard.PipelineName]dashboard.SelectionState
	stacked  bool
	view     dashboard.View
	err      error
	status   string

	focus   int
	cursors map[dataset.Column]int
	preset  int

	width  int
	height int
}

func initialModel(dash *dashboard.Dashboard, opts Options) (*model, error) {
	p, err := dashboard.LookupPipeline(opts.Pipeline)
	if opts.Pipeline == "" {
		p, err = dashboard.LookupPipeline(string(dashboard.PipelineDomain))
	}
	if err != nil {
		return nil, err
	}

	m := &model{
		dash:     dash,
		keys:     defaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(100, 10),
		pipeline: p.Name,
		states:   make(map[dashboard.PipelineName]dashboard.SelectionState),
		stacked:  opts.Stacked || opts.State.Stacked,
		cursors:  make(map[dataset.Column]int),
		preset:   -1,
	}
	state := opts.State
	if state.Pipeline == "" {
		state = dashboard.NewState(p.Name)
	}
	m.states[p.Name] = state
	m.refresh()
	return m, nil
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.redraw()
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.redraw()
		case key.Matches(msg, m.keys.Left):
			m.moveFocus(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveFocus(1)
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Toggle):
			m.toggle()
		case key.Matches(msg, m.keys.All):
			m.selectAll()
		case key.Matches(msg, m.keys.None):
			m.selectNone()
		case key.Matches(msg, m.keys.Pipeline):
			m.switchPipeline()
		case key.Matches(msg, m.keys.Preset):
			m.nextPreset()
		case key.Matches(msg, m.keys.Stacked):
			m.stacked = !m.stacked
			m.refresh()
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfPageUp()
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfPageDown()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh runs a full pass for the current pipeline and stores the reconciled
// selection for the next one.
func (m *model) refresh() {
	state := m.states[m.pipeline].WithStacked(m.stacked)
	view, next, err := m.dash.View(string(m.pipeline), state)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.view = view
	m.states[m.pipeline] = next

	if m.focus >= len(view.Stages) {
		m.focus = max(len(view.Stages)-1, 0)
	}
	for _, s := range view.Stages {
		if c := m.cursors[s.Column]; c >= len(s.Options) {
			m.cursors[s.Column] = max(len(s.Options)-1, 0)
		}
	}
	m.redraw()
}

func (m *model) redraw() {
	m.viewport.SetContent(m.chartsView())
	if m.height == 0 {
		return
	}
	used := lipgloss.Height(m.headerView()) + lipgloss.Height(m.filtersView()) + lipgloss.Height(m.footerView())
	m.viewport.Height = max(m.height-used, 3)
}

func (m *model) focused() (dashboard.StageView, bool) {
	if m.focus < 0 || m.focus >= len(m.view.Stages) {
		return dashboard.StageView{}, false
	}
	return m.view.Stages[m.focus], true
}

func (m *model) moveFocus(delta int) {
	if n := len(m.view.Stages); n > 0 {
		m.focus = (m.focus + delta + n) % n
	}
}

func (m *model) moveCursor(delta int) {
	stage, ok := m.focused()
	if !ok || len(stage.Options) == 0 {
		return
	}
	m.cursors[stage.Column] = min(max(m.cursors[stage.Column]+delta, 0), len(stage.Options)-1)
}

func (m *model) toggle() {
	stage, ok := m.focused()
	if !ok || len(stage.Options) == 0 {
		return
	}
	value := stage.Options[m.cursors[stage.Column]]
	state := m.states[m.pipeline]

	switch {
	case stage.Limit == 1:
		state = state.With(stage.Column, []string{value})
	case stage.Limit > 1 && !slices.Contains(stage.Selected, value) && len(stage.Selected) >= stage.Limit:
		m.status = fmt.Sprintf("At most %d %ss can be selected.", stage.Limit, stage.Column)
		return
	default:
		state = state.Toggle(stage.Column, value)
	}
	m.states[m.pipeline] = state
	m.preset = -1
	m.refresh()
}

func (m *model) selectAll() {
	stage, ok := m.focused()
	if !ok {
		return
	}
	m.states[m.pipeline] = m.states[m.pipeline].Without(stage.Column)
	m.preset = -1
	m.refresh()
}

func (m *model) selectNone() {
	stage, ok := m.focused()
	if !ok || stage.Limit == 1 {
		return
	}
	m.states[m.pipeline] = m.states[m.pipeline].With(stage.Column, nil)
	m.preset = -1
	m.refresh()
}

func (m *model) switchPipeline() {
	pipelines := dashboard.Pipelines()
	i := slices.IndexFunc(pipelines, func(p dashboard.Pipeline) bool { return p.Name == m.pipeline })
	m.pipeline = pipelines[(i+1)%len(pipelines)].Name
	if _, ok := m.states[m.pipeline]; !ok {
		m.states[m.pipeline] = dashboard.NewState(m.pipeline)
	}
	m.focus = 0
	m.preset = -1
	m.refresh()
}

func (m *model) nextPreset() {
	presets := m.dash.Presets().List()
	if len(presets) == 0 {
		return
	}
	m.preset = (m.preset + 1) % len(presets)
	p := presets[m.preset]
	m.pipeline = p.Pipeline
	m.states[p.Pipeline] = p.State()
	m.focus = 0
	m.refresh()
}

// View implements tea.Model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n" + m.footerView()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.filtersView(),
		m.viewport.View(),
		m.footerView(),
	)
}

func (m *model) headerView() string {
	parts := []string{headerStyle.Render("prefdash · " + m.view.Label)}
	if m.preset >= 0 {
		parts = append(parts, tagStyle.Render("preset: "+m.dash.Presets().List()[m.preset].Title()))
	}
	if m.stacked {
		parts = append(parts, tagStyle.Render("stacked"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *model) filtersView() string {
	columns := make([]string, 0, len(m.view.Stages))
	width := 24
	if n := len(m.view.Stages); n > 0 && m.width > 0 {
		width = max(min((m.width/n)-4, 40), 12)
	}
	for i, s := range m.view.Stages {
		columns = append(columns, m.stageView(s, i == m.focus, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m *model) stageView(s dashboard.StageView, focused bool, width int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(util.TruncateRunes(s.Label, width)))
	if len(s.Options) == 0 {
		b.WriteString("\n" + mutedStyle.Render("(none)"))
	}

	cursor := m.cursors[s.Column]
	start := 0
	if len(s.Options) > visibleOptions {
		start = min(max(cursor-visibleOptions/2, 0), len(s.Options)-visibleOptions)
	}
	end := min(start+visibleOptions, len(s.Options))
	for i := start; i < end; i++ {
		opt := s.Options[i]
		mark := "[ ]"
		if slices.Contains(s.Selected, opt) {
			mark = "[x]"
		}
		if s.Limit == 1 {
			mark = strings.NewReplacer("[", "(", "]", ")", "x", "•").Replace(mark)
		}
		line := util.TruncateRunes(mark+" "+opt, width)
		if focused && i == cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString("\n" + line)
	}
	if end < len(s.Options) || start > 0 {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d/%d", cursor+1, len(s.Options))))
	}

	style := columnStyle
	if focused {
		style = focusedStyle
	}
	return style.Width(width + 2).Render(b.String())
}

func (m *model) chartsView() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	var b strings.Builder
	if m.view.Heading != "" {
		b.WriteString(labelStyle.Render(m.view.Heading) + "\n")
	}
	if m.view.Explanation != "" {
		b.WriteString(mutedStyle.Render(util.WrapToWidth(m.view.Explanation, width-2)) + "\n")
	}
	if m.view.Message != "" {
		b.WriteString("\n" + m.view.Message + "\n")
	}
	bar := max(min(width/3, 50), 10)
	for _, p := range m.view.Panels {
		b.WriteString("\n")
		if p.Chart == nil {
			b.WriteString(p.Message + "\n")
			continue
		}
		b.WriteString(chart.Text(*p.Chart, bar))
	}
	return b.String()
}

func (m *model) footerView() string {
	var parts []string
	if m.status != "" {
		parts = append(parts, cursorStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "\n")
}

// Run starts the full-screen browser and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, dash *dashboard.Dashboard, opts Options) error {
	m, err := initialModel(dash, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
