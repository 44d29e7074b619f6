package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lasmithusa/engineered-magnetics/internal/field"
	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
)

const (
	canvasWidth  = 76
	canvasHeight = 26
	rotStep      = 0.08
	paramStep    = 0.05 // 5% per keypress
	meshLines    = 34
)

// Model is the interactive surface viewer: rotate and zoom the flux
// surface, and tweak geometry parameters with immediate recompute.
type Model struct {
	geom       magnet.Geometry
	distMin    float64
	distMax    float64
	resolution int

	grid   *field.Grid
	stats  field.Stats
	mesh   *Mesh
	canvas *Canvas
	camera *Camera
	cm     *Colormap

	paramKeys []string
	selected  int
	initial   magnet.Geometry
	showHelp  bool
	err       error
}

// NewModel computes the initial surface and sets up the viewer.
func NewModel(geom magnet.Geometry, distMin, distMax float64, resolution int) Model {
	keys := make([]string, 0, 3)
	for k := range geom.Params() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := Model{
		geom:       geom,
		distMin:    distMin,
		distMax:    distMax,
		resolution: resolution,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		camera:     NewCamera(),
		cm:         NewDiverging(),
		paramKeys:  keys,
		initial:    geom,
	}
	m.recompute()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left":
			m.camera.RotateY(-rotStep)
		case "right":
			m.camera.RotateY(rotStep)
		case "up":
			m.camera.RotateX(-rotStep)
		case "down":
			m.camera.RotateX(rotStep)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "shift+tab":
			m.selected = (m.selected + len(m.paramKeys) - 1) % len(m.paramKeys)
		case "[":
			m.adjustParam(1 - paramStep)
		case "]":
			m.adjustParam(1 + paramStep)
		case "r":
			m.geom = m.initial
			m.camera.Reset()
			m.recompute()
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m *Model) adjustParam(factor float64) {
	name := m.paramKeys[m.selected]
	value := m.geom.Params()[name] * factor

	geom, err := m.geom.WithParam(name, value)
	if err != nil {
		m.err = err
		return
	}
	if err := geom.Validate(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.geom = geom
	m.recompute()
}

func (m *Model) recompute() {
	grid, err := field.New(m.distMin, m.distMax, m.resolution)
	if err != nil {
		m.err = err
		return
	}
	grid.Compute(m.geom)
	m.grid = grid
	m.stats = grid.Summarize()
	m.mesh = BuildMesh(grid, m.cm, meshLines)
}

func (m Model) View() string {
	m.canvas.Clear()
	if m.mesh != nil {
		m.mesh.Render(m.canvas, m.camera)
	}

	surface := canvasStyle.Render(m.canvas.Colored(m.cm))
	sidebar := statsStyle.Render(m.sidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, surface, sidebar)

	var b strings.Builder
	b.WriteString(headerStyle.Render("opposed magnet flux surface"))
	b.WriteByte('\n')
	b.WriteString(body)
	b.WriteByte('\n')
	b.WriteString(axisLabelStyle.Render(LabelX + "   " + LabelY + "   " + LabelZ))
	b.WriteByte('\n')
	b.WriteString(m.cm.Legend(m.stats.Min, m.stats.Max))
	if m.showHelp {
		b.WriteString(helpStyle.Render("\narrows rotate · +/- zoom · tab select param · [/] adjust · r reset · q quit"))
	} else {
		b.WriteString(helpStyle.Render("\nh help · q quit"))
	}
	b.WriteByte('\n')
	return b.String()
}

func (m Model) sidebar() string {
	var b strings.Builder

	row := func(label, value string, active bool) {
		l := labelStyle.Render(label)
		v := valueStyle.Render(value)
		if active {
			l = activeParamStyle.Render(fmt.Sprintf("%-14s", "> "+label))
			v = activeParamStyle.Render(value)
		}
		b.WriteString(l + v + "\n")
	}

	params := m.geom.Params()
	for i, name := range m.paramKeys {
		unit := "mm"
		if name == "remanence" {
			unit = "T"
		}
		row(name, fmt.Sprintf("%.3f %s", params[name], unit), i == m.selected)
	}

	b.WriteByte('\n')
	row("shape", m.geom.Shape.String(), false)
	row("range", fmt.Sprintf("%.1f–%.1f mm", m.distMin, m.distMax), false)
	row("grid", fmt.Sprintf("%d×%d", m.resolution, m.resolution), false)

	b.WriteByte('\n')
	row("peak B", formatTesla(m.stats.Max), false)
	row("at gap", fmt.Sprintf("%.2f mm", m.stats.PeakDistance), false)
	row("masked", fmt.Sprintf("%.0f%%", m.stats.Masked*100), false)
	if m.stats.NaN > 0 {
		row("no formula", fmt.Sprintf("%.0f%% NaN", m.stats.NaN*100), false)
	}

	if m.err != nil {
		b.WriteString("\n" + activeParamStyle.Render(m.err.Error()))
	}
	return b.String()
}

// Run starts the interactive viewer and blocks until it exits.
func Run(geom magnet.Geometry, distMin, distMax float64, resolution int) error {
	p := tea.NewProgram(NewModel(geom, distMin, distMax, resolution))
	_, err := p.Run()
	return err
}
