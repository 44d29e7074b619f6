package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RdBu-style diverging ramp, low flux in blue through white to high
// flux in red.
var divergingStops = []string{
	"#053061",
	"#2166ac",
	"#4393c3",
	"#92c5de",
	"#d1e5f0",
	"#f7f7f7",
	"#fddbc7",
	"#f4a582",
	"#d6604d",
	"#b2182b",
	"#67001f",
}

// Colormap buckets normalized values into a fixed color ramp. Level 0
// is reserved for unset/NaN; levels 1..Stops() index the ramp.
type Colormap struct {
	styles []lipgloss.Style
	hex    []string
}

func NewDiverging() *Colormap {
	cm := &Colormap{
		styles: make([]lipgloss.Style, len(divergingStops)),
		hex:    divergingStops,
	}
	for i, stop := range divergingStops {
		cm.styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(stop))
	}
	return cm
}

func (cm *Colormap) Stops() int {
	return len(cm.hex)
}

// Level maps v within [min, max] to a ramp level. NaN maps to 0.
func (cm *Colormap) Level(v, min, max float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	if max <= min {
		return uint8(len(cm.hex)/2 + 1)
	}
	t := (v - min) / (max - min)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	idx := int(t * float64(len(cm.hex)-1))
	return uint8(idx + 1)
}

// Style returns the lipgloss style for a level. Level 0 and anything
// out of range render unstyled.
func (cm *Colormap) Style(level uint8) lipgloss.Style {
	if level == 0 || int(level) > len(cm.styles) {
		return lipgloss.NewStyle()
	}
	return cm.styles[level-1]
}

// Hex returns the ramp color for a level, for SVG export.
func (cm *Colormap) Hex(level uint8) string {
	if level == 0 || int(level) > len(cm.hex) {
		return "#888888"
	}
	return cm.hex[level-1]
}

// Legend renders a one-line color bar with the value range.
func (cm *Colormap) Legend(min, max float64) string {
	var b strings.Builder
	for _, s := range cm.styles {
		b.WriteString(s.Render("█"))
	}
	return legendLabelStyle.Render(formatTesla(min)) + " " + b.String() + " " + legendLabelStyle.Render(formatTesla(max))
}
