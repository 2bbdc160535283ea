package ui

import (
	"fmt"
	"strings"

	"github.com/olivier-w/drumvis/internal/config"
)

const panelInnerWidth = 26

// renderPanel draws the control surface: one line per field, the selected
// one highlighted.
func renderPanel(cfg config.RenderConfig, selected int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("controls"))
	for i, f := range config.Fields() {
		b.WriteByte('\n')
		line := fmt.Sprintf("%-14s%12s", f.Name, f.Format(cfg))
		if i == selected {
			b.WriteString(selectedFieldStyle.Render(line))
		} else {
			b.WriteString(fieldStyle.Render(line))
		}
	}
	return panelStyle.Width(panelInnerWidth + 2).Render(b.String())
}
