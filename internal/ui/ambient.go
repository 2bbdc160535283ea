package ui

import (
	"image/color"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/drumvis/internal/render"
)

// ambientSpring eases the chrome colour toward each frame's ambient sample
// so the background breathes instead of flickering.
type ambientSpring struct {
	spring harmonica.Spring
	pos    [3]float64
	vel    [3]float64
	primed bool
}

func newAmbientSpring(fps int) ambientSpring {
	return ambientSpring{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (a *ambientSpring) step(target color.RGBA) color.RGBA {
	want := [3]float64{float64(target.R), float64(target.G), float64(target.B)}
	if !a.primed {
		a.pos, a.primed = want, true
	}
	for i := range a.pos {
		a.pos[i], a.vel[i] = a.spring.Update(a.pos[i], a.vel[i], want[i])
	}
	return a.current()
}

func (a *ambientSpring) current() color.RGBA {
	if !a.primed {
		return render.Background
	}
	return color.RGBA{R: channel(a.pos[0]), G: channel(a.pos[1]), B: channel(a.pos[2]), A: 0xFF}
}

func channel(v float64) uint8 {
	return uint8(math.Round(min(max(v, 0), 255)))
}

func lipglossColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color("#" + render.Hex(c))
}
