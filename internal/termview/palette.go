package termview

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

// ASCII brightness ramp from darkest to brightest.
const asciiRamp = " .:-=+*#%@"

// Mode describes how colors reach the terminal.
type Mode uint8

const (
	ModeOff     Mode = iota // NO_COLOR or dumb terminal
	ModeANSI16              // basic 16-color
	ModeANSI256             // 256-color
	ModeTrue                // 24-bit truecolor
)

func (m Mode) String() string {
	switch m {
	case ModeANSI16:
		return "ansi16"
	case ModeANSI256:
		return "ansi256"
	case ModeTrue:
		return "truecolor"
	default:
		return "off"
	}
}

// ParseMode maps a mode name, as printed by String, to a Mode. "auto" and
// "" detect the terminal.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return DetectMode(), nil
	case "off", "none", "ascii":
		return ModeOff, nil
	case "ansi16", "16":
		return ModeANSI16, nil
	case "ansi256", "256":
		return ModeANSI256, nil
	case "truecolor", "true", "24bit":
		return ModeTrue, nil
	}
	return ModeOff, fmt.Errorf("unknown color mode %q", name)
}

var (
	detectOnce sync.Once
	termColor  Mode
)

// DetectMode checks terminal capabilities once.
func DetectMode() Mode {
	detectOnce.Do(func() {
		termColor = modeFromEnv(os.LookupEnv)
	})
	return termColor
}

func modeFromEnv(lookup func(string) (string, bool)) Mode {
	if _, ok := lookup("NO_COLOR"); ok {
		return ModeOff
	}
	term, _ := lookup("TERM")
	ct, _ := lookup("COLORTERM")
	term, ct = strings.ToLower(term), strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return ModeTrue
	case strings.Contains(term, "256color"):
		return ModeANSI256
	case term == "dumb":
		return ModeOff
	case term == "" && runtime.GOOS == "windows":
		return ModeANSI16
	case term == "":
		return ModeOff
	default:
		return ModeANSI16
	}
}

// brightnessChar maps a 0-255 luminance to an ASCII character.
func brightnessChar(lum uint8) byte {
	return asciiRamp[int(lum)*(len(asciiRamp)-1)/255]
}

// luminance computes perceived brightness (ITU-R BT.601).
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

const ansiReset = "\x1b[0m"

// colorSeq returns the escape selecting r,g,b as foreground, or as
// background when bg is set. It is empty when colors are off.
func colorSeq(mode Mode, bg bool, r, g, b uint8) string {
	layer := 38
	if bg {
		layer = 48
	}
	switch mode {
	case ModeTrue:
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, r, g, b)
	case ModeANSI256:
		return fmt.Sprintf("\x1b[%d;5;%dm", layer, cube256(r, g, b))
	case ModeANSI16:
		idx := nearest16(r, g, b)
		base := 30
		if bg {
			base = 40
		}
		if idx >= 8 {
			base += 60
			idx -= 8
		}
		return fmt.Sprintf("\x1b[%dm", base+idx)
	default:
		return ""
	}
}

// cube256 maps to the 6x6x6 color cube of the 256-color palette.
func cube256(r, g, b uint8) int {
	return 16 + 36*(int(r)*5/255) + 6*(int(g)*5/255) + int(b)*5/255
}

func nearest16(r, g, b uint8) int {
	best, bestDist := 0, 1<<31-1
	for i, c := range ansi16Palette {
		dr := int(r) - int(c[0])
		dg := int(g) - int(c[1])
		db := int(b) - int(c[2])
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

var ansi16Palette = [16][3]uint8{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
	{102, 102, 102}, // bright black
	{241, 76, 76},   // bright red
	{35, 209, 139},  // bright green
	{245, 245, 67},  // bright yellow
	{59, 142, 234},  // bright blue
	{214, 112, 214}, // bright magenta
	{41, 184, 219},  // bright cyan
	{255, 255, 255}, // bright white
}
