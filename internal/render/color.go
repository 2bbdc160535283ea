package render

import (
	"fmt"
	"image/color"
)

// Hex formats the RGB channels of c as six lowercase hex digits, dropping alpha.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// AmbientColor is the colour the host paints around the views: the drum
// surface's top-left pixel after bloom.
func AmbientColor(drum *Surface) color.RGBA {
	return drum.At(0, 0)
}
