package core

// Color is the foreground color of a screen cell. The platform layer maps it
// to an ANSI color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// Palette is the rotation of colors scenes assign to their bodies.
var Palette = []Color{ColorCyan, ColorYellow, ColorMagenta, ColorGreen, ColorOrange, ColorRed, ColorBlue}

// PaletteColor returns the i-th palette color, wrapping around.
func PaletteColor(i int) Color {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}
