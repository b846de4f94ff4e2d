package curves

import (
	"image/color"
)

const (
	// NumColors is the number of entries in the palette.
	NumColors = 20
	// DefaultColor is the palette index of black.
	DefaultColor = 15
)

// Palette holds the RGB values for each color index.
var Palette = [NumColors]color.RGBA{
	{102, 204, 0, 255},
	{102, 255, 102, 255},
	{255, 255, 0, 255},
	{255, 153, 0, 255},
	{153, 102, 51, 255},
	{51, 51, 0, 255},
	{255, 204, 204, 255},
	{255, 102, 102, 255},
	{255, 0, 0, 255},
	{153, 0, 0, 255},

	{0, 51, 0, 255},
	{0, 102, 0, 255},
	{255, 255, 255, 255},
	{204, 204, 204, 255},
	{102, 102, 102, 255},
	{0, 0, 0, 255},
	{153, 255, 255, 255},
	{0, 153, 255, 255},
	{0, 0, 255, 255},
	{0, 0, 153, 255},
}

// LineWeights is a width multiplier per color index.
// Light colors are drawn wider to stay visible on a bright background.
var LineWeights = [NumColors]float64{
	1.0, 1.2, 1.3, 1.4, 1.2, 1.1, 1.6, 1.4, 1.3, 1.2,
	1.0, 1.0, 2.2, 1.0, 1.0, 1.0, 1.6, 1.3, 1.1, 1.0,
}

// ColorFor returns the palette color for the given index.
// Indices out of range map to the default color.
func ColorFor(index uint8) color.RGBA {
	if int(index) >= NumColors {
		return Palette[DefaultColor]
	}
	return Palette[index]
}

// LineWeightFor returns the width multiplier for the given color index.
func LineWeightFor(index uint8) float64 {
	if int(index) >= NumColors {
		return 1.0
	}
	return LineWeights[index]
}
