package graylevel

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA implements color.Color. White is full intensity and Black is zero,
// with the three grays evenly spaced in between.
func (l Level) RGBA() (r, g, b, a uint32) {
	y := uint32(maxRank-clampRank(l.Rank()).Rank()) * 0xFFFF / uint32(maxRank)
	return y, y, y, 0xFFFF
}

// Gray returns l as an 8-bit gray value.
func (l Level) Gray() color.Gray {
	y, _, _, _ := l.RGBA()
	return color.Gray{Y: uint8(y >> 8)}
}

// toLevel converts any color.Color to a Level.
func toLevel(c color.Color) color.Color {
	if l, ok := c.(Level); ok {
		return l
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// Fully transparent: nothing drawn, so the background level.
		return White
	}
	lightness, _, _ := cf.Lab()
	return FromLightness(lightness)
}

// Model converts colors to Levels by perceptual lightness.
var Model = color.ModelFunc(toLevel)

// FromLightness maps a CIE L* lightness in [0,1] to the nearest level.
// Values outside the range saturate.
func FromLightness(lightness float64) Level {
	return clampRank(int(math.Round((1 - lightness) * float64(maxRank))))
}

// FromColor is shorthand for Model.Convert(c).(Level).
func FromColor(c color.Color) Level {
	return Model.Convert(c).(Level)
}
