// Package graylevel provides the five-level gray scale used by rasters.
//
// Levels are totally ordered from lightest to darkest, each with an integer
// rank:
//
//	White      0
//	LightGray  1
//	MidGray    2
//	DarkGray   3
//	Black      4
//
// The zero value of Level is White, so a freshly allocated slice of levels is
// already all white.
//
// # Operators
//
// All operators work on ranks and always produce a valid level:
//   - Invert: r -> 4-r
//   - Lighten / Darken: one step toward White / Black, saturating at the ends
//   - Add / Subtract: saturating rank sum / difference
//   - Xor: absolute rank difference, which behaves as boolean XOR on the
//     black/white subset (Black xor White = Black)
//
// # Color Conversion
//
// Level implements color.Color, and Model converts arbitrary colors to the
// nearest level by CIE L* lightness, so levels can be used with the standard
// image and image/draw packages.
//
// # Randomness
//
// RandomPick takes an explicit math/rand/v2 Source. There is no package-level
// random state; callers seed their own source for reproducible output.
package graylevel
