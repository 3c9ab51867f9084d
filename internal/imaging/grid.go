package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultGridColor is used when RenderOptions.GridColor is empty.
const DefaultGridColor = "#FF000080"

// labelEvery is the spacing, in cells, of coordinate labels.
const labelEvery = 5

// parseGridColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA". The leading '#'
// is optional.
func parseGridColor(hex string) (color.RGBA, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	switch len(hex) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// drawCellGrid draws a line along every cell boundary of an image made of
// cell × cell blocks. With labels, every labelEvery-th crossing gets its
// cell coordinates.
func drawCellGrid(img *image.RGBA, cell int, lineColor color.RGBA, labels bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	for x := cell; x < width; x += cell {
		for y := 0; y < height; y++ {
			blend(img, x, y, lineColor)
		}
	}
	for y := cell; y < height; y += cell {
		for x := 0; x < width; x++ {
			if x == 0 || x%cell != 0 {
				blend(img, x, y, lineColor)
			}
		}
	}

	if !labels {
		return
	}
	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}
	step := cell * labelEvery
	for y := step; y < height; y += step {
		for x := step; x < width; x += step {
			drawLabel(img, x+2, y+2, fmt.Sprintf("%d,%d", x/cell, y/cell), fg, bg)
		}
	}
}

// blend paints c over the pixel at (x, y) using c's alpha.
func blend(img *image.RGBA, x, y int, c color.RGBA) {
	if c.A == 255 {
		img.SetRGBA(x, y, c)
		return
	}
	dst := img.RGBAAt(x, y)
	a := uint32(c.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: 255,
	})
}

// glyphs is a 3x5 pixel font for the digits and the comma.
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel writes text at (x, y) on a dark box, clipped to the image.
// Characters without a glyph leave a blank.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	const charWidth, labelHeight = 4, 7
	in := func(px, py int) bool {
		return image.Pt(px, py).In(img.Bounds())
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < len(text)*charWidth; dx++ {
			if in(x+dx, y+dy) {
				blend(img, x+dx, y+dy, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, bit := range line {
					if bit == '1' && in(cx+col, y+row) {
						img.SetRGBA(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
