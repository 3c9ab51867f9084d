package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/raster-algebra-mcp/internal/graylevel"
	"github.com/ironsheep/raster-algebra-mcp/internal/raster"
)

// ErrEmptyImage is returned when a conversion would produce no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Region is a rectangle in source image coordinates. (X1,Y1) is inclusive
// and (X2,Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns r as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// validate checks r against the image bounds.
func (r Region) validate(bounds image.Rectangle) error {
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return nil
}

// ConvertOptions controls ToRaster.
type ConvertOptions struct {
	// Region, if set, is cropped out of the source first.
	Region *Region

	// Width and Height set the raster size. When both are zero the source
	// size is kept; when one is zero it follows the source aspect ratio.
	Width  int
	Height int

	// Threshold, when non-zero, binarizes the image: pixels with luminance
	// at or above it become White, the rest Black. Zero quantizes to all
	// five levels instead.
	Threshold uint8

	// Kind selects the raster storage strategy.
	Kind raster.Kind
}

// OutputSize returns the raster size ToRaster produces from a source of the
// given bounds, after any Region crop.
func (o ConvertOptions) OutputSize(src image.Rectangle) (width, height int) {
	srcW, srcH := src.Dx(), src.Dy()
	width, height = o.Width, o.Height
	switch {
	case width == 0 && height == 0:
		return srcW, srcH
	case srcW <= 0 || srcH <= 0:
		return 0, 0
	case width == 0:
		width = aspectSide(height, srcW, srcH)
	case height == 0:
		height = aspectSide(width, srcH, srcW)
	}
	return width, height
}

// aspectSide scales side by num/den, rounding half up with a minimum of 1,
// as imaging.Resize does for a zero dimension.
func aspectSide(side, num, den int) int {
	return int(math.Max(1, math.Floor(float64(side)*float64(num)/float64(den)+0.5)))
}

// ToRaster converts an image into a raster, one cell per output pixel.
func ToRaster(img image.Image, opts ConvertOptions) (raster.Raster, error) {
	if opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("invalid size %dx%d", opts.Width, opts.Height)
	}

	var src image.Image = img
	if opts.Region != nil {
		if err := opts.Region.validate(img.Bounds()); err != nil {
			return nil, err
		}
		src = imaging.Crop(img, opts.Region.Rect())
	}
	if src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	if opts.Width > 0 || opts.Height > 0 {
		src = imaging.Resize(src, opts.Width, opts.Height, imaging.Lanczos)
	}
	gray := imaging.Grayscale(src)

	var level func(x, y int) graylevel.Level
	if opts.Threshold > 0 {
		bin := segment.Threshold(gray, opts.Threshold)
		level = func(x, y int) graylevel.Level {
			if bin.GrayAt(x, y).Y == 0 {
				return graylevel.Black
			}
			return graylevel.White
		}
	} else {
		level = func(x, y int) graylevel.Level {
			return graylevel.FromColor(gray.At(x, y))
		}
	}

	b := gray.Bounds()
	r, err := raster.New(opts.Kind, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r.SetPoint(x, y, level(b.Min.X+x, b.Min.Y+y))
		}
	}
	return r, nil
}
