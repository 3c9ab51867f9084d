package raster

import (
	"math/rand/v2"

	"github.com/ironsheep/raster-algebra-mcp/internal/graylevel"
)

// Dense stores levels in a row-major slice: the cell at (x, y) lives at
// index y*width + x.
type Dense struct {
	width  int
	height int
	cells  []graylevel.Level
}

// NewDense creates an all-White dense raster. It panics if either dimension
// is negative; use New to get an error instead.
func NewDense(width, height int) *Dense {
	checkDimensions(width, height)
	return &Dense{
		width:  width,
		height: height,
		// The zero Level is White.
		cells: make([]graylevel.Level, width*height),
	}
}

// Width returns the number of columns.
func (d *Dense) Width() int { return d.width }

// Height returns the number of rows.
func (d *Dense) Height() int { return d.height }

func (d *Dense) index(x, y int) int {
	return y*d.width + x
}

func (d *Dense) in(x, y int) bool {
	return x >= 0 && x < d.width && y >= 0 && y < d.height
}

// PointAt returns the level at (x, y).
func (d *Dense) PointAt(x, y int) (graylevel.Level, error) {
	if !d.in(x, y) {
		return graylevel.White, outOfBounds(x, y, d.width, d.height)
	}
	return d.cells[d.index(x, y)], nil
}

// SetPoint stores l at (x, y). Out-of-range coordinates and invalid levels
// are ignored.
func (d *Dense) SetPoint(x, y int, l graylevel.Level) {
	if !d.in(x, y) || !l.Valid() {
		return
	}
	d.cells[d.index(x, y)] = l
}

// TurnOn sets (x, y) to Black.
func (d *Dense) TurnOn(x, y int) { d.SetPoint(x, y, graylevel.Black) }

// TurnOff sets (x, y) to White.
func (d *Dense) TurnOff(x, y int) { d.SetPoint(x, y, graylevel.White) }

// Randomize draws every cell from src in row-major order.
func (d *Dense) Randomize(src rand.Source) {
	for i := range d.cells {
		d.cells[i] = graylevel.RandomPick(src)
	}
}

// CountLevel scans the whole grid for cells equal to l.
func (d *Dense) CountLevel(l graylevel.Level) int {
	n := 0
	for _, c := range d.cells {
		if c == l {
			n++
		}
	}
	return n
}

// Negate returns the pointwise inverse of d.
func (d *Dense) Negate() Raster {
	out := NewDense(d.width, d.height)
	for i, l := range d.cells {
		out.cells[i] = l.Invert()
	}
	return out
}

// LightenImage lightens every non-White cell. White cells are skipped.
func (d *Dense) LightenImage() Raster {
	out := NewDense(d.width, d.height)
	for i, l := range d.cells {
		if v, ok := lightenCell(l); ok {
			out.cells[i] = v
		}
	}
	return out
}

// DarkenImage darkens every non-Black cell. Black cells are skipped and so
// come out White.
func (d *Dense) DarkenImage() Raster {
	out := NewDense(d.width, d.height)
	for i, l := range d.cells {
		if v, ok := darkenCell(l); ok {
			out.cells[i] = v
		}
	}
	return out
}

// Duplicate returns a copy of d sharing no storage with it.
func (d *Dense) Duplicate() Raster {
	out := NewDense(d.width, d.height)
	copy(out.cells, d.cells)
	return out
}

// Add returns the pointwise saturating sum of d and other.
func (d *Dense) Add(other Raster) (Raster, error) {
	return d.zip("add", other, graylevel.Level.Add)
}

// Subtract returns the pointwise saturating difference of d and other.
func (d *Dense) Subtract(other Raster) (Raster, error) {
	return d.zip("subtract", other, graylevel.Level.Subtract)
}

// Xor returns the pointwise xor of d and other.
func (d *Dense) Xor(other Raster) (Raster, error) {
	return d.zip("xor", other, graylevel.Level.Xor)
}

// Intersect keeps the cells where d and other agree; all others are White.
func (d *Dense) Intersect(other Raster) (Raster, error) {
	return d.zip("intersect", other, intersectCell)
}

func (d *Dense) zip(op string, other Raster, f func(a, b graylevel.Level) graylevel.Level) (Raster, error) {
	if err := checkSameSize(op, d, other); err != nil {
		return nil, err
	}
	out := NewDense(d.width, d.height)
	if o, ok := other.(*Dense); ok {
		for i, l := range d.cells {
			out.cells[i] = f(l, o.cells[i])
		}
		return out, nil
	}
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			i := d.index(x, y)
			out.cells[i] = f(d.cells[i], levelAt(other, x, y))
		}
	}
	return out, nil
}

// AverageLevel returns the level of the truncated mean rank of d.
func (d *Dense) AverageLevel() (graylevel.Level, error) {
	return averageOf(d)
}

// ContrastBoost darkens cells darker than the average level and lightens
// cells lighter than it. Cells at the average are skipped and come out
// White.
func (d *Dense) ContrastBoost() (Raster, error) {
	avg, err := averageOf(d)
	if err != nil {
		return nil, err
	}
	out := NewDense(d.width, d.height)
	for i, l := range d.cells {
		if v, ok := contrastCell(l, avg); ok {
			out.cells[i] = v
		}
	}
	return out, nil
}
