package raster

import (
	"math/rand/v2"

	"github.com/ironsheep/raster-algebra-mcp/internal/graylevel"
)

// Assoc stores levels in a map keyed by coordinate. Every valid coordinate
// is inserted at construction, so key membership doubles as the bounds
// check: in-range keys are always present and out-of-range keys never are.
type Assoc struct {
	width  int
	height int
	cells  map[Coord]graylevel.Level
}

// NewAssoc creates an all-White associative raster, inserting one entry per
// coordinate. It panics if either dimension is negative; use New to get an
// error instead.
func NewAssoc(width, height int) *Assoc {
	checkDimensions(width, height)
	a := &Assoc{
		width:  width,
		height: height,
		cells:  make(map[Coord]graylevel.Level, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a.cells[Coord{X: x, Y: y}] = graylevel.White
		}
	}
	return a
}

// Width returns the number of columns.
func (a *Assoc) Width() int { return a.width }

// Height returns the number of rows.
func (a *Assoc) Height() int { return a.height }

// PointAt returns the level at (x, y), or ErrOutOfBounds when the map has no
// entry for it.
func (a *Assoc) PointAt(x, y int) (graylevel.Level, error) {
	l, ok := a.cells[Coord{X: x, Y: y}]
	if !ok {
		return graylevel.White, outOfBounds(x, y, a.width, a.height)
	}
	return l, nil
}

// SetPoint stores l at (x, y) if the coordinate exists and l is a valid
// level.
func (a *Assoc) SetPoint(x, y int, l graylevel.Level) {
	if !l.Valid() {
		return
	}
	c := Coord{X: x, Y: y}
	if _, ok := a.cells[c]; ok {
		a.cells[c] = l
	}
}

// TurnOn sets (x, y) to Black.
func (a *Assoc) TurnOn(x, y int) { a.SetPoint(x, y, graylevel.Black) }

// TurnOff sets (x, y) to White.
func (a *Assoc) TurnOff(x, y int) { a.SetPoint(x, y, graylevel.White) }

// Randomize draws every cell from src. Cells are visited in row-major order,
// not map order, so a seeded source fills an Assoc exactly like a Dense.
func (a *Assoc) Randomize(src rand.Source) {
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			a.cells[Coord{X: x, Y: y}] = graylevel.RandomPick(src)
		}
	}
}

// CountLevel scans every entry for cells equal to l.
func (a *Assoc) CountLevel(l graylevel.Level) int {
	n := 0
	for _, v := range a.cells {
		if v == l {
			n++
		}
	}
	return n
}

// Negate returns the pointwise inverse of a.
func (a *Assoc) Negate() Raster {
	out := NewAssoc(a.width, a.height)
	for c, l := range a.cells {
		out.cells[c] = l.Invert()
	}
	return out
}

// LightenImage lightens every non-White cell. White cells are skipped.
func (a *Assoc) LightenImage() Raster {
	out := NewAssoc(a.width, a.height)
	for c, l := range a.cells {
		if v, ok := lightenCell(l); ok {
			out.cells[c] = v
		}
	}
	return out
}

// DarkenImage darkens every non-Black cell. Black cells are skipped and so
// come out White.
func (a *Assoc) DarkenImage() Raster {
	out := NewAssoc(a.width, a.height)
	for c, l := range a.cells {
		if v, ok := darkenCell(l); ok {
			out.cells[c] = v
		}
	}
	return out
}

// Duplicate returns a copy of a with its own map.
func (a *Assoc) Duplicate() Raster {
	out := NewAssoc(a.width, a.height)
	for c, l := range a.cells {
		out.cells[c] = l
	}
	return out
}

// Add returns the pointwise saturating sum of a and other.
func (a *Assoc) Add(other Raster) (Raster, error) {
	return a.zip("add", other, graylevel.Level.Add)
}

// Subtract returns the pointwise saturating difference of a and other.
func (a *Assoc) Subtract(other Raster) (Raster, error) {
	return a.zip("subtract", other, graylevel.Level.Subtract)
}

// Xor returns the pointwise xor of a and other.
func (a *Assoc) Xor(other Raster) (Raster, error) {
	return a.zip("xor", other, graylevel.Level.Xor)
}

// Intersect keeps the cells where a and other agree; all others are White.
func (a *Assoc) Intersect(other Raster) (Raster, error) {
	return a.zip("intersect", other, intersectCell)
}

func (a *Assoc) zip(op string, other Raster, f func(x, y graylevel.Level) graylevel.Level) (Raster, error) {
	if err := checkSameSize(op, a, other); err != nil {
		return nil, err
	}
	out := NewAssoc(a.width, a.height)
	for c, l := range a.cells {
		out.cells[c] = f(l, levelAt(other, c.X, c.Y))
	}
	return out, nil
}

// AverageLevel returns the level of the truncated mean rank of a.
func (a *Assoc) AverageLevel() (graylevel.Level, error) {
	return averageOf(a)
}

// ContrastBoost darkens cells darker than the average level and lightens
// cells lighter than it. Cells at the average are skipped and come out
// White.
func (a *Assoc) ContrastBoost() (Raster, error) {
	avg, err := averageOf(a)
	if err != nil {
		return nil, err
	}
	out := NewAssoc(a.width, a.height)
	for c, l := range a.cells {
		if v, ok := contrastCell(l, avg); ok {
			out.cells[c] = v
		}
	}
	return out, nil
}
