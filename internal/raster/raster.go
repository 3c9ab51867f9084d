package raster

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ironsheep/raster-algebra-mcp/internal/graylevel"
)

var (
	// ErrOutOfBounds is returned when reading a coordinate outside the grid.
	ErrOutOfBounds = errors.New("raster: coordinate out of bounds")

	// ErrDimensionMismatch is returned by binary operators whose operands
	// differ in width or height.
	ErrDimensionMismatch = errors.New("raster: dimension mismatch")

	// ErrEmptyRaster is returned when an average is requested of a raster
	// with no cells.
	ErrEmptyRaster = errors.New("raster: raster has no cells")

	// ErrInvalidDimensions is returned by New for negative sizes.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrUnknownKind is returned for an unrecognized storage strategy.
	ErrUnknownKind = errors.New("raster: unknown storage kind")
)

// Raster is a fixed-size grid of gray levels.
type Raster interface {
	// Width returns the number of columns.
	Width() int
	// Height returns the number of rows.
	Height() int

	// PointAt returns the level at (x, y), or ErrOutOfBounds.
	PointAt(x, y int) (graylevel.Level, error)
	// SetPoint stores l at (x, y). Out-of-range writes and invalid levels
	// are ignored.
	SetPoint(x, y int, l graylevel.Level)
	// TurnOn sets (x, y) to Black.
	TurnOn(x, y int)
	// TurnOff sets (x, y) to White.
	TurnOff(x, y int)
	// Randomize overwrites every cell with graylevel.RandomPick(src).
	Randomize(src rand.Source)
	// CountLevel returns how many cells currently equal l.
	CountLevel(l graylevel.Level) int

	// Negate returns the pointwise inverse.
	Negate() Raster
	// LightenImage lightens every non-White cell by one step. White cells
	// are not copied and keep the result's initial White.
	LightenImage() Raster
	// DarkenImage darkens every non-Black cell by one step. Black cells are
	// not copied and come out White.
	DarkenImage() Raster
	// Duplicate returns an independent copy.
	Duplicate() Raster

	// Add, Subtract and Xor apply the level operator pointwise.
	Add(other Raster) (Raster, error)
	Subtract(other Raster) (Raster, error)
	Xor(other Raster) (Raster, error)
	// Intersect keeps cells where both operands agree and whitens the rest.
	Intersect(other Raster) (Raster, error)

	// AverageLevel returns the level of the truncated mean rank.
	AverageLevel() (graylevel.Level, error)
	// ContrastBoost pushes cells away from the average level. Cells at the
	// average come out White.
	ContrastBoost() (Raster, error)
}

// Coord is a grid coordinate. It is comparable and used as a map key.
type Coord struct {
	X, Y int
}

// In reports whether c lies inside a width × height grid.
func (c Coord) In(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Kind selects a storage strategy.
type Kind int

const (
	KindDense Kind = iota
	KindAssoc
)

func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindAssoc:
		return "assoc"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "dense" or "assoc". "dict" and "map" are accepted as
// aliases for assoc, "tab" and "array" for dense.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dense", "tab", "array":
		return KindDense, nil
	case "assoc", "dict", "map":
		return KindAssoc, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// KindOf reports the storage strategy of r.
func KindOf(r Raster) (Kind, bool) {
	switch r.(type) {
	case *Dense:
		return KindDense, true
	case *Assoc:
		return KindAssoc, true
	}
	return 0, false
}

// New creates an all-White raster of the given storage kind.
func New(kind Kind, width, height int) (Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	switch kind {
	case KindDense:
		return NewDense(width, height), nil
	case KindAssoc:
		return NewAssoc(width, height), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// checkSameSize returns ErrDimensionMismatch unless a and b have equal
// dimensions.
func checkSameSize(op string, a, b Raster) error {
	if a.Width() == b.Width() && a.Height() == b.Height() {
		return nil
	}
	Logger().Debug("raster: operands rejected",
		"op", op,
		"left", fmt.Sprintf("%dx%d", a.Width(), a.Height()),
		"right", fmt.Sprintf("%dx%d", b.Width(), b.Height()))
	return fmt.Errorf("%s: %w: %dx%d vs %dx%d", op, ErrDimensionMismatch,
		a.Width(), a.Height(), b.Width(), b.Height())
}

func outOfBounds(x, y, width, height int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, width, height)
}

func checkDimensions(width, height int) {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("raster: negative dimensions %dx%d", width, height))
	}
}
