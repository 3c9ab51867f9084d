package raster

import (
	"fmt"

	"github.com/ironsheep/raster-algebra-mcp/internal/graylevel"
)

// Histogram returns the number of cells at each level, indexed by rank.
func Histogram(r Raster) [graylevel.Count]int {
	var h [graylevel.Count]int
	for _, l := range graylevel.All() {
		h[l.Rank()] = r.CountLevel(l)
	}
	return h
}

// Equal reports whether a and b have the same dimensions and the same level
// at every coordinate. The storage strategies may differ.
func Equal(a, b Raster) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if levelAt(a, x, y) != levelAt(b, x, y) {
				return false
			}
		}
	}
	return true
}

// Snapshot copies r into rows: Snapshot(r)[y][x] is the level at (x, y).
func Snapshot(r Raster) [][]graylevel.Level {
	rows := make([][]graylevel.Level, r.Height())
	for y := range rows {
		rows[y] = make([]graylevel.Level, r.Width())
		for x := range rows[y] {
			rows[y][x] = levelAt(r, x, y)
		}
	}
	return rows
}

// FromRows builds a raster of the given kind from rows as produced by
// Snapshot. All rows must have the same length.
func FromRows(kind Kind, rows [][]graylevel.Level) (Raster, error) {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrInvalidDimensions, y, len(row), width)
		}
	}
	r, err := New(kind, width, height)
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		for x, l := range row {
			r.SetPoint(x, y, l)
		}
	}
	return r, nil
}
