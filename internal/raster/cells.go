package raster

import "github.com/ironsheep/raster-algebra-mcp/internal/graylevel"

// Per-cell rules shared by both storage strategies. The bool results report
// whether the cell is written at all; unwritten cells keep the result's
// initial White.

func lightenCell(l graylevel.Level) (graylevel.Level, bool) {
	if l.IsWhite() {
		return graylevel.White, false
	}
	return l.Lighten(), true
}

func darkenCell(l graylevel.Level) (graylevel.Level, bool) {
	if l.IsBlack() {
		return graylevel.White, false
	}
	return l.Darken(), true
}

func contrastCell(l, avg graylevel.Level) (graylevel.Level, bool) {
	switch {
	case l.Rank() > avg.Rank():
		return l.Darken(), true
	case l.Rank() < avg.Rank():
		return l.Lighten(), true
	}
	return graylevel.White, false
}

func intersectCell(a, b graylevel.Level) graylevel.Level {
	if a == b {
		return a
	}
	return graylevel.White
}

// levelAt reads an in-range cell of any Raster, bypassing the bounds check
// for the built-in strategies.
func levelAt(r Raster, x, y int) graylevel.Level {
	switch v := r.(type) {
	case *Dense:
		return v.cells[v.index(x, y)]
	case *Assoc:
		return v.cells[Coord{X: x, Y: y}]
	}
	l, _ := r.PointAt(x, y)
	return l
}

// averageOf computes the truncated mean rank of r from its level counts.
func averageOf(r Raster) (graylevel.Level, error) {
	var weighted, total int
	for _, l := range graylevel.All() {
		n := r.CountLevel(l)
		weighted += n * l.Rank()
		total += n
	}
	if total == 0 {
		Logger().Debug("raster: average of empty raster",
			"width", r.Width(), "height", r.Height())
		return graylevel.White, ErrEmptyRaster
	}
	return graylevel.FromRank(weighted / total)
}
