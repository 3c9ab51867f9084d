// Package raster implements fixed-size grayscale rasters and their algebra.
//
// A Raster is a width × height grid where every coordinate holds exactly one
// graylevel.Level. Two storage strategies implement the same Raster
// interface and produce identical results for every operation:
//
//   - Dense: a row-major slice indexed directly by coordinate.
//   - Assoc: a map keyed by Coord, pre-populated with White for every valid
//     coordinate at construction.
//
// # Coordinate System
//
// Coordinates are 0-based with (0,0) at the top-left; X grows rightward and
// Y grows downward. Valid coordinates satisfy 0 <= x < Width() and
// 0 <= y < Height().
//
// # Lifecycle
//
// New rasters are all White. A raster is mutated in place only by SetPoint,
// TurnOn, TurnOff and Randomize. Every derived operation (Negate, Add,
// ContrastBoost, ...) allocates a new raster of the receiver's storage
// strategy and leaves its inputs untouched.
//
// # Error Handling
//
// One policy applies to both strategies:
//   - PointAt outside the grid returns ErrOutOfBounds.
//   - SetPoint, TurnOn and TurnOff outside the grid are silent no-ops, as
//     is SetPoint with a level outside White..Black.
//   - Binary operators on rasters of different dimensions return a nil
//     raster and ErrDimensionMismatch.
//   - AverageLevel and ContrastBoost on a raster with no cells return
//     ErrEmptyRaster.
//
// Use errors.Is to test for these; returned errors carry coordinates or
// dimensions as context.
//
// # Skipped Cells
//
// LightenImage skips White cells, DarkenImage skips Black cells, and
// ContrastBoost skips cells equal to the average level. A skipped cell is not
// copied: it keeps the fresh result's White. For DarkenImage and
// ContrastBoost this turns skipped dark cells white.
//
// # Thread Safety
//
// Concurrent reads of one raster are safe. Mutations must be serialized by
// the caller.
package raster
