// Package imaging moves rasters in and out of ordinary images.
//
// It loads source pictures from disk, converts them into rasters of gray
// levels, and renders rasters back into PNG images for display.
//
// # Coordinate System
//
// Pixel and cell coordinates are 0-based with (0,0) at the top-left, X
// increasing rightward and Y downward. For regions, (X1,Y1) is inclusive
// and (X2,Y2) exclusive.
//
// # Conversion
//
// ToRaster optionally crops a Region, optionally resizes to the requested
// raster size, converts to grayscale, and then assigns each pixel a level.
// By default a pixel gets the level nearest its perceptual lightness; with a
// Threshold the result is strictly black and white.
//
// # Rendering
//
// Render draws each cell as a Scale × Scale block of its gray value, with an
// optional grid along cell boundaries, and returns the PNG base64 encoded.
// ToGray gives the unscaled image for callers that want to encode it
// themselves.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The conversion and rendering
// functions keep no state; a raster must not be mutated while it is being
// rendered.
package imaging
