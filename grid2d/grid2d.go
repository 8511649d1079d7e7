// Package grid2d implements the generic 2-D cell grid the registration
// engine's dependency contract calls out as supporting infrastructure: a
// rectangular array of cells keyed by world coordinates, with clamped and
// unclamped world-to-cell conversion. It is not exercised by the
// registration core's hot path; OrientedGrid samples viewpoints directly off
// the spatial hash instead of a materialized cell array.
package grid2d

import (
	"math"

	"github.com/golang/geo/r3"
)

// Grid2D is a rectangular array of cells of type T, addressed by (x, y) cell
// coordinates or by a world position bucketed through BBoxMin and Res.
type Grid2D[T any] struct {
	width, height int
	res           float64
	bbMin, bbMax  r3.Vector
	cells         []T
}

// New returns a width x height grid whose cell (0,0) corner sits at bbMin,
// with cell size res.
func New[T any](width, height int, bbMin r3.Vector, res float64) *Grid2D[T] {
	g := &Grid2D[T]{
		width: width, height: height, res: res, bbMin: bbMin,
		cells: make([]T, width*height),
	}
	g.bbMax = r3.Vector{X: bbMin.X + float64(width)*res, Y: bbMin.Y + float64(height)*res, Z: bbMin.Z}
	return g
}

// NewFromBBox returns a grid covering [bbMin, bbMax] at cell size res. The
// max corner is adjusted outward so it falls exactly on a cell boundary, per
// the original implementation's constructor contract.
func NewFromBBox[T any](bbMin, bbMax r3.Vector, res float64) *Grid2D[T] {
	width := int(math.Ceil((bbMax.X - bbMin.X) / res))
	height := int(math.Ceil((bbMax.Y - bbMin.Y) / res))
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return New[T](width, height, bbMin, res)
}

// Width returns the cell count along X.
func (g *Grid2D[T]) Width() int { return g.width }

// Height returns the cell count along Y.
func (g *Grid2D[T]) Height() int { return g.height }

// Res returns the cell size.
func (g *Grid2D[T]) Res() float64 { return g.res }

// BBoxMin returns the min corner of the grid's bounding box.
func (g *Grid2D[T]) BBoxMin() r3.Vector { return g.bbMin }

// BBoxMax returns the max corner of the grid's bounding box (cell-aligned).
func (g *Grid2D[T]) BBoxMax() r3.Vector { return g.bbMax }

// Index returns the 1-D array index of cell (x, y), with no bounds check.
func (g *Grid2D[T]) Index(x, y int) int { return x + y*g.width }

// Pos returns the world position of the corner of cell (x, y).
func (g *Grid2D[T]) Pos(x, y int) r3.Vector {
	return r3.Vector{X: g.bbMin.X + float64(x)*g.res, Y: g.bbMin.Y + float64(y)*g.res, Z: g.bbMin.Z}
}

// Convert maps a world position to cell coordinates with no bounds check;
// the result may fall outside [0, width)x[0, height).
func (g *Grid2D[T]) Convert(pos r3.Vector) (x, y int) {
	return int(math.Floor((pos.X - g.bbMin.X) / g.res)), int(math.Floor((pos.Y - g.bbMin.Y) / g.res))
}

// ConvertSafe is Convert clamped to the grid's extent: coordinates outside
// [0, width)x[0, height) are clamped to the nearest edge cell, and ok reports
// whether pos fell inside the grid before clamping.
func (g *Grid2D[T]) ConvertSafe(pos r3.Vector) (x, y int, ok bool) {
	x, y = g.Convert(pos)
	ok = x >= 0 && x < g.width && y >= 0 && y < g.height
	if x < 0 {
		x = 0
	} else if x >= g.width {
		x = g.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.height {
		y = g.height - 1
	}
	return x, y, ok
}

// At returns a pointer to cell (x, y), or nil if out of bounds.
func (g *Grid2D[T]) At(x, y int) *T {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return nil
	}
	return &g.cells[g.Index(x, y)]
}

// AtPos returns a pointer to the cell containing pos, or nil if pos falls
// outside the grid.
func (g *Grid2D[T]) AtPos(pos r3.Vector) *T {
	x, y, ok := g.ConvertSafe(pos)
	if !ok {
		return nil
	}
	return g.At(x, y)
}

// Clear resets every cell to its zero value.
func (g *Grid2D[T]) Clear() {
	for i := range g.cells {
		var zero T
		g.cells[i] = zero
	}
}
