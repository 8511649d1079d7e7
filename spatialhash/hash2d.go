// Package spatialhash implements a 2-D bucketed nearest-point index over a
// growing set of 3-D points: points are hashed by their XY cell, and nearest
// lookups compare horizontal (XY) distance within a search radius, then
// return the full 3-D point. This is the external SpatialHash2D collaborator
// OrientedGrid mirrors its main cloud into and RMSE scoring queries against.
package spatialhash

import (
	"math"

	"github.com/golang/geo/r3"
)

type cellKey struct{ i, j int }

type entry struct {
	point   r3.Vector
	payload interface{}
}

// Hash2D buckets points by their (x,y) cell of size cellSize.
type Hash2D struct {
	cellSize float64
	cells    map[cellKey][]entry
}

// New returns an empty hash with the given bucket size.
func New(cellSize float64) *Hash2D {
	return &Hash2D{cellSize: cellSize, cells: make(map[cellKey][]entry)}
}

func (h *Hash2D) key(p r3.Vector) cellKey {
	return cellKey{i: int(math.Floor(p.X / h.cellSize)), j: int(math.Floor(p.Y / h.cellSize))}
}

// Add inserts point with an opaque payload (may be nil).
func (h *Hash2D) Add(point r3.Vector, payload interface{}) {
	k := h.key(point)
	h.cells[k] = append(h.cells[k], entry{point: point, payload: payload})
}

// Clear empties the hash, keeping its cell size.
func (h *Hash2D) Clear() {
	h.cells = make(map[cellKey][]entry)
}

// Size returns the number of points held.
func (h *Hash2D) Size() int {
	n := 0
	for _, bucket := range h.cells {
		n += len(bucket)
	}
	return n
}

// FindNearest returns the point horizontally closest to query within
// radius, and whether any point qualified. Ties break on first encounter
// during the cell scan.
func (h *Hash2D) FindNearest(query r3.Vector, radius float64) (r3.Vector, bool) {
	p, _, ok := h.FindNearestWithPayload(query, radius)
	return p, ok
}

// FindWithinRadius returns every point horizontally within radius of query,
// in cell-scan order.
func (h *Hash2D) FindWithinRadius(query r3.Vector, radius float64) []r3.Vector {
	if radius < 0 || h.cellSize <= 0 {
		return nil
	}
	center := h.key(query)
	cellSpan := int(math.Ceil(radius/h.cellSize)) + 1

	var out []r3.Vector
	for di := -cellSpan; di <= cellSpan; di++ {
		for dj := -cellSpan; dj <= cellSpan; dj++ {
			bucket, ok := h.cells[cellKey{i: center.i + di, j: center.j + dj}]
			if !ok {
				continue
			}
			for _, e := range bucket {
				if math.Hypot(e.point.X-query.X, e.point.Y-query.Y) <= radius {
					out = append(out, e.point)
				}
			}
		}
	}
	return out
}

// FindNearestWithPayload is FindNearest plus the stored payload of the
// match.
func (h *Hash2D) FindNearestWithPayload(query r3.Vector, radius float64) (r3.Vector, interface{}, bool) {
	if radius < 0 || h.cellSize <= 0 {
		return r3.Vector{}, nil, false
	}
	center := h.key(query)
	cellSpan := int(math.Ceil(radius/h.cellSize)) + 1

	var (
		best     entry
		bestDist = math.Inf(1)
		found    bool
	)
	for di := -cellSpan; di <= cellSpan; di++ {
		for dj := -cellSpan; dj <= cellSpan; dj++ {
			bucket, ok := h.cells[cellKey{i: center.i + di, j: center.j + dj}]
			if !ok {
				continue
			}
			for _, e := range bucket {
				d := math.Hypot(e.point.X-query.X, e.point.Y-query.Y)
				if d <= radius && d < bestDist {
					bestDist = d
					best = e
					found = true
				}
			}
		}
	}
	if !found {
		return r3.Vector{}, nil, false
	}
	return best.point, best.payload, true
}
