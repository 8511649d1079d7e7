package pointcloud

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// CloudCentroid returns the arithmetic mean of all points in pc, or the zero
// vector for an empty cloud.
func CloudCentroid(pc PointCloud) r3.Vector {
	if pc.Size() == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	pc.Iterate(0, 0, func(p r3.Vector, _ Data) bool {
		sum = sum.Add(p)
		return true
	})
	n := float64(pc.Size())
	return r3.Vector{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}
}

// CloudMatrixCol names a column of the dense matrix CloudMatrix produces.
type CloudMatrixCol int

// Columns CloudMatrix may emit, always in this order when present.
const (
	CloudMatrixColX CloudMatrixCol = iota
	CloudMatrixColY
	CloudMatrixColZ
	CloudMatrixColR
	CloudMatrixColG
	CloudMatrixColB
	CloudMatrixColV
)

// CloudMatrix flattens pc into a dense point-by-column matrix. Columns are
// X,Y,Z always, followed by R,G,B if any point carries color, followed by V
// if any point carries a scalar value. Returns (nil, nil) for an empty
// cloud.
func CloudMatrix(pc PointCloud) (*mat.Dense, []CloudMatrixCol) {
	if pc.Size() == 0 {
		return nil, nil
	}

	hasColor, hasValue := false, false
	pc.Iterate(0, 0, func(_ r3.Vector, d Data) bool {
		if d != nil {
			if d.HasColor() {
				hasColor = true
			}
			if d.HasValue() {
				hasValue = true
			}
		}
		return true
	})

	cols := []CloudMatrixCol{CloudMatrixColX, CloudMatrixColY, CloudMatrixColZ}
	if hasColor {
		cols = append(cols, CloudMatrixColR, CloudMatrixColG, CloudMatrixColB)
	}
	if hasValue {
		cols = append(cols, CloudMatrixColV)
	}

	rows := pc.Size()
	data := make([]float64, 0, rows*len(cols))
	pc.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		data = append(data, p.X, p.Y, p.Z)
		if hasColor {
			var r, g, b uint8
			if d != nil {
				r, g, b = d.RGB255()
			}
			data = append(data, float64(r), float64(g), float64(b))
		}
		if hasValue {
			v := 0
			if d != nil && d.HasValue() {
				v = d.Value()
			}
			data = append(data, float64(v))
		}
		return true
	})

	return mat.NewDense(rows, len(cols), data), cols
}

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min, Max r3.Vector
}

// Center returns the midpoint of the box.
func (b BBox) Center() r3.Vector {
	return r3.Vector{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2, Z: (b.Min.Z + b.Max.Z) / 2}
}

// Diagonal2D returns the XY-plane diagonal length of the box.
func (b BBox) Diagonal2D() float64 {
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	return math.Hypot(dx, dy)
}

// BoundingBoxFromPointCloud computes the axis-aligned bounding box of pc.
// Returns an error for an empty cloud.
func BoundingBoxFromPointCloud(pc PointCloud) (BBox, error) {
	if pc.Size() == 0 {
		return BBox{}, errors.New("pointcloud: cannot compute bounding box of empty cloud")
	}
	first := true
	var box BBox
	pc.Iterate(0, 0, func(p r3.Vector, _ Data) bool {
		if first {
			box = BBox{Min: p, Max: p}
			first = false
			return true
		}
		box.Min = minVec(box.Min, p)
		box.Max = maxVec(box.Max, p)
		return true
	})
	return box, nil
}

func minVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func maxVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// MergePointClouds concatenates clouds into one ordered cloud, dropping any
// payload data.
func MergePointClouds(clouds []PointCloud) (PointCloud, error) {
	total := 0
	for _, c := range clouds {
		total += c.Size()
	}
	out := NewBasicPointCloud(total)
	for _, c := range clouds {
		var setErr error
		c.Iterate(0, 0, func(p r3.Vector, _ Data) bool {
			if err := out.Set(p); err != nil {
				setErr = err
				return false
			}
			return true
		})
		if setErr != nil {
			return nil, setErr
		}
	}
	return out, nil
}

// MergePointCloudsWithColor concatenates clouds into one ordered cloud,
// preserving each point's color/value payload.
func MergePointCloudsWithColor(clouds []PointCloud) (PointCloud, error) {
	total := 0
	for _, c := range clouds {
		total += c.Size()
	}
	out := NewBasicPointCloud(total)
	for _, c := range clouds {
		var setErr error
		c.Iterate(0, 0, func(p r3.Vector, d Data) bool {
			if err := out.Set(p, d); err != nil {
				setErr = err
				return false
			}
			return true
		})
		if setErr != nil {
			return nil, setErr
		}
	}
	return out, nil
}

// PrunePointClouds drops every cloud with fewer than minPoints points.
func PrunePointClouds(clouds []PointCloud, minPoints int) []PointCloud {
	out := make([]PointCloud, 0, len(clouds))
	for _, c := range clouds {
		if c.Size() >= minPoints {
			out = append(out, c)
		}
	}
	return out
}
