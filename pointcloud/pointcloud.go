package pointcloud

import "github.com/golang/geo/r3"

// PointCloud is a generic, point-indexed container of optionally colored or
// valued points. Two storage strategies back it: an unordered hash map
// (New) and an ordered, append-only slice (NewBasicPointCloud), matching
// whether callers need insertion order preserved.
type PointCloud interface {
	Size() int
	Set(p r3.Vector, d ...Data) error
	At(x, y, z float64) (Data, bool)
	Iterate(numBatches, myBatch int, fn func(p r3.Vector, d Data) bool)
	IsOrdered() bool
}

// New returns an unordered point cloud.
func New() PointCloud {
	return newMapStorage()
}

// NewBasicPointCloud returns an ordered, append-only point cloud with
// capacity pre-allocated for sizeHint points.
func NewBasicPointCloud(sizeHint int) PointCloud {
	return newMatrixStorage(sizeHint)
}

// NewVector is a convenience constructor matching the teacher's historic
// spelling; it is a plain r3.Vector literal, no validation performed here
// (validation happens at Set, the system boundary).
func NewVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// NewBasicPoint is an alias of NewVector used where callers build bare
// positions with no payload.
func NewBasicPoint(x, y, z float64) r3.Vector {
	return NewVector(x, y, z)
}

// CloudContains reports whether the cloud holds a point at exactly (x,y,z).
func CloudContains(pc PointCloud, x, y, z float64) bool {
	_, ok := pc.At(x, y, z)
	return ok
}

// Points returns every point in the cloud as a plain slice, in iteration
// order. The returned slice is an owned copy; it is safe to mutate.
func Points(pc PointCloud) []r3.Vector {
	out := make([]r3.Vector, 0, pc.Size())
	pc.Iterate(0, 0, func(p r3.Vector, _ Data) bool {
		out = append(out, p)
		return true
	})
	return out
}
