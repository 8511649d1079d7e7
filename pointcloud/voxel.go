package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// VoxelCoords indexes a cell of a regular voxel grid.
type VoxelCoords struct {
	I, J, K int
}

// IsEqual reports whether two voxel coordinates name the same cell.
func (c VoxelCoords) IsEqual(other VoxelCoords) bool {
	return c.I == other.I && c.J == other.J && c.K == other.K
}

// GetVoxelCoordinates returns the cell containing pt in a grid of the given
// voxelSize anchored at ptMin.
func GetVoxelCoordinates(pt, ptMin r3.Vector, voxelSize float64) VoxelCoords {
	return VoxelCoords{
		I: int(math.Floor((pt.X - ptMin.X) / voxelSize)),
		J: int(math.Floor((pt.Y - ptMin.Y) / voxelSize)),
		K: int(math.Floor((pt.Z - ptMin.Z) / voxelSize)),
	}
}

// voxel accumulates the running centroid of the points that fell into one
// grid cell.
type voxel struct {
	key   VoxelCoords
	sum   r3.Vector
	count int
}

// VoxelGrid buckets a point cloud's points into fixed-size cells and can
// produce a downsampled cloud of per-cell centroids.
type VoxelGrid struct {
	voxels    map[VoxelCoords]*voxel
	voxelSize float64
	ptMin     r3.Vector
}

// NewVoxelGridFromPointCloud buckets pc's points into cells of voxelSize,
// anchored at pc's bounding-box minimum.
func NewVoxelGridFromPointCloud(pc PointCloud, voxelSize float64) *VoxelGrid {
	vg := &VoxelGrid{voxels: make(map[VoxelCoords]*voxel), voxelSize: voxelSize}
	if bbox, err := BoundingBoxFromPointCloud(pc); err == nil {
		vg.ptMin = bbox.Min
	}
	pc.Iterate(0, 0, func(p r3.Vector, _ Data) bool {
		key := GetVoxelCoordinates(p, vg.ptMin, voxelSize)
		v, ok := vg.voxels[key]
		if !ok {
			v = &voxel{key: key}
			vg.voxels[key] = v
		}
		v.sum = v.sum.Add(p)
		v.count++
		return true
	})
	return vg
}

// Len returns the number of occupied cells.
func (vg *VoxelGrid) Len() int { return len(vg.voxels) }

// Centroids returns the centroid of every occupied cell, in no particular
// order.
func (vg *VoxelGrid) Centroids() []r3.Vector {
	out := make([]r3.Vector, 0, len(vg.voxels))
	for _, v := range vg.voxels {
		out = append(out, r3.Vector{X: v.sum.X / float64(v.count), Y: v.sum.Y / float64(v.count), Z: v.sum.Z / float64(v.count)})
	}
	return out
}

// ConvertToPointCloud returns a new cloud holding one point per occupied
// cell, at that cell's centroid.
func (vg *VoxelGrid) ConvertToPointCloud() (PointCloud, error) {
	out := NewBasicPointCloud(len(vg.voxels))
	for _, c := range vg.Centroids() {
		if err := out.Set(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
