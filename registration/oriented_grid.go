// Package registration implements the coarse point-cloud registration
// engine: a gravity-aligned oriented viewpoint dictionary (OrientedGrid), a
// lazily-materialized descriptor/DFT cache over it (DescriptorCache), a
// phase-correlation candidate search (PhaseCorrelationSearch), and the
// registrar that orchestrates preprocessing, search, RMSE pruning, and ICP
// refinement into a single registration call (CoarseRegistrar).
package registration

import (
	"math"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"github.com/geosim/tpcl/features"
	"github.com/geosim/tpcl/pointcloud"
	"github.com/geosim/tpcl/rigid"
	"github.com/geosim/tpcl/spatialhash"
)

// OrientedGrid owns the growing main point cloud and the gravity-aligned
// sensor poses sampled on a grid over it.
type OrientedGrid struct {
	voxelSize float64
	ptsMain   []r3.Vector
	hash      *spatialhash.Hash2D
	orient    []rigid.Pose

	haveBox bool
	bboxMin r3.Vector
	bboxMax r3.Vector
}

// NewOrientedGrid returns an empty grid whose spatial hash buckets by
// voxelSize.
func NewOrientedGrid(voxelSize float64) *OrientedGrid {
	return &OrientedGrid{
		voxelSize: voxelSize,
		hash:      spatialhash.New(voxelSize),
	}
}

// VoxelSize returns the hash bucket size fixed at construction (or the last
// DeleteAndSetVoxelSize call).
func (g *OrientedGrid) VoxelSize() float64 { return g.voxelSize }

// NumPoints returns the number of main-cloud points ever added.
func (g *OrientedGrid) NumPoints() int { return len(g.ptsMain) }

// NumOrientations returns the number of sampled viewpoint poses.
func (g *OrientedGrid) NumOrientations() int { return len(g.orient) }

// Orientation returns a read-only copy of orient[i].
func (g *OrientedGrid) Orientation(i int) rigid.Pose { return g.orient[i] }

// BoundingBox returns the monotone envelope of every point ever added, and
// whether any point has been added yet.
func (g *OrientedGrid) BoundingBox() (pointcloud.BBox, bool) {
	return pointcloud.BBox{Min: g.bboxMin, Max: g.bboxMax}, g.haveBox
}

// BBox is an alias of BoundingBox matching the original's getBBox accessor.
func (g *OrientedGrid) BBox() (pointcloud.BBox, bool) { return g.BoundingBox() }

// Poses returns a read-only copy of every sampled viewpoint pose, valid
// until the next mutating call.
func (g *OrientedGrid) Poses() []rigid.Pose {
	out := make([]rigid.Pose, len(g.orient))
	copy(out, g.orient)
	return out
}

// MainPoints returns a read-only copy of every main-cloud point ever added,
// valid until the next mutating call.
func (g *OrientedGrid) MainPoints() []r3.Vector {
	out := make([]r3.Vector, len(g.ptsMain))
	copy(out, g.ptsMain)
	return out
}

// PointCloudUpdate appends points to the main cloud and its spatial hash,
// and folds their bounding box into the persistent envelope. It returns the
// bounding box of just this batch. Non-finite points are rejected entirely
// (no-op) to honor the invariant that the hash and pts_main stay in lockstep.
func (g *OrientedGrid) PointCloudUpdate(points []r3.Vector) (pointcloud.BBox, error) {
	if len(points) == 0 {
		return pointcloud.BBox{}, nil
	}
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) ||
			math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) || math.IsInf(p.Z, 0) {
			return pointcloud.BBox{}, nil
		}
	}

	batch := pointcloud.BBox{Min: points[0], Max: points[0]}
	for _, p := range points {
		g.ptsMain = append(g.ptsMain, p)
		g.hash.Add(p, len(g.ptsMain)-1)
		batch.Min = minVec(batch.Min, p)
		batch.Max = maxVec(batch.Max, p)
	}

	if !g.haveBox {
		g.bboxMin, g.bboxMax = batch.Min, batch.Max
		g.haveBox = true
	} else {
		g.bboxMin = minVec(g.bboxMin, batch.Min)
		g.bboxMax = maxVec(g.bboxMax, batch.Max)
	}
	return batch, nil
}

// ViewpointGridUpdate tessellates [boxMin.xy, boxMax.xy] into a dGrid-pitch
// grid, samples a gravity-aligned pose at each cell, appends them to orient,
// and returns the index of the first pose appended. The per-cell work is
// independent and runs in parallel.
func (g *OrientedGrid) ViewpointGridUpdate(dGrid, dSensor float64, boxMin, boxMax r3.Vector) (int, error) {
	firstNewIndex := len(g.orient)
	if dGrid <= 0 {
		return firstNewIndex, nil
	}

	w := int(math.Ceil((boxMax.X - boxMin.X) / dGrid))
	h := int(math.Ceil((boxMax.Y - boxMin.Y) / dGrid))
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	poses := make([]rigid.Pose, w*h)
	var eg errgroup.Group
	for gy := 0; gy < h; gy++ {
		gy := gy
		eg.Go(func() error {
			for gx := 0; gx < w; gx++ {
				p := r3.Vector{X: boxMin.X + float64(gx)*dGrid, Y: boxMin.Y + float64(gy)*dGrid}
				if nearest, ok := g.hash.FindNearest(p, dGrid); ok {
					p.Z = nearest.Z
				} else {
					p.Z = boxMin.Z
				}

				n, err := features.FindNormal(p, g.hash, 2*g.voxelSize, true)
				if err != nil {
					return err
				}

				pPrime := p.Add(n.Mul(dSensor))
				poses[gy*w+gx] = rigid.Rotate(n, r3.Vector{X: 1})
				poses[gy*w+gx].T = pPrime
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return firstNewIndex, err
	}

	g.orient = append(g.orient, poses...)
	return firstNewIndex, nil
}

// ResetGrid clears all points and orientations, keeping the voxel size.
func (g *OrientedGrid) ResetGrid() {
	g.ptsMain = nil
	g.orient = nil
	g.hash.Clear()
	g.haveBox = false
	g.bboxMin, g.bboxMax = r3.Vector{}, r3.Vector{}
}

// DeleteAndSetVoxelSize resets the grid and changes its hash bucket size.
func (g *OrientedGrid) DeleteAndSetVoxelSize(voxelSize float64) {
	g.ResetGrid()
	g.voxelSize = voxelSize
	g.hash = spatialhash.New(voxelSize)
}

func minVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func maxVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}
