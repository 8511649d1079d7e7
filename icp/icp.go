// Package icp implements the iterated-closest-point refinement solver the
// registration core's CoarseRegistrar uses to polish a candidate transform:
// a 3-D k-d tree correspondence search paired with Kabsch/SVD rigid-fit per
// iteration.
package icp

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/geosim/tpcl/pointcloud"
	"github.com/geosim/tpcl/rigid"
)

const (
	maxIterations  = 30
	convergenceEps = 1e-6
)

// ICP holds the target (main) cloud index and the inlier-radius resolution
// governing correspondence search.
type ICP struct {
	target     *pointcloud.KDTree
	resolution float64
}

// NewICP returns an ICP with the given correspondence-search resolution
// (the maximum distance a correspondence may span).
func NewICP(resolution float64) *ICP {
	return &ICP{resolution: resolution}
}

// SetRegistrationResolution changes the correspondence-search resolution,
// e.g. between a coarse and a polishing ICP pass.
func (icp *ICP) SetRegistrationResolution(r float64) {
	icp.resolution = r
}

// MainPointCloudUpdate sets (or replaces) the target cloud correspondences
// are searched against.
func (icp *ICP) MainPointCloudUpdate(main pointcloud.PointCloud) {
	icp.target = pointcloud.NewKDTree(main)
}

// SecondaryPointCloudRegistration refines init by iterated closest point
// against the target cloud and returns the refined transform and its final
// RMS residual. If an iteration finds no correspondences, the pose reached
// so far (init itself when this happens on the first iteration) is returned
// with a +Inf residual.
func (icp *ICP) SecondaryPointCloudRegistration(cloud []r3.Vector, init rigid.Pose) (rigid.Pose, float64) {
	if icp.target == nil || icp.target.Size() == 0 || len(cloud) == 0 {
		return init, math.Inf(1)
	}

	pose := init
	lastResidual := math.Inf(1)

	for iter := 0; iter < maxIterations; iter++ {
		src := make([]r3.Vector, 0, len(cloud))
		dst := make([]r3.Vector, 0, len(cloud))
		var sumSq float64

		for _, p := range cloud {
			transformed := pose.Transform(p)
			nn, _, dist, ok := icp.target.NearestNeighbor(transformed)
			if !ok || dist > icp.resolution {
				continue
			}
			src = append(src, p)
			dst = append(dst, nn)
			sumSq += dist * dist
		}

		if len(src) == 0 {
			return pose, math.Inf(1)
		}

		residual := math.Sqrt(sumSq / float64(len(src)))
		pose = kabsch(src, dst)

		if math.Abs(lastResidual-residual) < convergenceEps {
			lastResidual = residual
			break
		}
		lastResidual = residual
	}

	return pose, lastResidual
}
