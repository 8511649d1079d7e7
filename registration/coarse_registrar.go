package registration

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"github.com/geosim/tpcl/features"
	"github.com/geosim/tpcl/icp"
	"github.com/geosim/tpcl/pointcloud"
	"github.com/geosim/tpcl/rigid"
)

const maxCandidates = 10

// Options tunes every geometric and filtering parameter of a CoarseRegistrar.
// Zero-value fields are not valid; use DefaultOptions as a starting point.
type Options struct {
	VoxelSizeGlobal float64 // main-cloud downsample + hash bucket
	VoxelSizeLocal  float64 // secondary downsample
	DGrid           float64 // viewpoint pitch in XY
	DSensor         float64 // lift above ground along normal
	LineWidth       int     // descriptor azimuth bins
	NumLines        int     // descriptor elevation bins
	SearchRange     float64 // XY radius around estimate
	MedFiltSize0    int     // 1st denoise median window
	MedFiltSize1    int     // 2nd denoise median window
	DistFromMedian  float64 // rejection threshold
	RMax            float64 // descriptor far cutoff
	RMin            float64 // descriptor near cutoff
}

// DefaultOptions returns the engine's documented defaults.
func DefaultOptions() Options {
	return Options{
		VoxelSizeGlobal: 2.0,
		VoxelSizeLocal:  2.0,
		DGrid:           3.0,
		DSensor:         2.0,
		LineWidth:       128,
		NumLines:        64,
		SearchRange:     50.0,
		MedFiltSize0:    7,
		MedFiltSize1:    5,
		DistFromMedian:  0.03,
		RMax:            60.0,
		RMin:            2.0,
	}
}

// CoarseRegistrar orchestrates the full pipeline: a dictionary of the main
// cloud's descriptors, phase-correlation search over it, RMSE pruning of the
// candidates, and two-pass ICP refinement of the survivor.
type CoarseRegistrar struct {
	opts   Options
	cache  *DescriptorCache
	search *PhaseCorrelationSearch
	solver *icp.ICP
}

// NewCoarseRegistrar returns a registrar with an empty dictionary.
func NewCoarseRegistrar(opts Options) *CoarseRegistrar {
	cache := NewDescriptorCache(opts.VoxelSizeGlobal, opts.RMin, opts.RMax, opts.LineWidth, opts.NumLines)
	return &CoarseRegistrar{
		opts:   opts,
		cache:  cache,
		search: NewPhaseCorrelationSearch(cache),
		solver: icp.NewICP(1.5 * opts.VoxelSizeGlobal),
	}
}

// MainPointCloudUpdate voxel-downsamples cloud at VoxelSizeGlobal, optionally
// wipes the dictionary first, and folds the result into it.
func (r *CoarseRegistrar) MainPointCloudUpdate(cloud pointcloud.PointCloud, clean bool) error {
	downsampled, err := features.DownSamplePointCloud(cloud, r.opts.VoxelSizeGlobal)
	if err != nil {
		return err
	}
	if clean {
		r.cache.ResetDictionary()
	}

	points := make([]r3.Vector, 0, downsampled.Size())
	downsampled.Iterate(0, 0, func(p r3.Vector, _ pointcloud.Data) bool {
		points = append(points, p)
		return true
	})

	if err := r.cache.DictionaryUpdate(points, r.opts.DGrid, r.opts.DSensor); err != nil {
		return err
	}
	r.solver.MainPointCloudUpdate(downsampled)
	return nil
}

// RangeNeeded returns the maximum radius from any query pose at which
// main-cloud points can influence a registration result.
func (r *CoarseRegistrar) RangeNeeded() float64 {
	return r.opts.SearchRange + r.opts.RMax
}

type scoredCandidate struct {
	transform rigid.Pose
	rmse      float64
}

// SecondaryPointCloudRegistration registers cloud against the dictionary and
// returns the recovered transform and its ICP residual score (lower is
// better; +Inf signals failure to align). estimatedPose may be nil, in which
// case the search falls back to the dictionary's bounding box.
func (r *CoarseRegistrar) SecondaryPointCloudRegistration(cloud *features.Cloud, estimatedPose *rigid.Pose) (rigid.Pose, float64) {
	fallback := rigid.Identity()
	if len(cloud.Positions) == 0 {
		return fallback, math.Inf(1)
	}

	denoised := cloud
	if cloud.LineWidth > 0 {
		var err error
		denoised, err = features.DenoiseRangeOfOrderedPointCloud(cloud, r.opts.MedFiltSize0, r.opts.MedFiltSize1, r.opts.DistFromMedian)
		if err != nil {
			return fallback, math.Inf(1)
		}
	}
	if len(denoised.Positions) == 0 {
		return fallback, math.Inf(1)
	}

	raw := pointcloud.New()
	for _, p := range denoised.Positions {
		if err := raw.Set(p); err != nil {
			return fallback, math.Inf(1)
		}
	}
	downsampled, err := features.DownSamplePointCloud(raw, r.opts.VoxelSizeLocal)
	if err != nil {
		return fallback, math.Inf(1)
	}

	localPoints := make([]r3.Vector, 0, downsampled.Size())
	downsampled.Iterate(0, 0, func(p r3.Vector, _ pointcloud.Data) bool {
		localPoints = append(localPoints, p)
		return true
	})
	if len(localPoints) == 0 {
		return fallback, math.Inf(1)
	}

	queryImage := r.cache.PCL2descriptor(localPoints)
	queryDFT := r.cache.Descriptor2DFT(queryImage)

	center, radius := r.searchWindow(estimatedPose)

	_, _, orientations := r.search.SearchDictionary(maxCandidates, radius, queryDFT, center)
	if len(orientations) == 0 {
		return fallback, math.Inf(1)
	}

	pruned := r.pruneByRMSE(orientations, localPoints)
	if len(pruned) == 0 {
		return fallback, math.Inf(1)
	}

	r.solver.SetRegistrationResolution(1.5 * r.opts.VoxelSizeGlobal)
	best := pruned[0].transform
	bestResidual := math.Inf(1)
	for _, c := range pruned {
		pose, residual := r.solver.SecondaryPointCloudRegistration(localPoints, c.transform)
		if residual < bestResidual {
			bestResidual = residual
			best = pose
		}
	}

	r.solver.SetRegistrationResolution(0.5 * r.opts.VoxelSizeGlobal)
	polished, polishedResidual := r.solver.SecondaryPointCloudRegistration(localPoints, best)
	return polished, polishedResidual
}

func (r *CoarseRegistrar) searchWindow(estimatedPose *rigid.Pose) (center r3.Vector, radius float64) {
	if estimatedPose != nil {
		return estimatedPose.T, r.opts.SearchRange
	}
	box, ok := r.cache.BoundingBox()
	if !ok {
		return r3.Vector{}, 0
	}
	return box.Center(), box.Diagonal2D()
}

func (r *CoarseRegistrar) pruneByRMSE(orientations []rigid.Pose, localPoints []r3.Vector) []scoredCandidate {
	scored := make([]scoredCandidate, len(orientations))
	var eg errgroup.Group
	for i, t := range orientations {
		i, t := i, t
		eg.Go(func() error {
			rmse := features.RMSEofRegistration(r.cache.hash, localPoints, 4*r.opts.VoxelSizeGlobal, t)
			scored[i] = scoredCandidate{transform: t, rmse: rmse}
			return nil
		})
	}
	_ = eg.Wait() // RMSEofRegistration never errors
	sort.Slice(scored, func(i, j int) bool { return scored[i].rmse < scored[j].rmse })

	f := maxCandidates
	if len(scored) < f {
		f = len(scored)
	}
	return scored[:f]
}
