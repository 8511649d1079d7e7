package pointcloud

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r3"
)

// kdNode is one node of a balanced 3-D k-d tree, split cyclically over
// X, Y, Z by depth.
type kdNode struct {
	p           PointAndData
	axis        int
	left, right *kdNode
}

// KDTree is a PointCloud backed additionally by a k-d tree index over its
// points, supporting nearest-neighbor style spatial queries. It is rebuilt
// whenever a new point is Set.
type KDTree struct {
	cloud PointCloud
	root  *kdNode
}

// NewKDTree copies pc's points into a new KDTree.
func NewKDTree(pc PointCloud) *KDTree {
	kd := &KDTree{cloud: New()}
	pc.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		kd.cloud.Set(p, d) //nolint:errcheck // pc was already validated when its points were Set
		return true
	})
	kd.rebuild()
	return kd
}

func (kd *KDTree) rebuild() {
	points := make([]PointAndData, 0, kd.cloud.Size())
	kd.cloud.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		points = append(points, PointAndData{P: p, D: d})
		return true
	})
	kd.root = buildKDNode(points, 0)
}

func buildKDNode(points []PointAndData, depth int) *kdNode {
	if len(points) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(points, func(i, j int) bool {
		return axisValue(points[i].P, axis) < axisValue(points[j].P, axis)
	})
	mid := len(points) / 2
	node := &kdNode{p: points[mid], axis: axis}
	node.left = buildKDNode(points[:mid], depth+1)
	node.right = buildKDNode(points[mid+1:], depth+1)
	return node
}

func axisValue(p r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// Size, Set, At, Iterate and IsOrdered implement PointCloud over the
// underlying storage; Set triggers a tree rebuild.

func (kd *KDTree) Size() int { return kd.cloud.Size() }

func (kd *KDTree) Set(p r3.Vector, d ...Data) error {
	if err := kd.cloud.Set(p, d...); err != nil {
		return err
	}
	kd.rebuild()
	return nil
}

func (kd *KDTree) At(x, y, z float64) (Data, bool) { return kd.cloud.At(x, y, z) }

func (kd *KDTree) Iterate(numBatches, myBatch int, fn func(p r3.Vector, d Data) bool) {
	kd.cloud.Iterate(numBatches, myBatch, fn)
}

func (kd *KDTree) IsOrdered() bool { return kd.cloud.IsOrdered() }

// NearestNeighbor returns the closest point to target, its data, the
// distance, and whether the tree holds any points at all.
func (kd *KDTree) NearestNeighbor(target r3.Vector) (r3.Vector, Data, float64, bool) {
	if kd.root == nil {
		return r3.Vector{}, nil, 0, false
	}
	best := kd.root.p
	bestDist := target.Sub(best.P).Norm()
	searchNearest(kd.root, target, &best, &bestDist)
	return best.P, best.D, bestDist, true
}

func searchNearest(node *kdNode, target r3.Vector, best *PointAndData, bestDist *float64) {
	if node == nil {
		return
	}
	d := target.Sub(node.p.P).Norm()
	if d < *bestDist {
		*bestDist = d
		*best = node.p
	}
	diff := axisValue(target, node.axis) - axisValue(node.p.P, node.axis)
	near, far := node.left, node.right
	if diff >= 0 {
		near, far = node.right, node.left
	}
	searchNearest(near, target, best, bestDist)
	if math.Abs(diff) < *bestDist {
		searchNearest(far, target, best, bestDist)
	}
}

type scoredPoint struct {
	pd   PointAndData
	dist float64
}

func (kd *KDTree) scoredAround(target r3.Vector, includeSelf bool) []scoredPoint {
	out := make([]scoredPoint, 0, kd.Size())
	kd.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		if !includeSelf && p == target {
			return true
		}
		out = append(out, scoredPoint{pd: PointAndData{P: p, D: d}, dist: target.Sub(p).Norm()})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].dist < out[j].dist })
	return out
}

// KNearestNeighbors returns the k closest points to target, nearest first.
// If includeSelf is false, a point exactly equal to target is excluded.
func (kd *KDTree) KNearestNeighbors(target r3.Vector, k int, includeSelf bool) []*PointAndData {
	scored := kd.scoredAround(target, includeSelf)
	if k > len(scored) {
		k = len(scored)
	}
	out := make([]*PointAndData, 0, k)
	for i := 0; i < k; i++ {
		pd := scored[i].pd
		out = append(out, &pd)
	}
	return out
}

// RadiusNearestNeighbors returns every point within radius of target,
// nearest first. If includeSelf is false, a point exactly equal to target
// is excluded.
func (kd *KDTree) RadiusNearestNeighbors(target r3.Vector, radius float64, includeSelf bool) []*PointAndData {
	scored := kd.scoredAround(target, includeSelf)
	out := make([]*PointAndData, 0, len(scored))
	for _, s := range scored {
		if s.dist > radius {
			break
		}
		pd := s.pd
		out = append(out, &pd)
	}
	return out
}

// StatisticalOutlierFilter returns a filter function that removes points
// whose mean distance to their meanK nearest neighbors exceeds the cloud's
// mean neighbor distance by more than stdDevThresh standard deviations,
// the PCL statistical-outlier-removal criterion.
func StatisticalOutlierFilter(meanK int, stdDevThresh float64) (func(PointCloud) (PointCloud, error), error) {
	if meanK <= 0 {
		return nil, fmt.Errorf("argument meanK must be a positive int, got %d", meanK)
	}
	if stdDevThresh <= 0 {
		return nil, fmt.Errorf("argument stdDevThresh must be a positive float, got %.2f", stdDevThresh)
	}

	return func(pc PointCloud) (PointCloud, error) {
		kd := NewKDTree(pc)
		type meanAt struct {
			p    PointAndData
			mean float64
		}
		means := make([]meanAt, 0, kd.Size())
		var sum float64
		kd.Iterate(0, 0, func(p r3.Vector, d Data) bool {
			neighbors := kd.KNearestNeighbors(p, meanK, false)
			if len(neighbors) == 0 {
				means = append(means, meanAt{p: PointAndData{P: p, D: d}, mean: 0})
				return true
			}
			var total float64
			for _, n := range neighbors {
				total += p.Sub(n.P).Norm()
			}
			m := total / float64(len(neighbors))
			means = append(means, meanAt{p: PointAndData{P: p, D: d}, mean: m})
			sum += m
			return true
		})

		n := float64(len(means))
		if n == 0 {
			return New(), nil
		}
		mean := sum / n
		var variance float64
		for _, m := range means {
			variance += (m.mean - mean) * (m.mean - mean)
		}
		variance /= n
		stddev := math.Sqrt(variance)
		threshold := mean + stdDevThresh*stddev

		out := New()
		for _, m := range means {
			if m.mean <= threshold {
				if err := out.Set(m.p.P, m.p.D); err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}, nil
}
