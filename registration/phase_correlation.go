package registration

import (
	"math"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"github.com/geosim/tpcl/rigid"
	"github.com/geosim/tpcl/xform2d"
)

// PhaseCorrelationSearch finds candidate poses in a DescriptorCache whose
// range-image descriptor phase-correlates well against a query descriptor.
type PhaseCorrelationSearch struct {
	cache *DescriptorCache
}

// NewPhaseCorrelationSearch returns a search over cache.
func NewPhaseCorrelationSearch(cache *DescriptorCache) *PhaseCorrelationSearch {
	return &PhaseCorrelationSearch{cache: cache}
}

// BestPhaseCorr returns the (row, col) of the phase-correlation peak between
// two equal-size DFT descriptors and its value. Ties break on first
// occurrence in row-major scan order.
func (s *PhaseCorrelationSearch) BestPhaseCorr(aDFT, bDFT []complex128) (row, col int, score float64) {
	w, h := s.cache.DescWidth(), s.cache.DescHeight()
	cross := make([]complex128, w*h)
	xform2d.UnitPhaseCorrelation(aDFT, bDFT, cross, w, h)
	xform2d.DFT2D(w, h, cross, false)
	xform2d.DFTshift0ToOrigin(cross, w, h)

	best := math.Inf(-1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := real(cross[y*w+x])
			if v > best {
				best = v
				row, col = y, x
			}
		}
	}
	return row, col, best
}

// candidate is one surviving SearchDictionary result.
type candidate struct {
	index       int
	score       float64
	orientation rigid.Pose
}

// SearchDictionary returns up to maxCandidates poses from the cache whose
// translation lies within searchRadius of estimatePos: those with the highest
// phase-correlation scores against queryDFT. The results are not sorted by
// score. Each returned orientation is the cache
// entry's pose composed with the rotation implied by the correlation peak's
// azimuth column.
func (s *PhaseCorrelationSearch) SearchDictionary(maxCandidates int, searchRadius float64, queryDFT []complex128, estimatePos r3.Vector) ([]int, []float64, []rigid.Pose) {
	var members []int
	for i := 0; i < s.cache.NumOrientations(); i++ {
		t := s.cache.Orientation(i).T
		if math.Hypot(t.X-estimatePos.X, t.Y-estimatePos.Y) <= searchRadius {
			members = append(members, i)
		}
	}
	if len(members) == 0 {
		return nil, nil, nil
	}

	var eg errgroup.Group
	for _, i := range members {
		i := i
		eg.Go(func() error {
			s.cache.GetEntryDescriptorDFT(i)
			return nil
		})
	}
	_ = eg.Wait() // GetEntryDescriptorDFT never errors

	cols := make(map[int]int, len(members))
	var kept []candidate
	minIndex := -1

	consider := func(i int) {
		_, col, score := s.BestPhaseCorr(s.cache.GetEntryDescriptorDFT(i), queryDFT)
		cols[i] = col
		c := candidate{index: i, score: score}
		if len(kept) < maxCandidates {
			kept = append(kept, c)
			if minIndex == -1 || c.score < kept[minIndex].score {
				minIndex = len(kept) - 1
			}
			return
		}
		if score > kept[minIndex].score {
			kept[minIndex] = c
			minIndex = 0
			for j := 1; j < len(kept); j++ {
				if kept[j].score < kept[minIndex].score {
					minIndex = j
				}
			}
		}
	}
	for _, i := range members {
		consider(i)
	}

	width := s.cache.DescWidth()
	shift := 0.0
	if width%2 == 0 {
		shift = 0.5
	}

	indices := make([]int, len(kept))
	scores := make([]float64, len(kept))
	orientations := make([]rigid.Pose, len(kept))
	for k, c := range kept {
		theta := (float64(cols[c.index])+shift)*2*math.Pi/float64(width) - math.Pi
		rot := rigid.ZRotation(theta)
		orient := s.cache.Orientation(c.index)
		composed := rigid.ComposeTransposeLeft(orient, rot)
		composed.T = orient.T

		indices[k] = c.index
		scores[k] = c.score
		orientations[k] = composed
	}
	return indices, scores, orientations
}
