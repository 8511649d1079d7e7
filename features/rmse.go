package features

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/geosim/tpcl/rigid"
	"github.com/geosim/tpcl/spatialhash"
)

// RMSEofRegistration transforms cloud by transform and scores the result
// against hash: the root-mean-square distance from each transformed point
// to its nearest hash neighbor within inlierRadius, excluding points with
// no neighbor that close. A cloud with no inliers scores +Inf, the
// worst-case score the core's public surface promises (large values mean
// poor alignment).
func RMSEofRegistration(hash *spatialhash.Hash2D, cloud []r3.Vector, inlierRadius float64, transform rigid.Pose) float64 {
	var sumSq float64
	var count int
	for _, p := range cloud {
		tp := transform.Transform(p)
		nearest, ok := hash.FindNearest(tp, inlierRadius)
		if !ok {
			continue
		}
		d := tp.Sub(nearest).Norm()
		sumSq += d * d
		count++
	}
	if count == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(sumSq / float64(count))
}
