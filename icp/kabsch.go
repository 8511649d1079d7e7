package icp

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/geosim/tpcl/rigid"
)

// kabsch returns the rigid pose minimizing the sum of squared distances
// between src[i] transformed into dst[i], via Kabsch's SVD method. src and
// dst must be the same, non-zero length.
func kabsch(src, dst []r3.Vector) rigid.Pose {
	n := float64(len(src))
	var srcCentroid, dstCentroid r3.Vector
	for i := range src {
		srcCentroid = srcCentroid.Add(src[i])
		dstCentroid = dstCentroid.Add(dst[i])
	}
	srcCentroid = srcCentroid.Mul(1 / n)
	dstCentroid = dstCentroid.Mul(1 / n)

	h := mat.NewDense(3, 3, nil)
	for i := range src {
		sc := src[i].Sub(srcCentroid)
		dc := dst[i].Sub(dstCentroid)
		sv := [3]float64{sc.X, sc.Y, sc.Z}
		dv := [3]float64{dc.X, dc.Y, dc.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+sv[r]*dv[c])
			}
		}
	}

	var svd mat.SVD
	svd.Factorize(h, mat.SVDFull)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var rot mat.Dense
	rot.Mul(&v, u.T())
	if mat.Det(&rot) < 0 {
		for r := 0; r < 3; r++ {
			v.Set(r, 2, -v.At(r, 2))
		}
		rot.Mul(&v, u.T())
	}

	pose := rigid.Pose{
		X: r3.Vector{X: rot.At(0, 0), Y: rot.At(1, 0), Z: rot.At(2, 0)},
		Y: r3.Vector{X: rot.At(0, 1), Y: rot.At(1, 1), Z: rot.At(2, 1)},
		Z: r3.Vector{X: rot.At(0, 2), Y: rot.At(1, 2), Z: rot.At(2, 2)},
	}
	pose.T = dstCentroid.Sub(pose.Transform(srcCentroid))
	return pose
}
