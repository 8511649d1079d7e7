package features

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/geosim/tpcl/pointcloud"
	"github.com/geosim/tpcl/spatialhash"
)

// FindNormal fits a plane by least squares to every point within radius of
// query (read from hash) and returns its normal. If forceUp is set and the
// fitted normal points into the lower hemisphere, it is flipped. A
// neighborhood of fewer than three points is degenerate and returns the
// world-up vector.
//
// The initial fit is refined once: neighbors farther than twice the fit's
// RMS plane distance are dropped as outliers (e.g. a stray point from an
// adjacent surface) and the normal is refit from the survivors, provided at
// least three remain.
func FindNormal(query r3.Vector, hash *spatialhash.Hash2D, radius float64, forceUp bool) (r3.Vector, error) {
	neighbors := hash.FindWithinRadius(query, radius)
	if len(neighbors) < 3 {
		return r3.Vector{Z: 1}, nil
	}

	normal, centroid, err := fitPlaneNormal(neighbors)
	if err != nil {
		return r3.Vector{}, err
	}

	plane := pointcloud.NewPlane(neighborCloud(neighbors), planeEquation(normal, centroid))
	inliers := rejectPlaneOutliers(plane, neighbors)
	if len(inliers) >= 3 && len(inliers) < len(neighbors) {
		if refit, _, err := fitPlaneNormal(inliers); err == nil {
			normal = refit
		}
	}

	if forceUp && normal.Z < 0 {
		normal = normal.Mul(-1)
	}
	return normal, nil
}

// fitPlaneNormal returns the least-squares plane normal and centroid of pts
// via the smallest singular vector of the centered coordinate matrix.
func fitPlaneNormal(pts []r3.Vector) (normal, centroid r3.Vector, err error) {
	for _, p := range pts {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float64(len(pts)))

	data := make([]float64, 0, len(pts)*3)
	for _, p := range pts {
		c := p.Sub(centroid)
		data = append(data, c.X, c.Y, c.Z)
	}
	m := mat.NewDense(len(pts), 3, data)

	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return r3.Vector{}, r3.Vector{}, errors.New("features: normal estimation SVD failed to factorize")
	}
	var v mat.Dense
	svd.VTo(&v)
	normal = r3.Vector{X: v.At(0, 2), Y: v.At(1, 2), Z: v.At(2, 2)}.Normalize()
	return normal, centroid, nil
}

// planeEquation returns the (a,b,c,d) coefficients of the plane through
// centroid with the given normal.
func planeEquation(normal, centroid r3.Vector) [4]float64 {
	return [4]float64{normal.X, normal.Y, normal.Z, -normal.Dot(centroid)}
}

func neighborCloud(pts []r3.Vector) pointcloud.PointCloud {
	cloud := pointcloud.New()
	for _, p := range pts {
		_ = cloud.Set(p)
	}
	return cloud
}

// rejectPlaneOutliers returns every point of pts within twice the RMS
// distance of plane.
func rejectPlaneOutliers(plane *pointcloud.Plane, pts []r3.Vector) []r3.Vector {
	distances := make([]float64, len(pts))
	var sumSq float64
	for i, p := range pts {
		d := plane.Distance(p)
		distances[i] = d
		sumSq += d * d
	}
	rms := math.Sqrt(sumSq / float64(len(pts)))
	if rms == 0 {
		return pts
	}

	inliers := make([]r3.Vector, 0, len(pts))
	for i, p := range pts {
		if math.Abs(distances[i]) <= 2*rms {
			inliers = append(inliers, p)
		}
	}
	return inliers
}
