// Package rigid implements the minimal rigid-transform type the registration
// pipeline passes between its layers: an orthonormal frame (three basis rows
// plus a translation) following the row-vector, right-multiply convention
// p' = p · M used throughout the oriented-grid and ICP code.
package rigid

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Pose is a rigid transform. X, Y and Z are the local frame's basis vectors
// (rows 0..2 of the homogeneous matrix); T is the translation (row 3).
type Pose struct {
	X, Y, Z r3.Vector
	T       r3.Vector
}

// Identity returns the world-aligned pose at the origin.
func Identity() Pose {
	return Pose{
		X: r3.Vector{X: 1},
		Y: r3.Vector{Y: 1},
		Z: r3.Vector{Z: 1},
	}
}

// ZRotation returns a translation-free pose rotating the frame by theta
// radians about the world Z axis.
func ZRotation(theta float64) Pose {
	c, s := math.Cos(theta), math.Sin(theta)
	return Pose{
		X: r3.Vector{X: c, Y: s, Z: 0},
		Y: r3.Vector{X: -s, Y: c, Z: 0},
		Z: r3.Vector{X: 0, Y: 0, Z: 1},
	}
}

// Transform maps a point from this pose's local frame into world
// coordinates: p' = p · M.
func (p Pose) Transform(local r3.Vector) r3.Vector {
	return r3.Vector{
		X: local.X*p.X.X + local.Y*p.Y.X + local.Z*p.Z.X + p.T.X,
		Y: local.X*p.X.Y + local.Y*p.Y.Y + local.Z*p.Z.Y + p.T.Y,
		Z: local.X*p.X.Z + local.Y*p.Y.Z + local.Z*p.Z.Z + p.T.Z,
	}
}

// ToLocal maps a world point into this pose's local frame. It is the
// inverse of Transform when the pose is orthonormal: subtract the
// translation, then project onto each basis row.
func (p Pose) ToLocal(world r3.Vector) r3.Vector {
	shifted := world.Sub(p.T)
	return r3.Vector{X: shifted.Dot(p.X), Y: shifted.Dot(p.Y), Z: shifted.Dot(p.Z)}
}

// Orthonormal reports whether the basis rows are unit length and mutually
// perpendicular to within tol, and right-handed.
func (p Pose) Orthonormal(tol float64) bool {
	unit := func(v r3.Vector) bool { return math.Abs(v.Norm()-1) <= tol }
	if !unit(p.X) || !unit(p.Y) || !unit(p.Z) {
		return false
	}
	if math.Abs(p.X.Dot(p.Y)) > tol || math.Abs(p.Y.Dot(p.Z)) > tol || math.Abs(p.X.Dot(p.Z)) > tol {
		return false
	}
	return p.X.Cross(p.Y).Sub(p.Z).Norm() <= tol
}

// Mat4 returns the 4x4 homogeneous matrix with rows X, Y, Z, T (the
// row-vector convention p' = p · M).
func (p Pose) Mat4() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	rows := [3]r3.Vector{p.X, p.Y, p.Z}
	for i, v := range rows {
		m.Set(i, 0, v.X)
		m.Set(i, 1, v.Y)
		m.Set(i, 2, v.Z)
		m.Set(i, 3, 0)
	}
	m.Set(3, 0, p.T.X)
	m.Set(3, 1, p.T.Y)
	m.Set(3, 2, p.T.Z)
	m.Set(3, 3, 1)
	return m
}

// FromMat4 reads a Pose back out of a 4x4 homogeneous matrix in the same
// row-vector layout Mat4 produces.
func FromMat4(m *mat.Dense) Pose {
	return Pose{
		X: r3.Vector{X: m.At(0, 0), Y: m.At(0, 1), Z: m.At(0, 2)},
		Y: r3.Vector{X: m.At(1, 0), Y: m.At(1, 1), Z: m.At(1, 2)},
		Z: r3.Vector{X: m.At(2, 0), Y: m.At(2, 1), Z: m.At(2, 2)},
		T: r3.Vector{X: m.At(3, 0), Y: m.At(3, 1), Z: m.At(3, 2)},
	}
}

// ComposeTransposeLeft computes a^T · b as 4x4 homogeneous matrices and
// returns the result as a Pose. This is the operation the azimuth-search
// step uses to fold a Z-rotation into a candidate orientation while leaving
// its translation untouched by the caller (the translation row of the
// product is meaningless here and is expected to be overwritten).
func ComposeTransposeLeft(a, b Pose) Pose {
	var out mat.Dense
	out.Mul(a.Mat4().T(), b.Mat4())
	return FromMat4(&out)
}

// Rotate builds an orthonormal pose at the origin whose Z basis row is n
// (normalized) and whose X basis row is the component of ref perpendicular
// to n (normalized), completing a right-handed frame. It is the Gram-Schmidt
// step the oriented grid uses to build a gravity-aligned viewpoint frame
// from a surface normal and a reference azimuth direction.
func Rotate(n, ref r3.Vector) Pose {
	z := n.Normalize()
	x := ref.Sub(z.Mul(ref.Dot(z)))
	if x.Norm() < 1e-9 {
		x = z.Cross(r3.Vector{X: 1})
		if x.Norm() < 1e-9 {
			x = z.Cross(r3.Vector{Y: 1})
		}
	}
	x = x.Normalize()
	y := z.Cross(x)
	return Pose{X: x, Y: y, Z: z}
}
