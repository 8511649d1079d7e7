package rigid

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestIdentityTransform(t *testing.T) {
	id := Identity()
	p := r3.Vector{X: 1, Y: 2, Z: 3}
	test.That(t, id.Transform(p), test.ShouldResemble, p)
	test.That(t, id.ToLocal(p), test.ShouldResemble, p)
	test.That(t, id.Orthonormal(1e-9), test.ShouldBeTrue)
}

func TestTransformToLocalRoundTrip(t *testing.T) {
	pose := Pose{
		X: r3.Vector{X: 0, Y: 1, Z: 0},
		Y: r3.Vector{X: -1, Y: 0, Z: 0},
		Z: r3.Vector{X: 0, Y: 0, Z: 1},
		T: r3.Vector{X: 5, Y: -2, Z: 0.5},
	}
	test.That(t, pose.Orthonormal(1e-9), test.ShouldBeTrue)

	local := r3.Vector{X: 2, Y: 3, Z: 4}
	world := pose.Transform(local)
	back := pose.ToLocal(world)
	test.That(t, back.X, test.ShouldAlmostEqual, local.X)
	test.That(t, back.Y, test.ShouldAlmostEqual, local.Y)
	test.That(t, back.Z, test.ShouldAlmostEqual, local.Z)
}

func TestZRotationQuarterTurn(t *testing.T) {
	r := ZRotation(math.Pi / 2)
	p := r.Transform(r3.Vector{X: 1})
	test.That(t, p.X, test.ShouldAlmostEqual, 0)
	test.That(t, p.Y, test.ShouldAlmostEqual, 1)
	test.That(t, p.Z, test.ShouldAlmostEqual, 0)
}

func TestMat4RoundTrip(t *testing.T) {
	pose := Pose{
		X: r3.Vector{X: 1},
		Y: r3.Vector{Y: 1},
		Z: r3.Vector{Z: 1},
		T: r3.Vector{X: 1, Y: 2, Z: 3},
	}
	got := FromMat4(pose.Mat4())
	test.That(t, got, test.ShouldResemble, pose)
}

func TestComposeTransposeLeftPreservesRotationOnly(t *testing.T) {
	base := ZRotation(math.Pi / 4)
	extra := ZRotation(math.Pi / 4)
	composed := ComposeTransposeLeft(base, extra)
	// base^T undoes base's rotation; since extra equals base, the two
	// rotations cancel and the product is the identity rotation.
	test.That(t, composed.Orthonormal(1e-9), test.ShouldBeTrue)
	p := composed.Transform(r3.Vector{X: 1})
	want := r3.Vector{X: 1}
	test.That(t, p.X, test.ShouldAlmostEqual, want.X)
	test.That(t, p.Y, test.ShouldAlmostEqual, want.Y)
}

func TestRotateBuildsRightHandedFrame(t *testing.T) {
	pose := Rotate(r3.Vector{Z: 1}, r3.Vector{X: 1})
	test.That(t, pose.Orthonormal(1e-9), test.ShouldBeTrue)
	test.That(t, pose.Z.Z, test.ShouldAlmostEqual, 1)
}
