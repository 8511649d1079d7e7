package pointcloud

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestVoxelCoordsIsEqual(t *testing.T) {
	c1 := VoxelCoords{}
	test.That(t, c1.I, test.ShouldEqual, 0)
	test.That(t, c1.J, test.ShouldEqual, 0)
	test.That(t, c1.K, test.ShouldEqual, 0)

	c2 := VoxelCoords{2, 1, 3}
	c3 := VoxelCoords{2, 1, 3}
	test.That(t, c2.IsEqual(c3), test.ShouldBeTrue)
	test.That(t, c2.IsEqual(VoxelCoords{2, 1, 4}), test.ShouldBeFalse)
}

func TestGetVoxelCoordinates(t *testing.T) {
	pt := r3.Vector{X: 1.2, Y: 0.5, Z: 2.8}
	ptMin := r3.Vector{}
	coords := GetVoxelCoordinates(pt, ptMin, 1.0)
	test.That(t, coords, test.ShouldResemble, VoxelCoords{1, 0, 2})
}

func TestVoxelGridDownsample(t *testing.T) {
	pc := New()
	// two points in the same 1-unit cell, one point in a distant cell.
	test.That(t, pc.Set(r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}), test.ShouldBeNil)
	test.That(t, pc.Set(r3.Vector{X: 0.2, Y: 0.2, Z: 0.2}), test.ShouldBeNil)
	test.That(t, pc.Set(r3.Vector{X: 5, Y: 5, Z: 5}), test.ShouldBeNil)

	vg := NewVoxelGridFromPointCloud(pc, 1.0)
	test.That(t, vg.Len(), test.ShouldEqual, 2)

	down, err := vg.ConvertToPointCloud()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, down.Size(), test.ShouldEqual, 2)

	var found bool
	down.Iterate(0, 0, func(p r3.Vector, _ Data) bool {
		if math.Abs(p.X-0.15) < 1e-9 && math.Abs(p.Y-0.15) < 1e-9 {
			found = true
		}
		return true
	})
	test.That(t, found, test.ShouldBeTrue)
}
