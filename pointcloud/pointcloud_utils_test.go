package pointcloud

import (
	"image/color"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeClouds(t *testing.T) []PointCloud {
	t.Helper()
	// create cloud 0
	cloud0 := New()
	red := NewColoredData(color.NRGBA{255, 0, 0, 255})
	p00 := NewBasicPoint(0, 0, 0)
	test.That(t, cloud0.Set(p00, red), test.ShouldBeNil)
	p01 := NewBasicPoint(0, 0, 1)
	test.That(t, cloud0.Set(p01, red), test.ShouldBeNil)
	p02 := NewBasicPoint(0, 1, 0)
	test.That(t, cloud0.Set(p02, red), test.ShouldBeNil)
	p03 := NewBasicPoint(0, 1, 1)
	test.That(t, cloud0.Set(p03, red), test.ShouldBeNil)
	// create cloud 1
	cloud1 := New()
	blue := NewColoredData(color.NRGBA{0, 0, 255, 255})
	p10 := NewBasicPoint(30, 0, 0)
	test.That(t, cloud1.Set(p10, blue), test.ShouldBeNil)
	p11 := NewBasicPoint(30, 0, 1)
	test.That(t, cloud1.Set(p11, blue), test.ShouldBeNil)
	p12 := NewBasicPoint(30, 1, 0)
	test.That(t, cloud1.Set(p12, blue), test.ShouldBeNil)
	p13 := NewBasicPoint(30, 1, 1)
	test.That(t, cloud1.Set(p13, blue), test.ShouldBeNil)
	p14 := NewBasicPoint(28, 0.5, 0.5)
	test.That(t, cloud1.Set(p14, blue), test.ShouldBeNil)

	return []PointCloud{cloud0, cloud1}
}

func TestBoundingBoxFromPointCloud(t *testing.T) {
	clouds := makeClouds(t)
	cases := []struct {
		pc             PointCloud
		expectedCenter r3.Vector
		expectedDims   r3.Vector
	}{
		{clouds[0], r3.Vector{0, 0.5, 0.5}, r3.Vector{0, 1, 1}},
		{clouds[1], r3.Vector{29, 0.5, 0.5}, r3.Vector{2, 1, 1}},
	}

	for _, c := range cases {
		box, err := BoundingBoxFromPointCloud(c.pc)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, box.Center().X, test.ShouldAlmostEqual, c.expectedCenter.X)
		test.That(t, box.Center().Y, test.ShouldAlmostEqual, c.expectedCenter.Y)
		test.That(t, box.Center().Z, test.ShouldAlmostEqual, c.expectedCenter.Z)
		dims := box.Max.Sub(box.Min)
		test.That(t, dims.X, test.ShouldAlmostEqual, c.expectedDims.X)
		test.That(t, dims.Y, test.ShouldAlmostEqual, c.expectedDims.Y)
		test.That(t, dims.Z, test.ShouldAlmostEqual, c.expectedDims.Z)
	}
}

func TestMergePoints(t *testing.T) {
	clouds := makeClouds(t)
	mergedCloud, err := MergePointClouds(clouds)
	test.That(t, err, test.ShouldBeNil)
	_, ok := mergedCloud.At(0, 0, 0)
	test.That(t, ok, test.ShouldBeTrue)
	_, ok = mergedCloud.At(30, 0, 0)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestMergePointsWithColor(t *testing.T) {
	clouds := makeClouds(t)
	mergedCloud, err := MergePointCloudsWithColor(clouds)
	test.That(t, err, test.ShouldBeNil)

	d000, ok := mergedCloud.At(0, 0, 0)
	test.That(t, ok, test.ShouldBeTrue)
	d001, ok := mergedCloud.At(0, 0, 1)
	test.That(t, ok, test.ShouldBeTrue)
	d300, ok := mergedCloud.At(30, 0, 0)
	test.That(t, ok, test.ShouldBeTrue)

	test.That(t, d000.Color(), test.ShouldResemble, d001.Color())
	test.That(t, d000.Color(), test.ShouldNotResemble, d300.Color())
}

func TestPrune(t *testing.T) {
	clouds := makeClouds(t)
	// before prune
	test.That(t, len(clouds), test.ShouldEqual, 2)
	test.That(t, clouds[0].Size(), test.ShouldEqual, 4)
	test.That(t, clouds[1].Size(), test.ShouldEqual, 5)
	// prune
	clouds = PrunePointClouds(clouds, 5)
	test.That(t, len(clouds), test.ShouldEqual, 1)
	test.That(t, clouds[0].Size(), test.ShouldEqual, 5)
}
