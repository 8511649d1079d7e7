package grid2d

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestNewFromBBoxAlignsMaxCornerToCellBoundary(t *testing.T) {
	g := NewFromBBox[float64](r3.Vector{}, r3.Vector{X: 9.5, Y: 4.1}, 2.0)
	test.That(t, g.Width(), test.ShouldEqual, 5)
	test.That(t, g.Height(), test.ShouldEqual, 3)
	test.That(t, g.BBoxMax().X, test.ShouldAlmostEqual, 10.0)
	test.That(t, g.BBoxMax().Y, test.ShouldAlmostEqual, 6.0)
}

func TestAtRoundTripsThroughConvert(t *testing.T) {
	g := New[int](4, 4, r3.Vector{}, 1.0)
	*g.At(2, 3) = 42

	x, y, ok := g.ConvertSafe(r3.Vector{X: 2.5, Y: 3.5})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, x, test.ShouldEqual, 2)
	test.That(t, y, test.ShouldEqual, 3)
	test.That(t, *g.At(x, y), test.ShouldEqual, 42)
}

func TestConvertSafeRejectsOutOfBounds(t *testing.T) {
	g := New[int](4, 4, r3.Vector{}, 1.0)
	_, _, ok := g.ConvertSafe(r3.Vector{X: -1, Y: 0})
	test.That(t, ok, test.ShouldBeFalse)

	test.That(t, g.AtPos(r3.Vector{X: -1, Y: 0}), test.ShouldBeNil)
}

func TestClearZeroesAllCells(t *testing.T) {
	g := New[int](2, 2, r3.Vector{}, 1.0)
	*g.At(0, 0) = 7
	*g.At(1, 1) = 9
	g.Clear()
	test.That(t, *g.At(0, 0), test.ShouldEqual, 0)
	test.That(t, *g.At(1, 1), test.ShouldEqual, 0)
}
