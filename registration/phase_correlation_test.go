package registration

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBestPhaseCorrIdenticalDescriptorsPeakAtCenter(t *testing.T) {
	c := NewDescriptorCache(0.5, -1, -1, 8, 8)
	s := NewPhaseCorrelationSearch(c)

	image := c.PCL2descriptor([]r3.Vector{{X: 3, Y: 1, Z: 0.2}, {X: -2, Y: 4, Z: -1}, {X: 1, Y: -1, Z: 3}})
	dft := c.Descriptor2DFT(image)

	row, col, score := s.BestPhaseCorr(dft, dft)
	test.That(t, row, test.ShouldEqual, c.DescHeight()/2)
	test.That(t, col, test.ShouldEqual, c.DescWidth()/2)
	test.That(t, score, test.ShouldAlmostEqual, 1.0)
}

func TestSearchDictionaryFindsExactMatch(t *testing.T) {
	c := NewDescriptorCache(0.5, -1, -1, 16, 8)
	err := c.DictionaryUpdate(flatGroundPoints(10, 0.5), 3.0, 2.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.NumOrientations(), test.ShouldBeGreaterThan, 0)

	queryDFT := c.GetEntryDescriptorDFT(0)
	pose := c.Orientation(0)

	s := NewPhaseCorrelationSearch(c)
	indices, scores, orientations := s.SearchDictionary(5, 100.0, queryDFT, pose.T)

	test.That(t, len(indices), test.ShouldBeGreaterThan, 0)
	test.That(t, len(indices), test.ShouldEqual, len(scores))
	test.That(t, len(indices), test.ShouldEqual, len(orientations))

	found := false
	for _, i := range indices {
		if i == 0 {
			found = true
		}
	}
	test.That(t, found, test.ShouldBeTrue)
}

func TestSearchDictionaryEmptyWhenNoPoseWithinRadius(t *testing.T) {
	c := NewDescriptorCache(0.5, -1, -1, 16, 8)
	err := c.DictionaryUpdate(flatGroundPoints(5, 0.5), 3.0, 2.0)
	test.That(t, err, test.ShouldBeNil)

	s := NewPhaseCorrelationSearch(c)
	indices, scores, orientations := s.SearchDictionary(5, 0.001, c.GetEntryDescriptorDFT(0), r3.Vector{X: 10000, Y: 10000})
	test.That(t, len(indices), test.ShouldEqual, 0)
	test.That(t, len(scores), test.ShouldEqual, 0)
	test.That(t, len(orientations), test.ShouldEqual, 0)
}

func TestSearchDictionaryCapsAtMaxCandidates(t *testing.T) {
	c := NewDescriptorCache(0.5, -1, -1, 16, 8)
	err := c.DictionaryUpdate(flatGroundPoints(10, 0.5), 3.0, 2.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.NumOrientations(), test.ShouldBeGreaterThan, 3)

	s := NewPhaseCorrelationSearch(c)
	indices, _, _ := s.SearchDictionary(3, 1e6, c.GetEntryDescriptorDFT(0), r3.Vector{})
	test.That(t, len(indices), test.ShouldEqual, 3)
}
