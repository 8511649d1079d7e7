package registration

import (
	"math"
	"sync"

	"github.com/golang/geo/r3"

	"github.com/geosim/tpcl/xform2d"
)

// DescriptorCache extends OrientedGrid with a lazily-materialized polar
// range-image descriptor and its 2-D DFT for each sampled viewpoint pose.
type DescriptorCache struct {
	*OrientedGrid

	rMin, rMax            float64
	descWidth, descHeight int
	descriptors           [][]float64
	descriptorsDFT        [][]complex128
	mu                    sync.Mutex // serializes first-touch materialization of a slot
}

// NewDescriptorCache returns an empty cache over a fresh OrientedGrid.
// rMin/rMax are radial cutoffs in meters (-1 disables a cutoff); descWidth
// and descHeight are the azimuth/elevation bin counts of each range image.
func NewDescriptorCache(voxelSize, rMin, rMax float64, descWidth, descHeight int) *DescriptorCache {
	return &DescriptorCache{
		OrientedGrid: NewOrientedGrid(voxelSize),
		rMin:         rMin,
		rMax:         rMax,
		descWidth:    descWidth,
		descHeight:   descHeight,
	}
}

// DescWidth returns the azimuth bin count of every descriptor.
func (c *DescriptorCache) DescWidth() int { return c.descWidth }

// DescHeight returns the elevation bin count of every descriptor.
func (c *DescriptorCache) DescHeight() int { return c.descHeight }

// DescriptorParameters is the radial-cutoff and bin-count configuration of a
// DescriptorCache.
type DescriptorParameters struct {
	RMin, RMax            float64
	DescWidth, DescHeight int
}

// Parameters returns the cache's current descriptor geometry.
func (c *DescriptorCache) Parameters() DescriptorParameters {
	return DescriptorParameters{RMin: c.rMin, RMax: c.rMax, DescWidth: c.descWidth, DescHeight: c.descHeight}
}

// SetParameters changes the cache's descriptor geometry. Existing
// descriptors were built under the old geometry and are no longer valid
// against new queries, so this resets the dictionary.
func (c *DescriptorCache) SetParameters(p DescriptorParameters) {
	c.rMin, c.rMax = p.RMin, p.RMax
	c.descWidth, c.descHeight = p.DescWidth, p.DescHeight
	c.ResetDictionary()
}

// DictionaryUpdate appends points to the main cloud, samples new viewpoint
// poses over their bounding box, and grows the descriptor arrays in lockstep
// with empty slots for the new poses.
func (c *DescriptorCache) DictionaryUpdate(points []r3.Vector, dGrid, dSensor float64) error {
	batch, err := c.PointCloudUpdate(points)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	if _, err := c.ViewpointGridUpdate(dGrid, dSensor, batch.Min, batch.Max); err != nil {
		return err
	}

	for len(c.descriptors) < c.NumOrientations() {
		c.descriptors = append(c.descriptors, nil)
		c.descriptorsDFT = append(c.descriptorsDFT, nil)
	}
	return nil
}

// PCL2descriptor bins points (already expressed in the target frame) into a
// desc_height x desc_width polar range image, keeping the minimum positive
// range per cell. Returned row-major, length desc_height*desc_width.
func (c *DescriptorCache) PCL2descriptor(points []r3.Vector) []float64 {
	image := make([]float64, c.descHeight*c.descWidth)
	for _, p := range points {
		r := p.Norm()
		if c.rMin != -1 && r < c.rMin {
			continue
		}
		if c.rMax != -1 && r > c.rMax {
			continue
		}

		az := math.Atan2(p.Y, p.X)
		el := math.Atan2(p.Z, math.Hypot(p.X, p.Y))

		col := int(math.Floor((az + math.Pi) * float64(c.descWidth) / (2 * math.Pi)))
		row := c.descHeight - 1 - int(math.Floor((el+math.Pi/2)*float64(c.descHeight)/math.Pi))
		col = clampInt(col, 0, c.descWidth-1)
		row = clampInt(row, 0, c.descHeight-1)

		idx := row*c.descWidth + col
		if image[idx] == 0 || r < image[idx] {
			image[idx] = r
		}
	}
	return image
}

// Descriptor2DFT copies a real range image into a complex buffer and
// applies a forward 2-D DFT.
func (c *DescriptorCache) Descriptor2DFT(rangeImage []float64) []complex128 {
	buf := make([]complex128, len(rangeImage))
	for i, v := range rangeImage {
		buf[i] = complex(v, 0)
	}
	xform2d.DFT2D(c.descWidth, c.descHeight, buf, true)
	return buf
}

// GetEntryDescriptorDFT idempotently materializes and returns the DFT
// descriptor for pose i, transforming every main-cloud point into orient[i]'s
// local frame the first time it is requested.
func (c *DescriptorCache) GetEntryDescriptorDFT(i int) []complex128 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.descriptorsDFT[i] != nil {
		return c.descriptorsDFT[i]
	}

	pose := c.Orientation(i)
	local := make([]r3.Vector, len(c.ptsMain))
	for j, p := range c.ptsMain {
		local[j] = pose.ToLocal(p)
	}

	image := c.PCL2descriptor(local)
	dft := c.Descriptor2DFT(image)
	c.descriptors[i] = image
	c.descriptorsDFT[i] = dft
	return dft
}

// ResetDictionary drops all descriptors and resets the underlying grid.
func (c *DescriptorCache) ResetDictionary() {
	c.descriptors = nil
	c.descriptorsDFT = nil
	c.ResetGrid()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
