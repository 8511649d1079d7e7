// Package pointcloud provides a generic, indexable point cloud with optional
// per-point color/value payloads, plane fitting, and k-d tree queries.
package pointcloud

import "image/color"

// Data is the optional payload attached to a point: a color, a scalar value,
// both, or neither.
type Data interface {
	HasColor() bool
	Color() *color.NRGBA
	RGB255() (uint8, uint8, uint8)
	HasValue() bool
	Value() int
	SetValue(v int)
}

type basicData struct {
	hasColor bool
	c        color.NRGBA
	hasValue bool
	value    int
}

// NewBasicData returns a Data with neither color nor value set.
func NewBasicData() Data {
	return &basicData{}
}

// NewColoredData returns a Data carrying only a color.
func NewColoredData(c color.NRGBA) Data {
	return &basicData{hasColor: true, c: c}
}

// NewValueData returns a Data carrying only a scalar value.
func NewValueData(v int) Data {
	return &basicData{hasValue: true, value: v}
}

func (d *basicData) HasColor() bool { return d.hasColor }

func (d *basicData) Color() *color.NRGBA {
	if !d.hasColor {
		return nil
	}
	c := d.c
	return &c
}

func (d *basicData) RGB255() (uint8, uint8, uint8) {
	if !d.hasColor {
		return 0, 0, 0
	}
	return d.c.R, d.c.G, d.c.B
}

func (d *basicData) HasValue() bool { return d.hasValue }

func (d *basicData) Value() int { return d.value }

func (d *basicData) SetValue(v int) {
	d.hasValue = true
	d.value = v
}
