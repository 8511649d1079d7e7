// Package features implements the preprocessing collaborators the coarse
// registration core consumes: voxel downsampling, ordered-scan range
// denoising, least-squares normal estimation, and registration RMSE
// scoring.
package features

import (
	"image/color"

	"github.com/golang/geo/r3"
)

// CloudType tags how a Cloud's points were produced.
type CloudType int

// The three cloud type tags the core's external boundary recognizes.
const (
	CloudFused CloudType = iota
	CloudSingleOrigin
	CloudSingleOriginScan
)

// Cloud is the point cloud record crossing the registration core's external
// boundary: a type tag, positions, optional per-point color and normal, and
// a scan line width used only by ordered denoising.
type Cloud struct {
	Type      CloudType
	Positions []r3.Vector
	Colors    []color.NRGBA // optional; nil if untracked
	Normals   []r3.Vector   // optional; nil if untracked
	LineWidth int           // points per scanline; required by DenoiseRangeOfOrderedPointCloud
}
