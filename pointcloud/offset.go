package pointcloud

import (
	"github.com/golang/geo/r3"

	"github.com/geosim/tpcl/rigid"
)

// ApplyOffset returns a new ordered cloud holding every point of pc mapped
// from pose's local frame into world coordinates.
func ApplyOffset(pc PointCloud, pose rigid.Pose) (PointCloud, error) {
	out := NewBasicPointCloud(pc.Size())
	var setErr error
	pc.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		if err := out.Set(pose.Transform(p), d); err != nil {
			setErr = err
			return false
		}
		return true
	})
	if setErr != nil {
		return nil, setErr
	}
	return out, nil
}
