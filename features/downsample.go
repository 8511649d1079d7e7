package features

import "github.com/geosim/tpcl/pointcloud"

// DownSamplePointCloud replaces in with one point per voxel-sized cell, at
// that cell's centroid.
func DownSamplePointCloud(in pointcloud.PointCloud, voxel float64) (pointcloud.PointCloud, error) {
	vg := pointcloud.NewVoxelGridFromPointCloud(in, voxel)
	return vg.ConvertToPointCloud()
}
