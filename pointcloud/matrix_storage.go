package pointcloud

import "github.com/golang/geo/r3"

// matrixStorage is an ordered, append-only storage backed by a growable
// slice plus an index for O(1) lookup/overwrite. Iteration order matches
// insertion order.
type matrixStorage struct {
	points   []PointAndData
	indexMap map[r3.Vector]uint
}

func newMatrixStorage(sizeHint int) *matrixStorage {
	return &matrixStorage{
		points:   make([]PointAndData, 0, sizeHint),
		indexMap: make(map[r3.Vector]uint, sizeHint),
	}
}

func (ms *matrixStorage) Size() int {
	return len(ms.points)
}

func (ms *matrixStorage) Set(p r3.Vector, d ...Data) error {
	if err := checkFinite(p); err != nil {
		return err
	}
	data := dataArg(d)
	if idx, ok := ms.indexMap[p]; ok {
		ms.points[idx].D = data
		return nil
	}
	ms.indexMap[p] = uint(len(ms.points))
	ms.points = append(ms.points, PointAndData{P: p, D: data})
	return nil
}

func (ms *matrixStorage) At(x, y, z float64) (Data, bool) {
	idx, ok := ms.indexMap[r3.Vector{X: x, Y: y, Z: z}]
	if !ok {
		return nil, false
	}
	return ms.points[idx].D, true
}

func (ms *matrixStorage) IsOrdered() bool { return true }

func (ms *matrixStorage) Iterate(numBatches, myBatch int, fn func(p r3.Vector, d Data) bool) {
	start, end := batchBounds(len(ms.points), numBatches, myBatch)
	for i := start; i < end; i++ {
		if !fn(ms.points[i].P, ms.points[i].D) {
			return
		}
	}
}
