package pointcloud

import "github.com/golang/geo/r3"

// mapStorage is an unordered hash-map backed storage. Insertion order is not
// preserved; lookups and overwrites are O(1).
type mapStorage struct {
	points map[r3.Vector]Data
}

func newMapStorage() *mapStorage {
	return &mapStorage{points: make(map[r3.Vector]Data)}
}

func (ms *mapStorage) Size() int {
	return len(ms.points)
}

func (ms *mapStorage) Set(p r3.Vector, d ...Data) error {
	if err := checkFinite(p); err != nil {
		return err
	}
	ms.points[p] = dataArg(d)
	return nil
}

func (ms *mapStorage) At(x, y, z float64) (Data, bool) {
	d, ok := ms.points[r3.Vector{X: x, Y: y, Z: z}]
	return d, ok
}

func (ms *mapStorage) IsOrdered() bool { return false }

func (ms *mapStorage) Iterate(numBatches, myBatch int, fn func(p r3.Vector, d Data) bool) {
	i := -1
	for p, d := range ms.points {
		i++
		if numBatches > 0 && i%numBatches != myBatch {
			continue
		}
		if !fn(p, d) {
			return
		}
	}
}
