package pointcloud

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// PointAndData pairs a position with its optional payload.
type PointAndData struct {
	P r3.Vector
	D Data
}

// minPreciseFloat64 / maxPreciseFloat64 bound the range of float64 values
// that round-trip exactly through the map-key / matrix-index representations
// storage uses; components outside this range are rejected at Set time.
const (
	minPreciseFloat64 = -(1 << 53)
	maxPreciseFloat64 = 1 << 53
)

// storage is the backing implementation behind a PointCloud: either an
// unordered hash map (mapStorage) or an ordered append-only slice plus index
// (matrixStorage).
type storage interface {
	Size() int
	Set(p r3.Vector, d ...Data) error
	At(x, y, z float64) (Data, bool)
	Iterate(numBatches, myBatch int, fn func(p r3.Vector, d Data) bool)
	IsOrdered() bool
}

func checkFinite(p r3.Vector) error {
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || p.X < minPreciseFloat64 || p.X > maxPreciseFloat64 {
		return fmt.Errorf("x component %v out of representable range", p.X)
	}
	if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) || p.Y < minPreciseFloat64 || p.Y > maxPreciseFloat64 {
		return fmt.Errorf("y component %v out of representable range", p.Y)
	}
	if math.IsNaN(p.Z) || math.IsInf(p.Z, 0) || p.Z < minPreciseFloat64 || p.Z > maxPreciseFloat64 {
		return fmt.Errorf("z component %v out of representable range", p.Z)
	}
	return nil
}

func dataArg(d []Data) Data {
	if len(d) == 0 {
		return nil
	}
	return d[0]
}

// batchBounds returns the [start, end) point indices owned by batch myBatch
// out of numBatches batches over n points, used by Iterate's parallel scan
// contract (§5: distinct cells/indices need no synchronization).
func batchBounds(n, numBatches, myBatch int) (int, int) {
	if numBatches <= 0 {
		return 0, n
	}
	per := n / numBatches
	rem := n % numBatches
	start := myBatch*per + min(myBatch, rem)
	end := start + per
	if myBatch < rem {
		end++
	}
	if end > n {
		end = n
	}
	return start, end
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
