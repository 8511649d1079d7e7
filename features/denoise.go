package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DenoiseRangeOfOrderedPointCloud rejects points whose range deviates from
// their scanline's twice-median-filtered range by more than distThresh. in
// must carry a positive LineWidth (points per scanline); its points are
// read in scanline-major order, median1 rows first, then median2 over the
// result.
func DenoiseRangeOfOrderedPointCloud(in *Cloud, median1, median2 int, distThresh float64) (*Cloud, error) {
	if in.LineWidth <= 0 {
		return nil, fmt.Errorf("features: ordered denoise requires a positive line width, got %d", in.LineWidth)
	}

	n := len(in.Positions)
	ranges := make([]float64, n)
	for i, p := range in.Positions {
		ranges[i] = p.Norm()
	}

	filtered := make([]float64, n)
	for start := 0; start < n; start += in.LineWidth {
		end := start + in.LineWidth
		if end > n {
			end = n
		}
		m1 := medianFilter1D(ranges[start:end], median1)
		m2 := medianFilter1D(m1, median2)
		copy(filtered[start:end], m2)
	}

	out := &Cloud{Type: in.Type, LineWidth: in.LineWidth}
	for i, p := range in.Positions {
		if math.Abs(ranges[i]-filtered[i]) > distThresh {
			continue
		}
		out.Positions = append(out.Positions, p)
		if in.Colors != nil {
			out.Colors = append(out.Colors, in.Colors[i])
		}
		if in.Normals != nil {
			out.Normals = append(out.Normals, in.Normals[i])
		}
	}
	return out, nil
}

// medianFilter1D applies a sliding-window median filter of the given
// window width, clamped at the sequence's edges.
func medianFilter1D(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	half := window / 2
	buf := make([]float64, 0, window)
	for i := 0; i < n; i++ {
		buf = buf[:0]
		for j := i - half; j <= i+half; j++ {
			if j < 0 || j >= n {
				continue
			}
			buf = append(buf, values[j])
		}
		floats.Sort(buf)
		out[i] = stat.Quantile(0.5, stat.Empirical, buf, nil)
	}
	return out
}
