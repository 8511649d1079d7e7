// Package xform2d is the FFT kernel the registration pipeline's descriptor
// matching runs on: a row-major 2-D complex DFT built out of gonum's 1-D
// FFTs, plus the normalized cross-power spectrum and fftshift helpers phase
// correlation needs.
package xform2d

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DFT2D applies a 2-D DFT in place to a row-major w*h complex buffer: a 1-D
// FFT over every row, then a 1-D FFT over every column. forward selects the
// forward transform; the inverse (forward=false) is normalized so that
// DFT2D(DFT2D(buf, true), false) round-trips buf.
func DFT2D(w, h int, buf []complex128, forward bool) {
	if w <= 0 || h <= 0 || len(buf) != w*h {
		return
	}

	rowFFT := fourier.NewCmplxFFT(w)
	for y := 0; y < h; y++ {
		row := buf[y*w : y*w+w]
		var out []complex128
		if forward {
			out = rowFFT.Coefficients(nil, row)
		} else {
			out = rowFFT.Sequence(nil, row)
		}
		copy(row, out)
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = buf[y*w+x]
		}
		var out []complex128
		if forward {
			out = colFFT.Coefficients(nil, col)
		} else {
			out = colFFT.Sequence(nil, col)
		}
		for y := 0; y < h; y++ {
			buf[y*w+x] = out[y]
		}
	}

	if !forward {
		scale := complex(1/float64(w*h), 0)
		for i := range buf {
			buf[i] *= scale
		}
	}
}

// UnitPhaseCorrelation writes the normalized cross-power spectrum of a and b
// (both forward DFTs of equal w*h size) into out: out[i] = a[i]*conj(b[i])
// normalized to unit magnitude, or 0 where the cross term vanishes.
func UnitPhaseCorrelation(a, b, out []complex128, w, h int) {
	n := w * h
	for i := 0; i < n; i++ {
		cross := a[i] * cmplx.Conj(b[i])
		mag := cmplx.Abs(cross)
		if mag == 0 {
			out[i] = 0
			continue
		}
		out[i] = cross / complex(mag, 0)
	}
}

// DFTshift0ToOrigin swaps quadrants of a row-major w*h buffer in place so
// the zero-frequency (or, after an inverse transform, zero-lag) term moves
// from index (0,0) to the center of the buffer.
func DFTshift0ToOrigin(buf []complex128, w, h int) {
	shifted := make([]complex128, w*h)
	halfW, halfH := w/2, h/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nx := (x + halfW) % w
			ny := (y + halfH) % h
			shifted[ny*w+nx] = buf[y*w+x]
		}
	}
	copy(buf, shifted)
}
