// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package videofx

// ColorMatrix selects the YUV<->RGB coefficient set.
type ColorMatrix uint8

// Coefficient sets.
const (
	// MatrixBT601 is the standard-definition coefficient set.
	MatrixBT601 ColorMatrix = iota

	// MatrixBT709 is the high-definition coefficient set.
	MatrixBT709
)

// String returns the conventional name of the matrix.
func (m ColorMatrix) String() string {
	if m == MatrixBT709 {
		return "BT.709"
	}
	return "BT.601"
}

// ColorMatrixForFrame derives the coefficient set from a frame's
// colorimetry metadata, defaulting to BT.601 when absent.
func ColorMatrixForFrame(f *FrameBuffer) ColorMatrix {
	if f != nil && f.Colorimetry == ColorimetryBT709 {
		return MatrixBT709
	}
	return MatrixBT601
}

// Full-range conversion coefficients. The chroma zero point sits at byte
// 128, so a uniform (128, 128, 128) YUV frame decodes to exactly
// mid-gray RGB and luma survives an RGB->YUV->RGB round trip
// bit-faithfully.
const (
	bt601KR = 0.299
	bt601KG = 0.587
	bt601KB = 0.114

	bt709KR = 0.2126
	bt709KG = 0.7152
	bt709KB = 0.0722

	chromaZero = 128.0 / 255.0
)

// YUVToRGB converts one normalized YCbCr sample to RGB using the selected
// matrix: rgb = M * (y, cb-z, cr-z) with the chroma zero point z at byte
// 128. Every YUV-aware stage in the engine funnels through this function
// so decode is numerically identical across renderers. The result is not
// clamped.
func YUVToRGB(y, cb, cr float32, m ColorMatrix) (r, g, b float32) {
	u := cb - chromaZero
	v := cr - chromaZero
	if m == MatrixBT709 {
		r = y + 1.5748*v
		g = y - 0.18732427*u - 0.46812427*v
		b = y + 1.8556*u
		return r, g, b
	}
	r = y + 1.402*v
	g = y - 0.34413629*u - 0.71413629*v
	b = y + 1.772*u
	return r, g, b
}

// RGBToYUV is the exact inverse of YUVToRGB over in-range values.
// The result is not clamped.
func RGBToYUV(r, g, b float32, m ColorMatrix) (y, cb, cr float32) {
	if m == MatrixBT709 {
		y = bt709KR*r + bt709KG*g + bt709KB*b
		cb = (b-y)/1.8556 + chromaZero
		cr = (r-y)/1.5748 + chromaZero
		return y, cb, cr
	}
	y = bt601KR*r + bt601KG*g + bt601KB*b
	cb = (b-y)/1.772 + chromaZero
	cr = (r-y)/1.402 + chromaZero
	return y, cb, cr
}

// ARGB is a 32-bit color in 0xAARRGGBB layout, the wire format used by
// border and chroma-key color parameters.
type ARGB uint32

// RGBA returns the normalized channels of the color.
func (c ARGB) RGBA() (r, g, b, a float32) {
	a = float32(c>>24&0xff) / 255
	r = float32(c>>16&0xff) / 255
	g = float32(c>>8&0xff) / 255
	b = float32(c&0xff) / 255
	return r, g, b, a
}
