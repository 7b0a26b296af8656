// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

// outputPacker encodes a working RGBA texture into an output frame's
// planes. It is configured once per renderer for the negotiated output
// format and reused every frame; Pack respects the destination frame's
// strides.
type outputPacker struct {
	format videofx.PixelFormat
	width  int
	height int
	matrix videofx.ColorMatrix
}

// newOutputPacker builds a packer for the given output contract.
func newOutputPacker(format videofx.PixelFormat, width, height int, matrix videofx.ColorMatrix) (*outputPacker, error) {
	if _, err := videofx.ClassifyFormat(format); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output %dx%d", ErrInvalidConfig, width, height)
	}
	return &outputPacker{format: format, width: width, height: height, matrix: matrix}, nil
}

// Pack encodes src into out, which must match the packer's contract.
func (p *outputPacker) Pack(src *device.Texture, out *videofx.FrameBuffer) error {
	if err := out.Matches(p.format, p.width, p.height); err != nil {
		return err
	}
	if src.Width() != p.width || src.Height() != p.height {
		return fmt.Errorf("%w: source texture %dx%d, output %dx%d",
			videofx.ErrFrameMismatch, src.Width(), src.Height(), p.width, p.height)
	}

	switch p.format {
	case videofx.FormatRGBA, videofx.FormatBGRA:
		return p.packRGB(src, out)
	case videofx.FormatNV12:
		return p.packNV12(src, out)
	case videofx.FormatI420:
		return p.packI420(src, out)
	case videofx.FormatUYVY, videofx.FormatYUY2:
		return p.pack422(src, out)
	default:
		return fmt.Errorf("%w: %s", videofx.ErrUnsupportedFormat, p.format)
	}
}

// packRGB copies src into the packed RGB plane, swizzling R/B for BGRA.
func (p *outputPacker) packRGB(src *device.Texture, out *videofx.FrameBuffer) error {
	plane := out.Plane(0)
	stride := out.Stride(0)
	for y := 0; y < p.height; y++ {
		row := plane[y*stride:]
		for x := 0; x < p.width; x++ {
			r, g, b, a := src.Pixel(x, y)
			i := x * 4
			if p.format == videofx.FormatBGRA {
				row[i] = quantizeByte(b)
				row[i+1] = quantizeByte(g)
				row[i+2] = quantizeByte(r)
			} else {
				row[i] = quantizeByte(r)
				row[i+1] = quantizeByte(g)
				row[i+2] = quantizeByte(b)
			}
			row[i+3] = quantizeByte(a)
		}
	}
	return nil
}

// yuvAt converts the RGB pixel at (x, y) to its YCbCr triple.
func (p *outputPacker) yuvAt(src *device.Texture, x, y int) (yy, cb, cr float32) {
	r, g, b, _ := src.Pixel(x, y)
	yy, cb, cr = videofx.RGBToYUV(r, g, b, p.matrix)
	return clamp01(yy), clamp01(cb), clamp01(cr)
}

// chromaAvg averages the chroma of the 2x2 block whose top-left luma
// sample is (x, y). At odd right/bottom edges the last row or column is
// replicated into the average.
func (p *outputPacker) chromaAvg(src *device.Texture, x, y int) (cb, cr float32) {
	x1 := x + 1
	if x1 >= p.width {
		x1 = p.width - 1
	}
	y1 := y + 1
	if y1 >= p.height {
		y1 = p.height - 1
	}
	_, cb00, cr00 := p.yuvAt(src, x, y)
	_, cb10, cr10 := p.yuvAt(src, x1, y)
	_, cb01, cr01 := p.yuvAt(src, x, y1)
	_, cb11, cr11 := p.yuvAt(src, x1, y1)
	return (cb00 + cb10 + cb01 + cb11) / 4, (cr00 + cr10 + cr01 + cr11) / 4
}

func (p *outputPacker) packLuma(src *device.Texture, out *videofx.FrameBuffer) {
	plane := out.Plane(0)
	stride := out.Stride(0)
	for y := 0; y < p.height; y++ {
		row := plane[y*stride:]
		for x := 0; x < p.width; x++ {
			yy, _, _ := p.yuvAt(src, x, y)
			row[x] = quantizeByte(yy)
		}
	}
}

func (p *outputPacker) packNV12(src *device.Texture, out *videofx.FrameBuffer) error {
	p.packLuma(src, out)

	cw, ch := p.format.PlaneDimensions(1, p.width, p.height)
	plane := out.Plane(1)
	stride := out.Stride(1)
	for cy := 0; cy < ch; cy++ {
		row := plane[cy*stride:]
		for cx := 0; cx < cw; cx++ {
			cb, cr := p.chromaAvg(src, cx*2, cy*2)
			row[cx*2] = quantizeByte(cb)
			row[cx*2+1] = quantizeByte(cr)
		}
	}
	return nil
}

func (p *outputPacker) packI420(src *device.Texture, out *videofx.FrameBuffer) error {
	p.packLuma(src, out)

	cw, ch := p.format.PlaneDimensions(1, p.width, p.height)
	cbPlane, cbStride := out.Plane(1), out.Stride(1)
	crPlane, crStride := out.Plane(2), out.Stride(2)
	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			cb, cr := p.chromaAvg(src, cx*2, cy*2)
			cbPlane[cy*cbStride+cx] = quantizeByte(cb)
			crPlane[cy*crStride+cx] = quantizeByte(cr)
		}
	}
	return nil
}

// pack422 encodes macropixels: two adjacent luma samples share the
// averaged chroma of both pixels. An odd trailing pixel replicates its
// own chroma.
func (p *outputPacker) pack422(src *device.Texture, out *videofx.FrameBuffer) error {
	plane := out.Plane(0)
	stride := out.Stride(0)
	mw := (p.width + 1) / 2
	for y := 0; y < p.height; y++ {
		row := plane[y*stride:]
		for m := 0; m < mw; m++ {
			x0 := m * 2
			x1 := x0 + 1
			if x1 >= p.width {
				x1 = p.width - 1
			}
			y0, cb0, cr0 := p.yuvAt(src, x0, y)
			y1, cb1, cr1 := p.yuvAt(src, x1, y)
			cb := (cb0 + cb1) / 2
			cr := (cr0 + cr1) / 2

			i := m * 4
			if p.format == videofx.FormatUYVY {
				row[i] = quantizeByte(cb)
				row[i+1] = quantizeByte(y0)
				row[i+2] = quantizeByte(cr)
				row[i+3] = quantizeByte(y1)
			} else {
				row[i] = quantizeByte(y0)
				row[i+1] = quantizeByte(cb)
				row[i+2] = quantizeByte(y1)
				row[i+3] = quantizeByte(cr)
			}
		}
	}
	return nil
}

// quantizeByte converts a normalized channel to 8 bits with
// round-to-nearest and clamping.
func quantizeByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
