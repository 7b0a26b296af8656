// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render implements the videofx renderers: format conversion and
// scaling, compositing, deinterlacing, image overlay, geometric transform,
// parametric color filtering and the YUV output packer.
//
// Every renderer follows the same contract. Configure validates settings
// and builds immutable pipeline state; on failure the renderer stays
// unconfigured and Process returns ErrNotConfigured. Process is
// synchronous. Cleanup releases resources and is idempotent from any
// state. Renderers are not safe for concurrent use.
package render

import (
	"fmt"
	"math"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

// frameSampler reads decoded RGB pixels out of a frame's uploaded plane
// textures. The input path is resolved once at configure time; per-pixel
// reads only dispatch through the selected decode.
//
// Sampling coordinates follow texture convention: (u, v) in [0, 1] with
// texel centers at (i+0.5)/n, clamp-to-edge addressing.
type frameSampler struct {
	path   videofx.InputPath
	matrix videofx.ColorMatrix
	width  int
	height int
	planes [3]*device.Texture
}

// planeSpec describes how one plane of a pixel format is bound as a
// texture: slot offset, texture format and texel dimensions.
type planeSpec struct {
	format device.TextureFormat
	width  int
	height int
}

// planeSpecs returns the texture binding for every plane of the format.
func planeSpecs(format videofx.PixelFormat, width, height int) ([]planeSpec, error) {
	path, err := videofx.ClassifyFormat(format)
	if err != nil {
		return nil, err
	}
	switch path {
	case videofx.InputRGB:
		tf := device.TextureFormatRGBA8
		if format == videofx.FormatBGRA {
			tf = device.TextureFormatBGRA8
		}
		return []planeSpec{{tf, width, height}}, nil
	case videofx.InputPlanar2:
		cw, ch := format.PlaneDimensions(1, width, height)
		return []planeSpec{
			{device.TextureFormatR8, width, height},
			{device.TextureFormatRG8, cw, ch},
		}, nil
	case videofx.InputPlanar3:
		cw, ch := format.PlaneDimensions(1, width, height)
		return []planeSpec{
			{device.TextureFormatR8, width, height},
			{device.TextureFormatR8, cw, ch},
			{device.TextureFormatR8, cw, ch},
		}, nil
	case videofx.InputPacked422UYVY, videofx.InputPacked422YUY2:
		return []planeSpec{{device.TextureFormatRGBA8, (width + 1) / 2, height}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", videofx.ErrUnsupportedFormat, format)
	}
}

// uploadFrame uploads every plane of frame through the cache and returns a
// sampler over the bound textures. slotBase offsets the cache slots so a
// renderer handling several frames per call (the compositor) keeps their
// entries apart.
func uploadFrame(cache *device.TextureCache, frame *videofx.FrameBuffer, slotBase int) (*frameSampler, error) {
	path, err := videofx.ClassifyFormat(frame.Format)
	if err != nil {
		return nil, err
	}
	specs, err := planeSpecs(frame.Format, frame.Width, frame.Height)
	if err != nil {
		return nil, err
	}

	s := &frameSampler{
		path:   path,
		matrix: videofx.ColorMatrixForFrame(frame),
		width:  frame.Width,
		height: frame.Height,
	}
	for i, spec := range specs {
		tex, err := cache.UploadPlane(frame, i, slotBase+i, spec.format, spec.width, spec.height)
		if err != nil {
			return nil, err
		}
		s.planes[i] = tex
	}
	return s, nil
}

// bilinearTexel samples a texture at normalized (u, v) with bilinear
// filtering and clamp-to-edge addressing.
func bilinearTexel(t *device.Texture, u, v float32) (r, g, b, a float32) {
	fx := u*float32(t.Width()) - 0.5
	fy := v*float32(t.Height()) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	r00, g00, b00, a00 := t.Pixel(x0, y0)
	r10, g10, b10, a10 := t.Pixel(x0+1, y0)
	r01, g01, b01, a01 := t.Pixel(x0, y0+1)
	r11, g11, b11, a11 := t.Pixel(x0+1, y0+1)

	lerp := func(p, q, t float32) float32 { return p + (q-p)*t }
	r = lerp(lerp(r00, r10, dx), lerp(r01, r11, dx), dy)
	g = lerp(lerp(g00, g10, dx), lerp(g01, g11, dx), dy)
	b = lerp(lerp(b00, b10, dx), lerp(b01, b11, dx), dy)
	a = lerp(lerp(a00, a10, dx), lerp(a01, a11, dx), dy)
	return r, g, b, a
}

// rgbaAt decodes the pixel at integer coordinates (x, y) to RGBA.
// Coordinates are clamped to the frame.
func (s *frameSampler) rgbaAt(x, y int) (r, g, b, a float32) {
	if x < 0 {
		x = 0
	} else if x >= s.width {
		x = s.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= s.height {
		y = s.height - 1
	}

	switch s.path {
	case videofx.InputRGB:
		return s.planes[0].Pixel(x, y)

	case videofx.InputPlanar2:
		yv, _, _, _ := s.planes[0].Pixel(x, y)
		u := (float32(x) + 0.5) / float32(s.width)
		v := (float32(y) + 0.5) / float32(s.height)
		cb, cr, _, _ := bilinearTexel(s.planes[1], u, v)
		return s.yuv(yv, cb, cr)

	case videofx.InputPlanar3:
		yv, _, _, _ := s.planes[0].Pixel(x, y)
		u := (float32(x) + 0.5) / float32(s.width)
		v := (float32(y) + 0.5) / float32(s.height)
		cb, _, _, _ := bilinearTexel(s.planes[1], u, v)
		cr, _, _, _ := bilinearTexel(s.planes[2], u, v)
		return s.yuv(yv, cb, cr)

	case videofx.InputPacked422UYVY:
		// Macropixel bytes [U, Y0, V, Y1] bound as RGBA channels.
		cb, y0, cr, y1 := s.planes[0].Pixel(x/2, y)
		yv := y0
		if x%2 == 1 {
			yv = y1
		}
		return s.yuv(yv, cb, cr)

	case videofx.InputPacked422YUY2:
		// Macropixel bytes [Y0, U, Y1, V] bound as RGBA channels.
		y0, cb, y1, cr := s.planes[0].Pixel(x/2, y)
		yv := y0
		if x%2 == 1 {
			yv = y1
		}
		return s.yuv(yv, cb, cr)

	default:
		return 0, 0, 0, 1
	}
}

// yuv converts decoded Y/Cb/Cr samples through the frame's color matrix,
// clamping to the displayable range.
func (s *frameSampler) yuv(y, cb, cr float32) (r, g, b, a float32) {
	r, g, b = videofx.YUVToRGB(y, cb, cr, s.matrix)
	return clamp01(r), clamp01(g), clamp01(b), 1
}

// sampleNearest samples at normalized (u, v) with nearest filtering.
func (s *frameSampler) sampleNearest(u, v float32) (r, g, b, a float32) {
	x := int(math.Floor(float64(u * float32(s.width))))
	y := int(math.Floor(float64(v * float32(s.height))))
	return s.rgbaAt(x, y)
}

// sampleBilinear samples at normalized (u, v) with bilinear filtering.
func (s *frameSampler) sampleBilinear(u, v float32) (r, g, b, a float32) {
	fx := u*float32(s.width) - 0.5
	fy := v*float32(s.height) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	r00, g00, b00, a00 := s.rgbaAt(x0, y0)
	r10, g10, b10, a10 := s.rgbaAt(x0+1, y0)
	r01, g01, b01, a01 := s.rgbaAt(x0, y0+1)
	r11, g11, b11, a11 := s.rgbaAt(x0+1, y0+1)

	lerp := func(p, q, t float32) float32 { return p + (q-p)*t }
	r = lerp(lerp(r00, r10, dx), lerp(r01, r11, dx), dy)
	g = lerp(lerp(g00, g10, dx), lerp(g01, g11, dx), dy)
	b = lerp(lerp(b00, b10, dx), lerp(b01, b11, dx), dy)
	a = lerp(lerp(a00, a10, dx), lerp(a01, a11, dx), dy)
	return r, g, b, a
}

// clamp01 clamps v to [0, 1].
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
