// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

// TransformMethod selects one of the eight orientation transforms.
type TransformMethod uint8

const (
	// TransformIdentity passes the frame through.
	TransformIdentity TransformMethod = iota

	// TransformRotate90R rotates 90 degrees clockwise.
	TransformRotate90R

	// TransformRotate180 rotates 180 degrees.
	TransformRotate180

	// TransformRotate90L rotates 90 degrees counter-clockwise.
	TransformRotate90L

	// TransformFlipH mirrors horizontally.
	TransformFlipH

	// TransformFlipV mirrors vertically.
	TransformFlipV

	// TransformTransposeULLR mirrors across the upper-left to
	// lower-right diagonal.
	TransformTransposeULLR

	// TransformTransposeURLL mirrors across the upper-right to
	// lower-left diagonal.
	TransformTransposeURLL
)

// String returns a short name for the method.
func (m TransformMethod) String() string {
	switch m {
	case TransformRotate90R:
		return "rotate-90r"
	case TransformRotate180:
		return "rotate-180"
	case TransformRotate90L:
		return "rotate-90l"
	case TransformFlipH:
		return "flip-horizontal"
	case TransformFlipV:
		return "flip-vertical"
	case TransformTransposeULLR:
		return "transpose-ullr"
	case TransformTransposeURLL:
		return "transpose-urll"
	default:
		return "identity"
	}
}

// swapsAxes reports whether the method exchanges width and height.
func (m TransformMethod) swapsAxes() bool {
	switch m {
	case TransformRotate90R, TransformRotate90L,
		TransformTransposeULLR, TransformTransposeURLL:
		return true
	}
	return false
}

// uvMatrix maps output texture coordinates to source texture coordinates
// about the coordinate center: s = A*(t - 0.5) + 0.5.
type uvMatrix struct {
	a, b float32
	c, d float32
}

func (m uvMatrix) apply(u, v float32) (su, sv float32) {
	u -= 0.5
	v -= 0.5
	return m.a*u + m.b*v + 0.5, m.c*u + m.d*v + 0.5
}

// matrixFor returns the output-to-source mapping of the method.
func matrixFor(m TransformMethod) uvMatrix {
	switch m {
	case TransformRotate90R:
		return uvMatrix{0, 1, -1, 0}
	case TransformRotate180:
		return uvMatrix{-1, 0, 0, -1}
	case TransformRotate90L:
		return uvMatrix{0, -1, 1, 0}
	case TransformFlipH:
		return uvMatrix{-1, 0, 0, 1}
	case TransformFlipV:
		return uvMatrix{1, 0, 0, -1}
	case TransformTransposeULLR:
		return uvMatrix{0, 1, 1, 0}
	case TransformTransposeURLL:
		return uvMatrix{0, -1, -1, 0}
	default:
		return uvMatrix{1, 0, 0, 1}
	}
}

// TransformConfig is the frame contract for a Transform renderer.
// Crop margins are in input pixels and apply before the orientation
// transform.
type TransformConfig struct {
	Method    TransformMethod
	InFormat  videofx.PixelFormat
	InWidth   int
	InHeight  int
	OutFormat videofx.PixelFormat

	CropTop    int
	CropBottom int
	CropLeft   int
	CropRight  int
}

// OutputSize returns the output dimensions the configuration produces:
// the cropped input size, with axes swapped for 90-degree rotations and
// transposes.
func (c TransformConfig) OutputSize() (w, h int) {
	w = c.InWidth - c.CropLeft - c.CropRight
	h = c.InHeight - c.CropTop - c.CropBottom
	if c.Method.swapsAxes() {
		return h, w
	}
	return w, h
}

// Transform applies one of the eight orientation transforms with optional
// edge cropping.
type Transform struct {
	mu         sync.Mutex
	ctx        *device.Context
	cfg        TransformConfig
	mat        uvMatrix
	outW, outH int
	cache      *device.TextureCache
	working    *device.Texture
	packer     *outputPacker
	configured bool
	closed     bool
}

// NewTransform creates an unconfigured transform renderer on the context.
func NewTransform(ctx *device.Context) *Transform {
	return &Transform{ctx: ctx}
}

// Configure negotiates the frame contract and builds the UV mapping.
func (t *Transform) Configure(cfg TransformConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrRendererClosed
	}
	t.configured = false

	if cfg.InWidth <= 0 || cfg.InHeight <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, cfg.InWidth, cfg.InHeight)
	}
	if cfg.CropTop < 0 || cfg.CropBottom < 0 || cfg.CropLeft < 0 || cfg.CropRight < 0 {
		return fmt.Errorf("%w: negative crop", ErrInvalidConfig)
	}
	outW, outH := cfg.OutputSize()
	if outW <= 0 || outH <= 0 {
		return fmt.Errorf("%w: crop leaves %dx%d", ErrInvalidConfig, outW, outH)
	}
	if _, err := videofx.ClassifyFormat(cfg.InFormat); err != nil {
		return err
	}
	packer, err := newOutputPacker(cfg.OutFormat, outW, outH, videofx.MatrixBT601)
	if err != nil {
		return err
	}
	if _, err := t.ctx.CompileShaderSource("videofx-transform", transformWGSL); err != nil {
		return err
	}
	working, err := t.ctx.NewTexture(outW, outH,
		device.TextureFormatRGBA8, "videofx-transform-working")
	if err != nil {
		return err
	}

	if t.working != nil {
		t.working.Destroy()
	}
	if t.cache == nil {
		t.cache = t.ctx.NewTextureCache()
	}
	t.cfg = cfg
	t.mat = matrixFor(cfg.Method)
	t.outW, t.outH = outW, outH
	t.working = working
	t.packer = packer
	t.configured = true

	videofx.Logger().Debug("render: transform configured",
		"method", cfg.Method.String(), "out", fmt.Sprintf("%dx%d", outW, outH))
	return nil
}

// Process transforms one frame. out must have the dimensions reported by
// the configuration's OutputSize.
func (t *Transform) Process(in, out *videofx.FrameBuffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrRendererClosed
	}
	if !t.configured {
		return ErrNotConfigured
	}
	if err := in.Matches(t.cfg.InFormat, t.cfg.InWidth, t.cfg.InHeight); err != nil {
		return err
	}

	t.cache.ResetFrameIndex()
	src, err := uploadFrame(t.cache, in, 0)
	if err != nil {
		return err
	}

	cropW := float32(t.cfg.InWidth - t.cfg.CropLeft - t.cfg.CropRight)
	cropH := float32(t.cfg.InHeight - t.cfg.CropTop - t.cfg.CropBottom)
	for y := 0; y < t.outH; y++ {
		for x := 0; x < t.outW; x++ {
			u := (float32(x) + 0.5) / float32(t.outW)
			v := (float32(y) + 0.5) / float32(t.outH)
			su, sv := t.mat.apply(u, v)
			if su < 0 || su > 1 || sv < 0 || sv > 1 {
				t.working.SetPixel(x, y, 0, 0, 0, 1)
				continue
			}
			// Map from cropped-region coordinates into the full input.
			fu := (float32(t.cfg.CropLeft) + su*cropW) / float32(t.cfg.InWidth)
			fv := (float32(t.cfg.CropTop) + sv*cropH) / float32(t.cfg.InHeight)
			r, g, b, a := src.sampleBilinear(fu, fv)
			t.working.SetPixel(x, y, r, g, b, a)
		}
	}

	return t.packer.Pack(t.working, out)
}

// Cleanup releases the renderer's resources. Idempotent.
func (t *Transform) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.configured = false
	if t.cache != nil {
		t.cache.Clear()
		t.cache = nil
	}
	if t.working != nil {
		t.working.Destroy()
		t.working = nil
	}
}
