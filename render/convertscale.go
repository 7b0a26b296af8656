// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

// SamplingMethod selects the scaling filter.
type SamplingMethod uint8

const (
	// SamplingBilinear interpolates the four nearest source pixels.
	SamplingBilinear SamplingMethod = iota

	// SamplingNearest picks the nearest source pixel.
	SamplingNearest
)

// String returns a short name for the method.
func (m SamplingMethod) String() string {
	if m == SamplingNearest {
		return "nearest"
	}
	return "bilinear"
}

// ConvertScaleConfig is the frame contract for a ConvertScale renderer.
type ConvertScaleConfig struct {
	InFormat  videofx.PixelFormat
	InWidth   int
	InHeight  int
	OutFormat videofx.PixelFormat
	OutWidth  int
	OutHeight int

	// Method selects the scaling filter. Default bilinear.
	Method SamplingMethod

	// AddBorders letterboxes instead of stretching when the input and
	// output aspect ratios differ.
	AddBorders bool

	// BorderColor fills the letterbox bars. Zero is transparent black.
	BorderColor videofx.ARGB
}

// viewport is the destination rectangle the scaled input occupies within
// the output, in output pixels. Pixels outside it get the border color.
type viewport struct {
	x, y, w, h int
}

func (v viewport) contains(x, y int) bool {
	return x >= v.x && x < v.x+v.w && y >= v.y && y < v.y+v.h
}

// letterboxViewport computes the largest centered rectangle inside
// outW x outH with the input's aspect ratio.
func letterboxViewport(inW, inH, outW, outH int) viewport {
	// Compare aspect ratios in cross-multiplied integer form.
	if inW*outH == outW*inH {
		return viewport{0, 0, outW, outH}
	}
	if inW*outH > outW*inH {
		// Input is wider: bars top and bottom.
		h := outW * inH / inW
		return viewport{0, (outH - h) / 2, outW, h}
	}
	w := outH * inW / inH
	return viewport{(outW - w) / 2, 0, w, outH}
}

// ConvertScale converts pixel format and resizes in a single pass:
// upload, colorspace decode, viewport sampling, output pack.
type ConvertScale struct {
	mu         sync.Mutex
	ctx        *device.Context
	cfg        ConvertScaleConfig
	cache      *device.TextureCache
	working    *device.Texture
	packer     *outputPacker
	view       viewport
	configured bool
	closed     bool
}

// NewConvertScale creates an unconfigured renderer on the given context.
func NewConvertScale(ctx *device.Context) *ConvertScale {
	return &ConvertScale{ctx: ctx}
}

// Configure negotiates the frame contract and builds the pipeline state.
// On failure the renderer stays unconfigured.
func (c *ConvertScale) Configure(cfg ConvertScaleConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrRendererClosed
	}
	c.configured = false

	if cfg.InWidth <= 0 || cfg.InHeight <= 0 || cfg.OutWidth <= 0 || cfg.OutHeight <= 0 {
		return fmt.Errorf("%w: size %dx%d -> %dx%d", ErrInvalidConfig,
			cfg.InWidth, cfg.InHeight, cfg.OutWidth, cfg.OutHeight)
	}
	if _, err := videofx.ClassifyFormat(cfg.InFormat); err != nil {
		return err
	}

	packer, err := newOutputPacker(cfg.OutFormat, cfg.OutWidth, cfg.OutHeight, videofx.MatrixBT601)
	if err != nil {
		return err
	}
	if _, err := c.ctx.CompileShaderSource("videofx-convertscale", convertScaleWGSL); err != nil {
		return err
	}
	working, err := c.ctx.NewTexture(cfg.OutWidth, cfg.OutHeight,
		device.TextureFormatRGBA8, "videofx-convertscale-working")
	if err != nil {
		return err
	}

	if c.working != nil {
		c.working.Destroy()
	}
	if c.cache == nil {
		c.cache = c.ctx.NewTextureCache()
	}
	c.cfg = cfg
	c.working = working
	c.packer = packer
	c.view = viewport{0, 0, cfg.OutWidth, cfg.OutHeight}
	if cfg.AddBorders {
		c.view = letterboxViewport(cfg.InWidth, cfg.InHeight, cfg.OutWidth, cfg.OutHeight)
	}
	c.configured = true

	videofx.Logger().Debug("render: convertscale configured",
		"in", fmt.Sprintf("%s %dx%d", cfg.InFormat, cfg.InWidth, cfg.InHeight),
		"out", fmt.Sprintf("%s %dx%d", cfg.OutFormat, cfg.OutWidth, cfg.OutHeight),
		"method", cfg.Method.String(), "borders", cfg.AddBorders)
	return nil
}

// Process converts one frame. in must match the configured input contract
// and out the output contract.
func (c *ConvertScale) Process(in, out *videofx.FrameBuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.renderLocked(in); err != nil {
		return err
	}
	return c.packer.Pack(c.working, out)
}

// ProcessToTexture converts one frame and returns the working RGBA
// texture instead of packing it into a frame. The presentation surface
// uses this to hand the texture straight to the presenter without a pack
// and re-upload round trip. The texture stays valid until the next
// Process or Cleanup.
func (c *ConvertScale) ProcessToTexture(in *videofx.FrameBuffer) (*device.Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.renderLocked(in); err != nil {
		return nil, err
	}
	return c.working, nil
}

func (c *ConvertScale) renderLocked(in *videofx.FrameBuffer) error {
	if c.closed {
		return ErrRendererClosed
	}
	if !c.configured {
		return ErrNotConfigured
	}
	if err := in.Matches(c.cfg.InFormat, c.cfg.InWidth, c.cfg.InHeight); err != nil {
		return err
	}

	c.cache.ResetFrameIndex()
	src, err := uploadFrame(c.cache, in, 0)
	if err != nil {
		return err
	}

	br, bg, bb, ba := c.cfg.BorderColor.RGBA()
	for y := 0; y < c.cfg.OutHeight; y++ {
		for x := 0; x < c.cfg.OutWidth; x++ {
			if !c.view.contains(x, y) {
				c.working.SetPixel(x, y, br, bg, bb, ba)
				continue
			}
			u := (float32(x-c.view.x) + 0.5) / float32(c.view.w)
			v := (float32(y-c.view.y) + 0.5) / float32(c.view.h)
			var r, g, b, a float32
			if c.cfg.Method == SamplingNearest {
				r, g, b, a = src.sampleNearest(u, v)
			} else {
				r, g, b, a = src.sampleBilinear(u, v)
			}
			c.working.SetPixel(x, y, r, g, b, a)
		}
	}
	return nil
}

// Cleanup releases the renderer's resources. It is idempotent and may be
// called from any state.
func (c *ConvertScale) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.configured = false
	if c.cache != nil {
		c.cache.Clear()
		c.cache = nil
	}
	if c.working != nil {
		c.working.Destroy()
		c.working = nil
	}
}
