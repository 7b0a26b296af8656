// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

// BlendMode selects how a compositor input combines with the canvas.
type BlendMode uint8

const (
	// BlendSource overwrites the canvas with the input.
	BlendSource BlendMode = iota

	// BlendOver is standard alpha compositing, dst = src*a + dst*(1-a).
	BlendOver

	// BlendAdd adds the input to the canvas, clamped.
	BlendAdd
)

// SizingPolicy controls how an input is fitted to its destination rect.
type SizingPolicy uint8

const (
	// SizingNone stretches the input to fill the rect.
	SizingNone SizingPolicy = iota

	// SizingKeepAspectRatio letterboxes the input inside the rect.
	SizingKeepAspectRatio
)

// Background selects the canvas fill painted before any input.
type Background uint8

const (
	// BackgroundChecker is an 8x8 gray checkerboard.
	BackgroundChecker Background = iota

	// BackgroundBlack is opaque black.
	BackgroundBlack

	// BackgroundWhite is opaque white.
	BackgroundWhite

	// BackgroundTransparent is fully transparent black.
	BackgroundTransparent
)

// Rect is a destination rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H int
}

// CompositorInput is one frame to composite onto the canvas.
type CompositorInput struct {
	Frame *videofx.FrameBuffer

	// Dest is the destination rectangle. With ZeroSizeIsUnscaled set on
	// the compositor, a zero-size rect places the frame unscaled at
	// (X, Y); otherwise zero dimensions default to the canvas size.
	Dest Rect

	// Alpha is the input's global opacity in [0, 1].
	Alpha float32

	// ZOrder orders inputs back to front. Ties keep slice order.
	ZOrder int

	Blend  BlendMode
	Sizing SizingPolicy
}

// CompositorConfig is the canvas contract.
type CompositorConfig struct {
	Width  int
	Height int
	Format videofx.PixelFormat

	// ZeroSizeIsUnscaled places inputs with a zero-size dest rect at
	// their natural size instead of stretching them to the canvas.
	ZeroSizeIsUnscaled bool
}

// Compositor blends multiple inputs onto one canvas, back to front.
type Compositor struct {
	mu         sync.Mutex
	ctx        *device.Context
	cfg        CompositorConfig
	cache      *device.TextureCache
	canvas     *device.Texture
	packer     *outputPacker
	configured bool
	closed     bool
}

// NewCompositor creates an unconfigured compositor on the given context.
func NewCompositor(ctx *device.Context) *Compositor {
	return &Compositor{ctx: ctx}
}

// Configure sets the canvas size and output format.
func (c *Compositor) Configure(cfg CompositorConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrRendererClosed
	}
	c.configured = false

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	packer, err := newOutputPacker(cfg.Format, cfg.Width, cfg.Height, videofx.MatrixBT601)
	if err != nil {
		return err
	}
	if _, err := c.ctx.CompileShaderSource("videofx-compositor", compositorWGSL); err != nil {
		return err
	}
	canvas, err := c.ctx.NewTexture(cfg.Width, cfg.Height,
		device.TextureFormatRGBA8, "videofx-compositor-canvas")
	if err != nil {
		return err
	}

	if c.canvas != nil {
		c.canvas.Destroy()
	}
	if c.cache == nil {
		c.cache = c.ctx.NewTextureCache()
	}
	c.cfg = cfg
	c.canvas = canvas
	c.packer = packer
	c.configured = true

	videofx.Logger().Debug("render: compositor configured",
		"canvas", fmt.Sprintf("%s %dx%d", cfg.Format, cfg.Width, cfg.Height))
	return nil
}

// Composite blends inputs onto the background, back to front by ZOrder
// (ties keep slice order), and packs the canvas into out.
func (c *Compositor) Composite(inputs []CompositorInput, background Background, out *videofx.FrameBuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrRendererClosed
	}
	if !c.configured {
		return ErrNotConfigured
	}

	c.fillBackground(background)

	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return inputs[order[a]].ZOrder < inputs[order[b]].ZOrder
	})

	c.cache.ResetFrameIndex()
	for _, idx := range order {
		in := &inputs[idx]
		if in.Frame == nil {
			return fmt.Errorf("%w: nil frame at input %d", videofx.ErrFrameMismatch, idx)
		}
		src, err := uploadFrame(c.cache, in.Frame, idx*4)
		if err != nil {
			return err
		}
		c.blendInput(src, in)
	}

	return c.packer.Pack(c.canvas, out)
}

func (c *Compositor) fillBackground(bg Background) {
	switch bg {
	case BackgroundBlack:
		c.canvas.Fill(0, 0, 0, 1)
	case BackgroundWhite:
		c.canvas.Fill(1, 1, 1, 1)
	case BackgroundTransparent:
		c.canvas.Fill(0, 0, 0, 0)
	default:
		// 8x8 checkerboard in two grays.
		for y := 0; y < c.cfg.Height; y++ {
			for x := 0; x < c.cfg.Width; x++ {
				if (x/8+y/8)%2 == 0 {
					c.canvas.SetPixel(x, y, 0.4, 0.4, 0.4, 1)
				} else {
					c.canvas.SetPixel(x, y, 0.6, 0.6, 0.6, 1)
				}
			}
		}
	}
}

// destRect resolves an input's destination rectangle against the canvas
// and the sizing policy.
func (c *Compositor) destRect(in *CompositorInput) Rect {
	d := in.Dest
	if d.W <= 0 || d.H <= 0 {
		if c.cfg.ZeroSizeIsUnscaled {
			d.W = in.Frame.Width
			d.H = in.Frame.Height
		} else {
			d = Rect{0, 0, c.cfg.Width, c.cfg.Height}
		}
	}
	if in.Sizing == SizingKeepAspectRatio {
		v := letterboxViewport(in.Frame.Width, in.Frame.Height, d.W, d.H)
		d = Rect{d.X + v.x, d.Y + v.y, v.w, v.h}
	}
	return d
}

func (c *Compositor) blendInput(src *frameSampler, in *CompositorInput) {
	d := c.destRect(in)

	x0 := max(d.X, 0)
	y0 := max(d.Y, 0)
	x1 := min(d.X+d.W, c.cfg.Width)
	y1 := min(d.Y+d.H, c.cfg.Height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			u := (float32(x-d.X) + 0.5) / float32(d.W)
			v := (float32(y-d.Y) + 0.5) / float32(d.H)
			sr, sg, sb, sa := src.sampleBilinear(u, v)

			switch in.Blend {
			case BlendSource:
				c.canvas.SetPixel(x, y, sr, sg, sb, sa)
			case BlendAdd:
				a := sa * in.Alpha
				dr, dg, db, da := c.canvas.Pixel(x, y)
				c.canvas.SetPixel(x, y,
					clamp01(dr+sr*a),
					clamp01(dg+sg*a),
					clamp01(db+sb*a),
					clamp01(da+a))
			default:
				a := sa * in.Alpha
				dr, dg, db, da := c.canvas.Pixel(x, y)
				c.canvas.SetPixel(x, y,
					sr*a+dr*(1-a),
					sg*a+dg*(1-a),
					sb*a+db*(1-a),
					a+da*(1-a))
			}
		}
	}
}

// Cleanup releases the compositor's resources. Idempotent.
func (c *Compositor) Cleanup() {
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
	if c.canvas != nil {
		c.canvas.Destroy()
		c.canvas = nil
	}
}
