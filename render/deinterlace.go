// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

// DeinterlaceMethod selects the field reconstruction algorithm.
type DeinterlaceMethod uint8

const (
	// DeinterlaceBob replaces discarded rows with the clamped average of
	// the neighbouring kept rows.
	DeinterlaceBob DeinterlaceMethod = iota

	// DeinterlaceWeave takes discarded rows from the previous output.
	DeinterlaceWeave

	// DeinterlaceLinear averages the rows directly above and below.
	DeinterlaceLinear

	// DeinterlaceGreedyH weaves where the pixel is static against the
	// previous output and bobs where it moved.
	DeinterlaceGreedyH
)

// String returns a short name for the method.
func (m DeinterlaceMethod) String() string {
	switch m {
	case DeinterlaceWeave:
		return "weave"
	case DeinterlaceLinear:
		return "linear"
	case DeinterlaceGreedyH:
		return "greedyh"
	default:
		return "bob"
	}
}

// DeinterlaceParams are the per-frame deinterlacing parameters.
type DeinterlaceParams struct {
	Method DeinterlaceMethod

	// TopFieldFirst selects which field the interlaced frame leads with
	// and therefore which rows are kept.
	TopFieldFirst bool

	// MotionThreshold is the greedyh per-pixel RGB distance above which a
	// pixel is considered moving.
	MotionThreshold float32

	// History is the texture returned by the previous Process call.
	// Weave and greedyh fall back to bob without it.
	History *device.Texture
}

// DeinterlaceConfig is the frame contract for a Deinterlacer. Input and
// output share format and size.
type DeinterlaceConfig struct {
	Format videofx.PixelFormat
	Width  int
	Height int
}

// Deinterlacer reconstructs progressive frames from interlaced input.
//
// History is caller-owned: Process returns the deinterlaced texture and
// the caller passes it back as Params.History on the next frame. The
// renderer double-buffers internally, so the returned texture stays valid
// for exactly one subsequent Process call.
type Deinterlacer struct {
	mu         sync.Mutex
	ctx        *device.Context
	cfg        DeinterlaceConfig
	cache      *device.TextureCache
	decoded    *device.Texture
	outputs    [2]*device.Texture
	current    int
	packer     *outputPacker
	configured bool
	closed     bool
}

// NewDeinterlacer creates an unconfigured deinterlacer on the context.
func NewDeinterlacer(ctx *device.Context) *Deinterlacer {
	return &Deinterlacer{ctx: ctx}
}

// Configure negotiates the frame contract.
func (d *Deinterlacer) Configure(cfg DeinterlaceConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrRendererClosed
	}
	d.configured = false

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	packer, err := newOutputPacker(cfg.Format, cfg.Width, cfg.Height, videofx.MatrixBT601)
	if err != nil {
		return err
	}
	if _, err := d.ctx.CompileShaderSource("videofx-deinterlace", deinterlaceWGSL); err != nil {
		return err
	}

	var texs [3]*device.Texture
	for i := range texs {
		t, err := d.ctx.NewTexture(cfg.Width, cfg.Height,
			device.TextureFormatRGBA8, fmt.Sprintf("videofx-deinterlace-%d", i))
		if err != nil {
			for _, prev := range texs[:i] {
				prev.Destroy()
			}
			return err
		}
		texs[i] = t
	}

	d.releaseTextures()
	if d.cache == nil {
		d.cache = d.ctx.NewTextureCache()
	}
	d.cfg = cfg
	d.decoded = texs[0]
	d.outputs = [2]*device.Texture{texs[1], texs[2]}
	d.current = 0
	d.packer = packer
	d.configured = true

	videofx.Logger().Debug("render: deinterlacer configured",
		"format", cfg.Format.String(), "width", cfg.Width, "height", cfg.Height)
	return nil
}

// Process deinterlaces one frame into out and returns the deinterlaced
// texture for use as the next call's history.
func (d *Deinterlacer) Process(in, out *videofx.FrameBuffer, params DeinterlaceParams) (*device.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrRendererClosed
	}
	if !d.configured {
		return nil, ErrNotConfigured
	}
	if err := in.Matches(d.cfg.Format, d.cfg.Width, d.cfg.Height); err != nil {
		return nil, err
	}

	d.cache.ResetFrameIndex()
	src, err := uploadFrame(d.cache, in, 0)
	if err != nil {
		return nil, err
	}
	for y := 0; y < d.cfg.Height; y++ {
		for x := 0; x < d.cfg.Width; x++ {
			r, g, b, a := src.rgbaAt(x, y)
			d.decoded.SetPixel(x, y, r, g, b, a)
		}
	}

	method := params.Method
	if params.History == nil &&
		(method == DeinterlaceWeave || method == DeinterlaceGreedyH) {
		method = DeinterlaceBob
	}

	dst := d.outputs[d.current]
	d.current = 1 - d.current

	for y := 0; y < d.cfg.Height; y++ {
		keep := (y%2 == 0) == params.TopFieldFirst
		for x := 0; x < d.cfg.Width; x++ {
			if keep {
				r, g, b, a := d.decoded.Pixel(x, y)
				dst.SetPixel(x, y, r, g, b, a)
				continue
			}
			var r, g, b, a float32
			switch method {
			case DeinterlaceWeave:
				r, g, b, a = params.History.Pixel(x, y)
			case DeinterlaceLinear:
				r, g, b, a = rowAverage(d.decoded, x, y)
			case DeinterlaceGreedyH:
				cr, cg, cb, _ := d.decoded.Pixel(x, y)
				pr, pg, pb, pa := params.History.Pixel(x, y)
				if rgbDistance(cr, cg, cb, pr, pg, pb) < params.MotionThreshold {
					r, g, b, a = pr, pg, pb, pa
				} else {
					r, g, b, a = rowAverage(d.decoded, x, y)
				}
			default:
				r, g, b, a = rowAverage(d.decoded, x, y)
			}
			dst.SetPixel(x, y, r, g, b, a)
		}
	}

	if err := d.packer.Pack(dst, out); err != nil {
		return nil, err
	}
	return dst, nil
}

// rowAverage averages the pixels directly above and below (x, y) with
// clamped addressing, the shared kernel of bob and linear.
func rowAverage(t *device.Texture, x, y int) (r, g, b, a float32) {
	r0, g0, b0, a0 := t.Pixel(x, y-1)
	r1, g1, b1, a1 := t.Pixel(x, y+1)
	return (r0 + r1) / 2, (g0 + g1) / 2, (b0 + b1) / 2, (a0 + a1) / 2
}

// rgbDistance is the Euclidean distance between two RGB pixels.
func rgbDistance(r0, g0, b0, r1, g1, b1 float32) float32 {
	dr := float64(r0 - r1)
	dg := float64(g0 - g1)
	db := float64(b0 - b1)
	return float32(math.Sqrt(dr*dr + dg*dg + db*db))
}

func (d *Deinterlacer) releaseTextures() {
	if d.decoded != nil {
		d.decoded.Destroy()
		d.decoded = nil
	}
	for i, t := range d.outputs {
		if t != nil {
			t.Destroy()
			d.outputs[i] = nil
		}
	}
}

// Cleanup releases the deinterlacer's resources. Idempotent.
func (d *Deinterlacer) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.configured = false
	if d.cache != nil {
		d.cache.Clear()
		d.cache = nil
	}
	d.releaseTextures()
	d.packer = nil
}
