// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

// OverlayParams position the overlay image for one frame. Placement can
// be absolute, relative to the frame size, or a mix of both.
type OverlayParams struct {
	// X, Y place the overlay's top-left corner in output pixels.
	X, Y int

	// RelX, RelY offset the corner by a fraction of the frame size,
	// added to X and Y. An overlay at RelX = RelY = 0.5 with zero X and
	// Y starts at the frame center regardless of resolution.
	RelX, RelY float32

	// W, H scale the overlay. Zero or negative dimensions fall back to
	// RelW and RelH, then to the image's natural size.
	W, H int

	// RelW, RelH size the overlay as a fraction of the frame, used for
	// a dimension whose absolute value is not positive.
	RelW, RelH float32

	// Alpha is the global overlay opacity in [0, 1].
	Alpha float32
}

// OverlayConfig is the frame contract for an Overlay renderer. Input and
// output share format and size.
type OverlayConfig struct {
	Format videofx.PixelFormat
	Width  int
	Height int
}

// Overlay composites a static image over video frames.
//
// The image is loaded independently of the frame lifecycle; a failed load
// keeps the previous image active. With no image loaded Process passes
// frames through unchanged.
type Overlay struct {
	mu         sync.Mutex
	ctx        *device.Context
	cfg        OverlayConfig
	cache      *device.TextureCache
	working    *device.Texture
	img        *device.Texture
	packer     *outputPacker
	configured bool
	closed     bool
}

// NewOverlay creates an unconfigured overlay renderer on the context.
func NewOverlay(ctx *device.Context) *Overlay {
	return &Overlay{ctx: ctx}
}

// Configure negotiates the frame contract.
func (o *Overlay) Configure(cfg OverlayConfig) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrRendererClosed
	}
	o.configured = false

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	packer, err := newOutputPacker(cfg.Format, cfg.Width, cfg.Height, videofx.MatrixBT601)
	if err != nil {
		return err
	}
	if _, err := o.ctx.CompileShaderSource("videofx-overlay", overlayWGSL); err != nil {
		return err
	}
	working, err := o.ctx.NewTexture(cfg.Width, cfg.Height,
		device.TextureFormatRGBA8, "videofx-overlay-working")
	if err != nil {
		return err
	}

	if o.working != nil {
		o.working.Destroy()
	}
	if o.cache == nil {
		o.cache = o.ctx.NewTextureCache()
	}
	o.cfg = cfg
	o.working = working
	o.packer = packer
	o.configured = true
	return nil
}

// LoadImageFromFile decodes a PNG or JPEG file into the overlay texture.
// On failure the previously loaded image, if any, stays active.
func (o *Overlay) LoadImageFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAssetLoad, path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAssetLoad, path, err)
	}
	return o.setImage(src, path)
}

// SetImage installs a decoded image as the overlay.
func (o *Overlay) SetImage(src image.Image) error {
	return o.setImage(src, "in-memory")
}

func (o *Overlay) setImage(src image.Image, origin string) error {
	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrRendererClosed
	}
	tex, err := o.ctx.NewTexture(bounds.Dx(), bounds.Dy(),
		device.TextureFormatRGBA8, "videofx-overlay-image")
	if err != nil {
		return err
	}
	if err := tex.Upload(rgba.Pix, rgba.Stride); err != nil {
		tex.Destroy()
		return err
	}
	if o.img != nil {
		o.img.Destroy()
	}
	o.img = tex

	videofx.Logger().Info("render: overlay image loaded",
		"source", origin, "width", bounds.Dx(), "height", bounds.Dy())
	return nil
}

// ClearImage removes the overlay image; Process passes through afterwards.
func (o *Overlay) ClearImage() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.img != nil {
		o.img.Destroy()
		o.img = nil
	}
}

// Process composites the overlay onto one frame.
func (o *Overlay) Process(in, out *videofx.FrameBuffer, params OverlayParams) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrRendererClosed
	}
	if !o.configured {
		return ErrNotConfigured
	}
	if err := in.Matches(o.cfg.Format, o.cfg.Width, o.cfg.Height); err != nil {
		return err
	}

	o.cache.ResetFrameIndex()
	src, err := uploadFrame(o.cache, in, 0)
	if err != nil {
		return err
	}

	rect := o.overlayRect(params)
	for y := 0; y < o.cfg.Height; y++ {
		for x := 0; x < o.cfg.Width; x++ {
			r, g, b, a := src.rgbaAt(x, y)
			if o.img != nil && rect.W > 0 && rect.H > 0 &&
				x >= rect.X && x < rect.X+rect.W && y >= rect.Y && y < rect.Y+rect.H {
				u := (float32(x-rect.X) + 0.5) / float32(rect.W)
				v := (float32(y-rect.Y) + 0.5) / float32(rect.H)
				or, og, ob, oa := bilinearTexel(o.img, u, v)
				t := oa * params.Alpha
				r = r + (or-r)*t
				g = g + (og-g)*t
				b = b + (ob-b)*t
			}
			o.working.SetPixel(x, y, r, g, b, a)
		}
	}

	return o.packer.Pack(o.working, out)
}

// overlayRect resolves the overlay rectangle: relative offsets scale by
// the frame size and add to the absolute ones, and non-positive
// dimensions fall back to the relative size, then to the image's natural
// size.
func (o *Overlay) overlayRect(params OverlayParams) Rect {
	r := Rect{
		X: params.X + roundFrac(params.RelX, o.cfg.Width),
		Y: params.Y + roundFrac(params.RelY, o.cfg.Height),
		W: params.W,
		H: params.H,
	}
	if r.W <= 0 && params.RelW > 0 {
		r.W = roundFrac(params.RelW, o.cfg.Width)
	}
	if r.H <= 0 && params.RelH > 0 {
		r.H = roundFrac(params.RelH, o.cfg.Height)
	}
	if o.img == nil {
		return r
	}
	if r.W <= 0 {
		r.W = o.img.Width()
	}
	if r.H <= 0 {
		r.H = o.img.Height()
	}
	return r
}

// roundFrac converts a fraction of a pixel extent to whole pixels.
func roundFrac(frac float32, extent int) int {
	if frac == 0 {
		return 0
	}
	return int(math.Round(float64(frac) * float64(extent)))
}

// Cleanup releases the renderer's resources. Idempotent.
func (o *Overlay) Cleanup() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.configured = false
	if o.cache != nil {
		o.cache.Clear()
		o.cache = nil
	}
	if o.working != nil {
		o.working.Destroy()
		o.working = nil
	}
	if o.img != nil {
		o.img.Destroy()
		o.img = nil
	}
}
