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

// ChromaKey are the keying parameters of a ColorFilter.
type ChromaKey struct {
	Enabled bool

	// Color is the key color.
	Color videofx.ARGB

	// Tolerance is the chroma distance below which a pixel is fully
	// keyed out.
	Tolerance float32

	// Smoothness widens the soft edge between keyed and kept pixels.
	Smoothness float32
}

// FilterParams are the per-frame grading parameters. The zero value is
// not the identity; use DefaultFilterParams.
type FilterParams struct {
	// Brightness is added to every channel. 0 is identity.
	Brightness float32

	// Contrast scales the distance from mid-gray. 1 is identity.
	Contrast float32

	// Saturation blends between luma and the original color. 1 is
	// identity, 0 is grayscale.
	Saturation float32

	// Hue rotates the hue as a fraction of a full turn. 0 is identity.
	Hue float32

	// Gamma applies a power curve. 1 is identity.
	Gamma float32

	// Sharpness above zero unsharp-masks; below zero blurs. 0 is
	// identity.
	Sharpness float32

	// Sepia blends toward the sepia tone. 0 is identity.
	Sepia float32

	// Invert blends toward the negative. 0 is identity.
	Invert float32

	// Noise is the amplitude of per-pixel film grain. 0 is identity.
	Noise float32

	// Vignette darkens toward the corners. 0 is identity.
	Vignette float32

	ChromaKey ChromaKey

	// FrameIndex seeds the grain pattern so it animates across frames.
	FrameIndex uint32
}

// DefaultFilterParams returns the identity parameter set.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		Contrast:   1,
		Saturation: 1,
		Gamma:      1,
	}
}

// FilterConfig is the frame contract for a ColorFilter. Input and output
// share format and size.
type FilterConfig struct {
	Format videofx.PixelFormat
	Width  int
	Height int
}

// ColorFilter applies parametric color grading: brightness, contrast,
// saturation, hue rotation, gamma, sepia, invert, chroma keying,
// vignette and film grain in a fixed stage order, with optional
// blur/sharpen and an optional 3D lookup table.
type ColorFilter struct {
	mu         sync.Mutex
	ctx        *device.Context
	cfg        FilterConfig
	cache      *device.TextureCache
	working    *device.Texture
	blurTmp    *device.Texture
	blurred    *device.Texture
	lut        *LookupTable3D
	packer     *outputPacker
	configured bool
	closed     bool
}

// NewColorFilter creates an unconfigured filter on the context.
func NewColorFilter(ctx *device.Context) *ColorFilter {
	return &ColorFilter{ctx: ctx}
}

// Configure negotiates the frame contract.
func (f *ColorFilter) Configure(cfg FilterConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrRendererClosed
	}
	f.configured = false

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	packer, err := newOutputPacker(cfg.Format, cfg.Width, cfg.Height, videofx.MatrixBT601)
	if err != nil {
		return err
	}
	if _, err := f.ctx.CompileShaderSource("videofx-filter", filterWGSL); err != nil {
		return err
	}

	var texs [3]*device.Texture
	labels := [3]string{"videofx-filter-working", "videofx-filter-blur-tmp", "videofx-filter-blurred"}
	for i := range texs {
		t, err := f.ctx.NewTexture(cfg.Width, cfg.Height, device.TextureFormatRGBA8, labels[i])
		if err != nil {
			for _, prev := range texs[:i] {
				prev.Destroy()
			}
			return err
		}
		texs[i] = t
	}

	f.releaseTextures()
	if f.cache == nil {
		f.cache = f.ctx.NewTextureCache()
	}
	f.cfg = cfg
	f.working, f.blurTmp, f.blurred = texs[0], texs[1], texs[2]
	f.packer = packer
	f.configured = true
	return nil
}

// LoadLUTFromFile loads and installs a 3D lookup table. On failure the
// previously installed table, if any, stays active.
func (f *ColorFilter) LoadLUTFromFile(path string) error {
	lut, err := LoadLUTFromFile(path)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.lut = lut
	f.mu.Unlock()
	return nil
}

// SetLUT installs a lookup table directly. Pass nil to remove it.
func (f *ColorFilter) SetLUT(lut *LookupTable3D) {
	f.mu.Lock()
	f.lut = lut
	f.mu.Unlock()
}

// ClearLUT removes the lookup table.
func (f *ColorFilter) ClearLUT() { f.SetLUT(nil) }

// Process grades one frame.
func (f *ColorFilter) Process(in, out *videofx.FrameBuffer, params FilterParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrRendererClosed
	}
	if !f.configured {
		return ErrNotConfigured
	}
	if err := in.Matches(f.cfg.Format, f.cfg.Width, f.cfg.Height); err != nil {
		return err
	}

	f.cache.ResetFrameIndex()
	src, err := uploadFrame(f.cache, in, 0)
	if err != nil {
		return err
	}
	for y := 0; y < f.cfg.Height; y++ {
		for x := 0; x < f.cfg.Width; x++ {
			r, g, b, a := src.rgbaAt(x, y)
			f.working.SetPixel(x, y, r, g, b, a)
		}
	}

	if params.Sharpness != 0 {
		f.applySharpness(params.Sharpness)
	}

	kr, kg, kb, _ := params.ChromaKey.Color.RGBA()

	for y := 0; y < f.cfg.Height; y++ {
		for x := 0; x < f.cfg.Width; x++ {
			r, g, b, a := f.working.Pixel(x, y)
			r, g, b, a = f.gradePixel(r, g, b, a, x, y, &params, kr, kg, kb)
			f.working.SetPixel(x, y, r, g, b, a)
		}
	}

	return f.packer.Pack(f.working, out)
}

// gradePixel runs the fixed stage chain on one pixel.
func (f *ColorFilter) gradePixel(r, g, b, a float32, x, y int, p *FilterParams, keyR, keyG, keyB float32) (float32, float32, float32, float32) {
	// Brightness, contrast.
	r = r + p.Brightness
	g = g + p.Brightness
	b = b + p.Brightness
	r = (r-0.5)*p.Contrast + 0.5
	g = (g-0.5)*p.Contrast + 0.5
	b = (b-0.5)*p.Contrast + 0.5

	// Saturation about luma.
	luma := 0.2126*r + 0.7152*g + 0.0722*b
	r = luma + (r-luma)*p.Saturation
	g = luma + (g-luma)*p.Saturation
	b = luma + (b-luma)*p.Saturation

	// Hue rotation in HSV space.
	if p.Hue != 0 {
		h, s, v := rgbToHSV(clamp01(r), clamp01(g), clamp01(b))
		h += p.Hue
		h -= float32(math.Floor(float64(h)))
		r, g, b = hsvToRGB(h, s, v)
	}

	// Gamma.
	if p.Gamma != 1 && p.Gamma > 0 {
		inv := 1 / float64(p.Gamma)
		r = float32(math.Pow(float64(clamp01(r)), inv))
		g = float32(math.Pow(float64(clamp01(g)), inv))
		b = float32(math.Pow(float64(clamp01(b)), inv))
	}

	// Sepia.
	if p.Sepia != 0 {
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		r = r + (sr-r)*p.Sepia
		g = g + (sg-g)*p.Sepia
		b = b + (sb-b)*p.Sepia
	}

	// Invert.
	if p.Invert != 0 {
		r = r + (1-2*r)*p.Invert
		g = g + (1-2*g)*p.Invert
		b = b + (1-2*b)*p.Invert
	}

	// Chroma key by color distance.
	if p.ChromaKey.Enabled {
		dr := float64(clamp01(r) - keyR)
		dg := float64(clamp01(g) - keyG)
		db := float64(clamp01(b) - keyB)
		dist := float32(math.Sqrt(dr*dr + dg*dg + db*db))
		a *= smoothstep(p.ChromaKey.Tolerance,
			p.ChromaKey.Tolerance+p.ChromaKey.Smoothness, dist)
	}

	// Vignette.
	if p.Vignette != 0 {
		du := float64((float32(x)+0.5)/float32(f.cfg.Width) - 0.5)
		dv := float64((float32(y)+0.5)/float32(f.cfg.Height) - 0.5)
		dist := float32(math.Sqrt(du*du+dv*dv)) * 1.414
		fall := 1 - smoothstep(0.5, 1.0, dist)*p.Vignette
		r *= fall
		g *= fall
		b *= fall
	}

	// Film grain.
	if p.Noise != 0 {
		n := hash12(float32(x), float32(y), float32(p.FrameIndex))
		r += (n - 0.5) * p.Noise
		g += (n - 0.5) * p.Noise
		b += (n - 0.5) * p.Noise
	}

	r, g, b = clamp01(r), clamp01(g), clamp01(b)

	// Lookup table, when installed.
	if f.lut != nil {
		r, g, b = f.lut.Sample(r, g, b)
	}
	return r, g, b, clamp01(a)
}

// blurWeights are the 9-tap Gaussian kernel of the separable blur.
var blurWeights = [9]float32{
	0.028532, 0.067234, 0.124009, 0.179044, 0.20236,
	0.179044, 0.124009, 0.067234, 0.028532,
}

// applySharpness runs the horizontal and vertical blur passes, then
// combines: unsharp mask for positive amounts, blend toward the blur for
// negative ones. Alpha is taken from the original.
func (f *ColorFilter) applySharpness(amount float32) {
	for y := 0; y < f.cfg.Height; y++ {
		for x := 0; x < f.cfg.Width; x++ {
			var r, g, b, a float32
			for t := -4; t <= 4; t++ {
				w := blurWeights[t+4]
				pr, pg, pb, pa := f.working.Pixel(x+t, y)
				r += pr * w
				g += pg * w
				b += pb * w
				a += pa * w
			}
			f.blurTmp.SetPixel(x, y, r, g, b, a)
		}
	}
	for y := 0; y < f.cfg.Height; y++ {
		for x := 0; x < f.cfg.Width; x++ {
			var r, g, b, a float32
			for t := -4; t <= 4; t++ {
				w := blurWeights[t+4]
				pr, pg, pb, pa := f.blurTmp.Pixel(x, y+t)
				r += pr * w
				g += pg * w
				b += pb * w
				a += pa * w
			}
			f.blurred.SetPixel(x, y, r, g, b, a)
		}
	}

	for y := 0; y < f.cfg.Height; y++ {
		for x := 0; x < f.cfg.Width; x++ {
			or, og, ob, oa := f.working.Pixel(x, y)
			br, bg, bb, _ := f.blurred.Pixel(x, y)
			var r, g, b float32
			if amount > 0 {
				r = or + (or-br)*amount
				g = og + (og-bg)*amount
				b = ob + (ob-bb)*amount
			} else {
				k := -amount
				r = or + (br-or)*k
				g = og + (bg-og)*k
				b = ob + (bb-ob)*k
			}
			f.working.SetPixel(x, y, clamp01(r), clamp01(g), clamp01(b), oa)
		}
	}
}

// hash12 is the shader grain hash, keyed by pixel coordinate and frame.
func hash12(x, y, frame float32) float32 {
	px := fract(x*0.1031 + frame*0.00137)
	py := fract(y*0.1031 + frame*0.00137)
	pz := fract(x*0.1031 + frame*0.00137)
	d := px*(py+33.33) + py*(pz+33.33) + pz*(px+33.33)
	px += d
	py += d
	pz += d
	return fract((px + py) * pz)
}

func fract(v float32) float32 {
	return v - float32(math.Floor(float64(v)))
}

// smoothstep is the GLSL smoothstep with clamped Hermite interpolation.
func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// rgbToHSV converts clamped RGB to hue/saturation/value, hue in [0, 1).
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	maxC := r
	if g > maxC {
		maxC = g
	}
	if b > maxC {
		maxC = b
	}
	minC := r
	if g < minC {
		minC = g
	}
	if b < minC {
		minC = b
	}
	v = maxC
	d := maxC - minC
	if maxC > 0 {
		s = d / maxC
	}
	if d == 0 {
		return 0, s, v
	}
	switch maxC {
	case r:
		h = (g - b) / d
		if h < 0 {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, v
}

// hsvToRGB converts hue/saturation/value back to RGB, hue in [0, 1).
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	i := int(math.Floor(float64(h * 6)))
	f := h*6 - float32(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func (f *ColorFilter) releaseTextures() {
	for _, t := range []*device.Texture{f.working, f.blurTmp, f.blurred} {
		if t != nil {
			t.Destroy()
		}
	}
	f.working, f.blurTmp, f.blurred = nil, nil, nil
}

// Cleanup releases the filter's resources. Idempotent.
func (f *ColorFilter) Cleanup() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.configured = false
	if f.cache != nil {
		f.cache.Clear()
		f.cache = nil
	}
	f.releaseTextures()
	f.lut = nil
	f.packer = nil
}
