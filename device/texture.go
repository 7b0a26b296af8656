// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// TextureFormat is the pixel format of a GPU texture.
type TextureFormat uint8

const (
	// TextureFormatRGBA8 is 8-bit RGBA, the engine's working format.
	TextureFormatRGBA8 TextureFormat = iota

	// TextureFormatBGRA8 is 8-bit BGRA, used for BGRA frame planes.
	TextureFormatBGRA8

	// TextureFormatR8 is single-channel 8-bit, used for luma and
	// separate chroma planes.
	TextureFormatR8

	// TextureFormatRG8 is two-channel 8-bit, used for interleaved
	// Cb/Cr planes.
	TextureFormatRG8
)

// String returns a human-readable name for the format.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8:
		return "RGBA8"
	case TextureFormatBGRA8:
		return "BGRA8"
	case TextureFormatR8:
		return "R8"
	case TextureFormatRG8:
		return "RG8"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA8, TextureFormatBGRA8:
		return 4
	case TextureFormatR8:
		return 1
	case TextureFormatRG8:
		return 2
	default:
		return 4
	}
}

// ToWGPUFormat converts to the wgpu gputypes.TextureFormat.
func (f TextureFormat) ToWGPUFormat() gputypes.TextureFormat {
	switch f {
	case TextureFormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	case TextureFormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	case TextureFormatR8:
		return gputypes.TextureFormatR8Unorm
	case TextureFormatRG8:
		return gputypes.TextureFormatRG8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// Texture is a 2D image addressed the way a shader addresses a sampled
// texture.
//
// Storage is a CPU-side mirror: it is the staging area for uploads and
// readback, and it is what the software executor operates on. Kernel
// code addresses texels through Pixel and SetPixel, which normalize
// every format to float RGBA exactly like a shader's sampled load.
//
// A Texture is owned either by a TextureCache entry or by a renderer's
// pipeline state; it is not safe for concurrent use.
type Texture struct {
	width  int
	height int
	format TextureFormat
	data   []byte
	label  string

	released atomic.Bool
}

// newTexture allocates a texture and its CPU mirror.
func newTexture(width, height int, format TextureFormat, label string) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, width, height)
	}
	const maxDim = 16384
	if width > maxDim || height > maxDim {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrTextureAlloc, width, height, maxDim)
	}
	data := make([]byte, width*height*format.BytesPerPixel())
	return &Texture{
		width:  width,
		height: height,
		format: format,
		data:   data,
		label:  label,
	}, nil
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Format returns the texture pixel format.
func (t *Texture) Format() TextureFormat { return t.format }

// Label returns the texture's debug label.
func (t *Texture) Label() string { return t.label }

// Upload copies CPU plane bytes into the texture, respecting the source
// stride, which may exceed width*bpp for padded rows.
func (t *Texture) Upload(src []byte, stride int) error {
	if t.released.Load() {
		return ErrTextureDestroyed
	}
	row := t.width * t.format.BytesPerPixel()
	if stride < row {
		return fmt.Errorf("%w: stride %d < row size %d", ErrInvalidTextureSize, stride, row)
	}
	for y := 0; y < t.height; y++ {
		copy(t.data[y*row:y*row+row], src[y*stride:y*stride+row])
	}
	return nil
}

// ReadInto copies the texture contents to a CPU plane, respecting the
// destination stride.
func (t *Texture) ReadInto(dst []byte, stride int) error {
	if t.released.Load() {
		return ErrTextureDestroyed
	}
	row := t.width * t.format.BytesPerPixel()
	if stride < row {
		return fmt.Errorf("%w: stride %d < row size %d", ErrInvalidTextureSize, stride, row)
	}
	for y := 0; y < t.height; y++ {
		copy(dst[y*stride:y*stride+row], t.data[y*row:y*row+row])
	}
	return nil
}

// Data exposes the raw CPU mirror. Kernels use Pixel/SetPixel instead;
// Data exists for bulk copies between working textures.
func (t *Texture) Data() []byte { return t.data }

// clampCoord clamps a texel coordinate to the valid range, matching
// clamp-to-edge sampler addressing.
func clampCoord(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Pixel returns the texel at (x, y) as normalized float RGBA. Coordinates
// are clamped to the edge. Missing channels read as a shader sampled load
// would: zero for color, one for alpha.
func (t *Texture) Pixel(x, y int) (r, g, b, a float32) {
	x = clampCoord(x, t.width)
	y = clampCoord(y, t.height)
	i := (y*t.width + x) * t.format.BytesPerPixel()
	switch t.format {
	case TextureFormatRGBA8:
		return float32(t.data[i]) / 255, float32(t.data[i+1]) / 255,
			float32(t.data[i+2]) / 255, float32(t.data[i+3]) / 255
	case TextureFormatBGRA8:
		return float32(t.data[i+2]) / 255, float32(t.data[i+1]) / 255,
			float32(t.data[i]) / 255, float32(t.data[i+3]) / 255
	case TextureFormatR8:
		return float32(t.data[i]) / 255, 0, 0, 1
	case TextureFormatRG8:
		return float32(t.data[i]) / 255, float32(t.data[i+1]) / 255, 0, 1
	default:
		return 0, 0, 0, 1
	}
}

// SetPixel writes a normalized float RGBA texel at (x, y). Values are
// clamped to [0, 1]; out-of-bounds writes are discarded, matching
// storage-texture semantics.
func (t *Texture) SetPixel(x, y int, r, g, b, a float32) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	i := (y*t.width + x) * t.format.BytesPerPixel()
	switch t.format {
	case TextureFormatRGBA8:
		t.data[i] = quantize(r)
		t.data[i+1] = quantize(g)
		t.data[i+2] = quantize(b)
		t.data[i+3] = quantize(a)
	case TextureFormatBGRA8:
		t.data[i] = quantize(b)
		t.data[i+1] = quantize(g)
		t.data[i+2] = quantize(r)
		t.data[i+3] = quantize(a)
	case TextureFormatR8:
		t.data[i] = quantize(r)
	case TextureFormatRG8:
		t.data[i] = quantize(r)
		t.data[i+1] = quantize(g)
	}
}

// Fill sets every texel to the given color.
func (t *Texture) Fill(r, g, b, a float32) {
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			t.SetPixel(x, y, r, g, b, a)
		}
	}
}

// CopyFrom copies the full contents of src, which must have the same
// dimensions and format.
func (t *Texture) CopyFrom(src *Texture) error {
	if t.width != src.width || t.height != src.height || t.format != src.format {
		return fmt.Errorf("%w: copy %dx%d %s into %dx%d %s", ErrInvalidTextureSize,
			src.width, src.height, src.format, t.width, t.height, t.format)
	}
	copy(t.data, src.data)
	return nil
}

// IsDestroyed returns true if the texture has been destroyed.
func (t *Texture) IsDestroyed() bool { return t.released.Load() }

// Destroy releases the texture. It is idempotent.
func (t *Texture) Destroy() {
	if t.released.Swap(true) {
		return
	}
	t.data = nil
}

// quantize converts a normalized float channel to an 8-bit value with
// round-to-nearest, clamping out-of-range input.
func quantize(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
