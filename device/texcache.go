// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"fmt"

	"github.com/gogpu/videofx"
)

// planeShape is the shape a slot's texture was allocated for. A slot
// reuses its texture only when the shape matches exactly; a change
// evicts the old texture and allocates a fresh one.
type planeShape struct {
	width  int
	height int
	format TextureFormat
}

// cacheEntry is one slot's texture together with the shape it holds.
type cacheEntry struct {
	shape planeShape
	tex   *Texture
}

// TextureCache caches per-plane upload textures across frames.
//
// Uploading a video frame allocates one texture per plane slot. Frame
// shapes are stable in steady state, so each slot keeps its texture and
// reuses it frame after frame, avoiding per-frame allocation. A shape
// change on a slot destroys the superseded texture immediately, so the
// cache never holds more than one texture per slot regardless of how
// input shapes vary between calls. ResetFrameIndex marks the start of a
// new frame; UploadPlane then binds the cached (or newly allocated)
// texture for each plane slot and fills it with the plane's bytes.
//
// A TextureCache is owned by a single renderer and is not safe for
// concurrent use.
type TextureCache struct {
	ctx *Context

	// entries holds the texture allocated for each slot.
	entries map[int]*cacheEntry

	// slots maps plane slot to the texture bound for the current frame.
	slots map[int]*Texture
}

// ResetFrameIndex begins a new frame, unbinding all plane slots. Cached
// textures are kept for reuse.
func (tc *TextureCache) ResetFrameIndex() {
	clear(tc.slots)
}

// UploadPlane uploads plane of frame into the cache texture bound to the
// given slot, allocating it on first use and replacing it when the shape
// changed. Renderers that handle one frame per call pass slot == plane;
// multi-input renderers offset slots to keep their frames' entries
// apart. The bound texture is returned and remains valid until an
// UploadPlane with a different shape rebinds the slot, or until Clear.
func (tc *TextureCache) UploadPlane(frame *videofx.FrameBuffer, plane, slot int, format TextureFormat, width, height int) (*Texture, error) {
	data := frame.Plane(plane)
	if data == nil {
		return nil, fmt.Errorf("%w: frame has no plane %d", videofx.ErrFrameMismatch, plane)
	}

	shape := planeShape{width: width, height: height, format: format}
	entry := tc.entries[slot]
	if entry != nil && entry.shape != shape {
		entry.tex.Destroy()
		delete(tc.entries, slot)
		entry = nil
	}
	if entry == nil {
		tex, err := tc.ctx.NewTexture(width, height, format,
			fmt.Sprintf("videofx-cache-slot%d", slot))
		if err != nil {
			return nil, err
		}
		entry = &cacheEntry{shape: shape, tex: tex}
		tc.entries[slot] = entry
		videofx.Logger().Debug("device: cache texture allocated",
			"slot", slot, "width", width, "height", height, "format", format.String())
	}

	if err := entry.tex.Upload(data, frame.Stride(plane)); err != nil {
		return nil, err
	}
	tc.slots[slot] = entry.tex
	return entry.tex, nil
}

// Slot returns the texture bound for a plane in the current frame, or nil
// if UploadPlane has not bound it since the last ResetFrameIndex.
func (tc *TextureCache) Slot(plane int) *Texture {
	return tc.slots[plane]
}

// Clear destroys all cached textures and unbinds every slot.
func (tc *TextureCache) Clear() {
	for _, entry := range tc.entries {
		entry.tex.Destroy()
	}
	clear(tc.entries)
	clear(tc.slots)
}
