// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/videofx/device"
)

// ImagePresenter is a CPU-backed Presenter that snapshots presented
// frames into an image. It stands in for a window system in tests and
// headless tools.
type ImagePresenter struct {
	mu     sync.Mutex
	width  int
	height int
	last   *image.RGBA
	count  int
}

// NewImagePresenter creates a presenter of the given fixed size.
func NewImagePresenter(width, height int) *ImagePresenter {
	return &ImagePresenter{width: width, height: height}
}

// Size returns the presenter dimensions.
func (p *ImagePresenter) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// Resize changes the presenter dimensions, as a window resize would.
func (p *ImagePresenter) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = width
	p.height = height
}

// Present snapshots the texture.
func (p *ImagePresenter) Present(tex *device.Texture) error {
	img := image.NewRGBA(image.Rect(0, 0, tex.Width(), tex.Height()))
	for y := 0; y < tex.Height(); y++ {
		for x := 0; x < tex.Width(); x++ {
			r, g, b, a := tex.Pixel(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(r*255 + 0.5),
				G: uint8(g*255 + 0.5),
				B: uint8(b*255 + 0.5),
				A: uint8(a*255 + 0.5),
			})
		}
	}
	p.mu.Lock()
	p.last = img
	p.count++
	p.mu.Unlock()
	return nil
}

// Image returns the last presented frame, or nil before the first.
func (p *ImagePresenter) Image() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// PresentCount returns the number of Present calls.
func (p *ImagePresenter) PresentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
