// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface presents processed video frames to a window system.
//
// The window system implements Presenter; VideoSurface owns the
// conversion from decoded frames to presentable textures, aspect-ratio
// handling, expose redraws and the coordinate mapping for input events.
package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
	"github.com/gogpu/videofx/render"
)

// Surface errors.
var (
	// ErrNoFrame is returned by Expose before the first rendered frame.
	ErrNoFrame = errors.New("surface: no frame rendered yet")

	// ErrSurfaceClosed is returned when using a surface after Cleanup.
	ErrSurfaceClosed = errors.New("surface: surface is closed")
)

// Presenter is the single contract a window system implements to show
// frames: report its size and present one RGBA texture.
type Presenter interface {
	Size() (width, height int)
	Present(tex *device.Texture) error
}

// rect is a pixel rectangle within the presenter.
type rect struct {
	x, y, w, h int
}

// fitRect returns the largest rectangle with the video's aspect ratio
// centered inside the target.
func fitRect(videoW, videoH int, target rect) rect {
	if videoW*target.h == target.w*videoH {
		return target
	}
	if videoW*target.h > target.w*videoH {
		h := target.w * videoH / videoW
		return rect{target.x, target.y + (target.h-h)/2, target.w, h}
	}
	w := target.h * videoW / videoH
	return rect{target.x + (target.w-w)/2, target.y, w, target.h}
}

// VideoSurface renders decoded frames onto a Presenter.
//
// The surface negotiates the video format once via Configure and then
// accepts frames through Render. The conversion pipeline is rebuilt
// lazily when the presenter size, the aspect-ratio mode or the render
// rectangle changes between frames.
type VideoSurface struct {
	mu        sync.Mutex
	ctx       *device.Context
	presenter Presenter

	format videofx.PixelFormat
	width  int
	height int

	forceAspect bool
	renderRect  *rect

	conv       *render.ConvertScale
	canvas     *device.Texture
	display    rect
	canvasW    int
	canvasH    int
	hasFrame   bool
	configured bool
	closed     bool
}

// NewVideoSurface creates a surface rendering onto the given presenter.
func NewVideoSurface(ctx *device.Context, presenter Presenter) *VideoSurface {
	return &VideoSurface{ctx: ctx, presenter: presenter, forceAspect: true}
}

// Configure negotiates the video format the surface will receive.
func (s *VideoSurface) Configure(format videofx.PixelFormat, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", videofx.ErrInvalidFrameSize, width, height)
	}
	if _, err := videofx.ClassifyFormat(format); err != nil {
		return err
	}
	s.format = format
	s.width = width
	s.height = height
	s.configured = true
	s.invalidateLocked()
	return nil
}

// SetForceAspectRatio selects between aspect-preserving letterbox (true,
// the default) and stretching to the full target.
func (s *VideoSurface) SetForceAspectRatio(force bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forceAspect != force {
		s.forceAspect = force
		s.invalidateLocked()
	}
}

// SetRenderRectangle overrides the target rectangle within the presenter.
// A non-positive width or height removes the override.
func (s *VideoSurface) SetRenderRectangle(x, y, w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w <= 0 || h <= 0 {
		s.renderRect = nil
	} else {
		s.renderRect = &rect{x, y, w, h}
	}
	s.invalidateLocked()
}

// invalidateLocked forces a pipeline rebuild on the next Render.
func (s *VideoSurface) invalidateLocked() {
	if s.conv != nil {
		s.conv.Cleanup()
		s.conv = nil
	}
	if s.canvas != nil {
		s.canvas.Destroy()
		s.canvas = nil
	}
	s.hasFrame = false
}

// ensurePipelineLocked rebuilds the conversion pipeline for the current
// presenter size and display settings.
func (s *VideoSurface) ensurePipelineLocked() error {
	pw, ph := s.presenter.Size()
	if pw <= 0 || ph <= 0 {
		return fmt.Errorf("%w: presenter reports %dx%d", videofx.ErrInvalidFrameSize, pw, ph)
	}
	if s.conv != nil && pw == s.canvasW && ph == s.canvasH {
		return nil
	}
	s.invalidateLocked()

	target := rect{0, 0, pw, ph}
	if s.renderRect != nil {
		target = *s.renderRect
	}
	display := target
	if s.forceAspect {
		display = fitRect(s.width, s.height, target)
	}
	if display.w <= 0 || display.h <= 0 {
		return fmt.Errorf("%w: display rect %dx%d", videofx.ErrInvalidFrameSize, display.w, display.h)
	}

	conv := render.NewConvertScale(s.ctx)
	err := conv.Configure(render.ConvertScaleConfig{
		InFormat:  s.format,
		InWidth:   s.width,
		InHeight:  s.height,
		OutFormat: videofx.FormatRGBA,
		OutWidth:  display.w,
		OutHeight: display.h,
	})
	if err != nil {
		return err
	}
	canvas, err := s.ctx.NewTexture(pw, ph, device.TextureFormatRGBA8, "videofx-surface-canvas")
	if err != nil {
		conv.Cleanup()
		return err
	}

	s.conv = conv
	s.canvas = canvas
	s.display = display
	s.canvasW = pw
	s.canvasH = ph

	videofx.Logger().Debug("surface: pipeline built",
		"window", fmt.Sprintf("%dx%d", pw, ph),
		"display", fmt.Sprintf("%d,%d %dx%d", display.x, display.y, display.w, display.h))
	return nil
}

// Render converts one frame and presents it.
func (s *VideoSurface) Render(frame *videofx.FrameBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	if !s.configured {
		return render.ErrNotConfigured
	}
	if err := s.ensurePipelineLocked(); err != nil {
		return err
	}

	tex, err := s.conv.ProcessToTexture(frame)
	if err != nil {
		return err
	}

	s.canvas.Fill(0, 0, 0, 1)
	for y := 0; y < s.display.h; y++ {
		for x := 0; x < s.display.w; x++ {
			r, g, b, a := tex.Pixel(x, y)
			s.canvas.SetPixel(s.display.x+x, s.display.y+y, r, g, b, a)
		}
	}

	if err := s.presenter.Present(s.canvas); err != nil {
		return err
	}
	s.hasFrame = true
	return nil
}

// Expose re-presents the last rendered frame, for damage events that do
// not come with new video data.
func (s *VideoSurface) Expose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	if !s.hasFrame {
		return ErrNoFrame
	}
	return s.presenter.Present(s.canvas)
}

// TransformNavigation maps presenter coordinates to video coordinates,
// accounting for the display rectangle and scale. Coordinates outside
// the displayed video are clamped to its edges.
func (s *VideoSurface) TransformNavigation(x, y float64) (vx, vy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv == nil || s.display.w == 0 || s.display.h == 0 {
		return x, y
	}
	vx = (x - float64(s.display.x)) * float64(s.width) / float64(s.display.w)
	vy = (y - float64(s.display.y)) * float64(s.height) / float64(s.display.h)
	vx = min(max(vx, 0), float64(s.width))
	vy = min(max(vy, 0), float64(s.height))
	return vx, vy
}

// Cleanup releases the surface's resources. Idempotent.
func (s *VideoSurface) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.configured = false
	s.invalidateLocked()
}
