// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package videofx

import (
	"errors"
	"fmt"
)

// Frame-related errors.
var (
	// ErrFrameMismatch is returned when a frame's shape does not match
	// the renderer's configured contract.
	ErrFrameMismatch = errors.New("videofx: frame does not match configured format")

	// ErrInvalidFrameSize is returned for non-positive frame dimensions.
	ErrInvalidFrameSize = errors.New("videofx: invalid frame size")
)

// Plane is one contiguous 2D array of samples within a frame.
// Stride is the byte distance between the starts of consecutive rows and
// may exceed the packed row size when rows are padded.
type Plane struct {
	Data   []byte
	Stride int
}

// Colorimetry carries the color-primaries metadata of a frame.
type Colorimetry uint8

// Colorimetry values.
const (
	// ColorimetryUnknown means the frame carries no usable metadata;
	// consumers fall back to BT.601.
	ColorimetryUnknown Colorimetry = iota

	// ColorimetryBT601 is standard-definition colorimetry.
	ColorimetryBT601

	// ColorimetryBT709 is high-definition colorimetry.
	ColorimetryBT709
)

// FrameBuffer is one decoded or encoded video frame: an ordered sequence
// of planes whose count and per-plane dimensions are fully determined by
// the pixel format and the frame size.
//
// The engine does not validate that caller-supplied planes honor this
// invariant beyond the cheap shape checks renderers perform at process
// time; the frame contract is the caller's responsibility.
type FrameBuffer struct {
	Format      PixelFormat
	Width       int
	Height      int
	Planes      []Plane
	Colorimetry Colorimetry
}

// NewFrameBuffer allocates a frame with tightly packed planes for the
// given format and size.
func NewFrameBuffer(format PixelFormat, width, height int) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, width, height)
	}
	n := format.PlaneCount()
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	f := &FrameBuffer{
		Format: format,
		Width:  width,
		Height: height,
		Planes: make([]Plane, n),
	}
	for i := 0; i < n; i++ {
		pw, ph := format.PlaneDimensions(i, width, height)
		stride := pw * format.BytesPerSample(i)
		f.Planes[i] = Plane{
			Data:   make([]byte, stride*ph),
			Stride: stride,
		}
	}
	return f, nil
}

// Plane returns the data of plane i, or nil if out of range.
func (f *FrameBuffer) Plane(i int) []byte {
	if i < 0 || i >= len(f.Planes) {
		return nil
	}
	return f.Planes[i].Data
}

// Stride returns the row stride of plane i in bytes, or 0 if out of range.
func (f *FrameBuffer) Stride(i int) int {
	if i < 0 || i >= len(f.Planes) {
		return 0
	}
	return f.Planes[i].Stride
}

// Matches reports whether the frame has the given format and size with a
// plausible plane layout. Renderers use this as their process-time shape
// check.
func (f *FrameBuffer) Matches(format PixelFormat, width, height int) error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrFrameMismatch)
	}
	if f.Format != format || f.Width != width || f.Height != height {
		return fmt.Errorf("%w: got %s %dx%d, want %s %dx%d",
			ErrFrameMismatch, f.Format, f.Width, f.Height, format, width, height)
	}
	if len(f.Planes) != format.PlaneCount() {
		return fmt.Errorf("%w: %d planes for %s", ErrFrameMismatch, len(f.Planes), format)
	}
	for i := range f.Planes {
		pw, ph := format.PlaneDimensions(i, width, height)
		row := pw * format.BytesPerSample(i)
		if f.Planes[i].Stride < row {
			return fmt.Errorf("%w: plane %d stride %d < row size %d",
				ErrFrameMismatch, i, f.Planes[i].Stride, row)
		}
		if len(f.Planes[i].Data) < f.Planes[i].Stride*(ph-1)+row {
			return fmt.Errorf("%w: plane %d is %d bytes, need %d",
				ErrFrameMismatch, i, len(f.Planes[i].Data), f.Planes[i].Stride*(ph-1)+row)
		}
	}
	return nil
}
