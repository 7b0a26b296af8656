// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package videofx

import (
	"errors"
	"fmt"
)

// Format-related errors.
var (
	// ErrUnsupportedFormat is returned when a pixel format is not handled
	// by the engine.
	ErrUnsupportedFormat = errors.New("videofx: unsupported pixel format")
)

// PixelFormat identifies the memory layout of a video frame.
type PixelFormat uint8

// Supported pixel formats.
const (
	// FormatUnknown is the zero value and never valid in a frame.
	FormatUnknown PixelFormat = iota

	// FormatBGRA is packed RGB, 4 bytes per pixel, B/G/R/A byte order.
	FormatBGRA

	// FormatRGBA is packed RGB, 4 bytes per pixel, R/G/B/A byte order.
	FormatRGBA

	// FormatNV12 is 2-plane 4:2:0: a full-resolution luma plane followed
	// by one half-resolution plane of interleaved Cb/Cr samples.
	FormatNV12

	// FormatI420 is 3-plane 4:2:0: a full-resolution luma plane followed
	// by separate half-resolution Cb and Cr planes.
	FormatI420

	// FormatUYVY is packed 4:2:2: each 4-byte macropixel stores
	// [U, Y0, V, Y1] for two horizontal luma samples.
	FormatUYVY

	// FormatYUY2 is packed 4:2:2: each 4-byte macropixel stores
	// [Y0, U, Y1, V] for two horizontal luma samples.
	FormatYUY2
)

// String returns the conventional name of the format.
func (f PixelFormat) String() string {
	switch f {
	case FormatBGRA:
		return "BGRA"
	case FormatRGBA:
		return "RGBA"
	case FormatNV12:
		return "NV12"
	case FormatI420:
		return "I420"
	case FormatUYVY:
		return "UYVY"
	case FormatYUY2:
		return "YUY2"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// PlaneCount returns the number of planes a frame of this format carries.
func (f PixelFormat) PlaneCount() int {
	switch f {
	case FormatNV12:
		return 2
	case FormatI420:
		return 3
	case FormatBGRA, FormatRGBA, FormatUYVY, FormatYUY2:
		return 1
	default:
		return 0
	}
}

// PlaneDimensions returns the sample dimensions of plane index for a frame
// of the given size. Packed 4:2:2 formats report macropixel texels, i.e.
// (width+1)/2 four-byte samples per row, matching how the plane is bound
// as an RGBA texture at half width.
func (f PixelFormat) PlaneDimensions(plane, width, height int) (pw, ph int) {
	switch f {
	case FormatBGRA, FormatRGBA:
		return width, height
	case FormatUYVY, FormatYUY2:
		return (width + 1) / 2, height
	case FormatNV12:
		if plane == 0 {
			return width, height
		}
		return (width + 1) / 2, (height + 1) / 2
	case FormatI420:
		if plane == 0 {
			return width, height
		}
		return (width + 1) / 2, (height + 1) / 2
	default:
		return 0, 0
	}
}

// BytesPerSample returns the byte size of one sample in the given plane.
func (f PixelFormat) BytesPerSample(plane int) int {
	switch f {
	case FormatBGRA, FormatRGBA, FormatUYVY, FormatYUY2:
		return 4
	case FormatNV12:
		if plane == 0 {
			return 1
		}
		return 2
	case FormatI420:
		return 1
	default:
		return 0
	}
}

// InputPath selects the decode handler for a classified input format.
// The path is resolved once at configure time; per-pixel work only
// dispatches through the already-selected handler.
type InputPath uint8

// Input paths.
const (
	// InputRGB samples a single packed RGB texture.
	InputRGB InputPath = iota

	// InputPlanar2 samples a luma texture plus an interleaved chroma texture.
	InputPlanar2

	// InputPlanar3 samples luma plus two separate chroma textures.
	InputPlanar3

	// InputPacked422UYVY decodes [U, Y0, V, Y1] macropixels.
	InputPacked422UYVY

	// InputPacked422YUY2 decodes [Y0, U, Y1, V] macropixels.
	InputPacked422YUY2
)

// String returns a short name for the input path.
func (p InputPath) String() string {
	switch p {
	case InputRGB:
		return "rgb"
	case InputPlanar2:
		return "planar2"
	case InputPlanar3:
		return "planar3"
	case InputPacked422UYVY:
		return "packed422-uyvy"
	case InputPacked422YUY2:
		return "packed422-yuy2"
	default:
		return fmt.Sprintf("InputPath(%d)", uint8(p))
	}
}

// ClassifyFormat maps a pixel format to its input path. It is total over
// the supported formats and returns ErrUnsupportedFormat for anything else.
func ClassifyFormat(f PixelFormat) (InputPath, error) {
	switch f {
	case FormatBGRA, FormatRGBA:
		return InputRGB, nil
	case FormatNV12:
		return InputPlanar2, nil
	case FormatI420:
		return InputPlanar3, nil
	case FormatUYVY:
		return InputPacked422UYVY, nil
	case FormatYUY2:
		return InputPacked422YUY2, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
