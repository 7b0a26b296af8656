// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

func testContext(t *testing.T) *device.Context {
	t.Helper()
	ctx, err := device.New(nil)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)
	return ctx
}

func solidRGBA(t *testing.T, w, h int, r, g, b, a byte) *videofx.FrameBuffer {
	t.Helper()
	f, err := videofx.NewFrameBuffer(videofx.FormatRGBA, w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setRGBA(f, x, y, r, g, b, a)
		}
	}
	return f
}

// patternRGBA fills a frame with a deterministic per-pixel pattern, alpha
// opaque.
func patternRGBA(t *testing.T, w, h int) *videofx.FrameBuffer {
	t.Helper()
	f, err := videofx.NewFrameBuffer(videofx.FormatRGBA, w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setRGBA(f, x, y,
				byte(x*37+y*11), byte(x*7+y*53), byte(x*101+y*29), 255)
		}
	}
	return f
}

func setRGBA(f *videofx.FrameBuffer, x, y int, r, g, b, a byte) {
	i := y*f.Stride(0) + x*4
	p := f.Plane(0)
	p[i], p[i+1], p[i+2], p[i+3] = r, g, b, a
}

func getRGBA(f *videofx.FrameBuffer, x, y int) (r, g, b, a byte) {
	i := y*f.Stride(0) + x*4
	p := f.Plane(0)
	return p[i], p[i+1], p[i+2], p[i+3]
}

func newRGBA(t *testing.T, w, h int) *videofx.FrameBuffer {
	t.Helper()
	f, err := videofx.NewFrameBuffer(videofx.FormatRGBA, w, h)
	require.NoError(t, err)
	return f
}

// requireFramesEqual compares two RGBA frames byte for byte within a
// per-channel tolerance.
func requireFramesEqual(t *testing.T, want, got *videofx.FrameBuffer, tol int) {
	t.Helper()
	require.Equal(t, want.Width, got.Width)
	require.Equal(t, want.Height, got.Height)
	for y := 0; y < want.Height; y++ {
		for x := 0; x < want.Width; x++ {
			wr, wg, wb, wa := getRGBA(want, x, y)
			gr, gg, gb, ga := getRGBA(got, x, y)
			for i, pair := range [][2]byte{{wr, gr}, {wg, gg}, {wb, gb}, {wa, ga}} {
				d := int(pair[0]) - int(pair[1])
				if d < 0 {
					d = -d
				}
				if d > tol {
					t.Fatalf("pixel (%d, %d) channel %d: want %d, got %d (tolerance %d)",
						x, y, i, pair[0], pair[1], tol)
				}
			}
		}
	}
}
