// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/videofx"
)

func configureOverlay(t *testing.T, w, h int) *Overlay {
	t.Helper()
	o := NewOverlay(testContext(t))
	require.NoError(t, o.Configure(OverlayConfig{
		Format: videofx.FormatRGBA, Width: w, Height: h,
	}))
	t.Cleanup(o.Cleanup)
	return o
}

func solidImage(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestOverlayAlphaZeroIsNoOp(t *testing.T) {
	o := configureOverlay(t, 4, 4)
	require.NoError(t, o.SetImage(solidImage(4, 4, color.RGBA{255, 0, 0, 255})))

	in := patternRGBA(t, 4, 4)
	out := newRGBA(t, 4, 4)
	require.NoError(t, o.Process(in, out, OverlayParams{W: 4, H: 4, Alpha: 0}))
	requireFramesEqual(t, in, out, 0)
}

func TestOverlayNoImageIsPassThrough(t *testing.T) {
	o := configureOverlay(t, 4, 4)
	in := patternRGBA(t, 4, 4)
	out := newRGBA(t, 4, 4)
	require.NoError(t, o.Process(in, out, OverlayParams{Alpha: 1}))
	requireFramesEqual(t, in, out, 0)
}

func TestOverlayOpaqueRect(t *testing.T) {
	o := configureOverlay(t, 4, 4)
	require.NoError(t, o.SetImage(solidImage(2, 2, color.RGBA{0, 255, 0, 255})))

	in := solidRGBA(t, 4, 4, 255, 0, 0, 255)
	out := newRGBA(t, 4, 4)
	require.NoError(t, o.Process(in, out, OverlayParams{X: 1, Y: 1, W: 2, H: 2, Alpha: 1}))

	r, g, _, _ := getRGBA(out, 2, 2)
	assert.Equal(t, [2]byte{0, 255}, [2]byte{r, g}, "inside overlay rect")
	r, g, _, _ = getRGBA(out, 0, 0)
	assert.Equal(t, [2]byte{255, 0}, [2]byte{r, g}, "outside overlay rect")
	r, g, _, _ = getRGBA(out, 3, 3)
	assert.Equal(t, [2]byte{255, 0}, [2]byte{r, g}, "outside overlay rect")
}

func TestOverlayNaturalSize(t *testing.T) {
	o := configureOverlay(t, 4, 4)
	require.NoError(t, o.SetImage(solidImage(2, 2, color.RGBA{0, 255, 0, 255})))

	in := solidRGBA(t, 4, 4, 255, 0, 0, 255)
	out := newRGBA(t, 4, 4)
	// Zero W/H takes the image's 2x2 natural size.
	require.NoError(t, o.Process(in, out, OverlayParams{Alpha: 1}))
	_, g, _, _ := getRGBA(out, 1, 1)
	assert.Equal(t, byte(255), g)
	_, g, _, _ = getRGBA(out, 3, 3)
	assert.Equal(t, byte(0), g)
}

func TestOverlayRelativePosition(t *testing.T) {
	o := configureOverlay(t, 8, 8)
	require.NoError(t, o.SetImage(solidImage(2, 2, color.RGBA{0, 255, 0, 255})))

	in := solidRGBA(t, 8, 8, 255, 0, 0, 255)
	out := newRGBA(t, 8, 8)
	// RelX/RelY of 0.5 on an 8x8 frame places the corner at (4,4).
	require.NoError(t, o.Process(in, out, OverlayParams{RelX: 0.5, RelY: 0.5, Alpha: 1}))

	_, g, _, _ := getRGBA(out, 4, 4)
	assert.Equal(t, byte(255), g, "inside relative-placed rect")
	_, g, _, _ = getRGBA(out, 5, 5)
	assert.Equal(t, byte(255), g, "inside relative-placed rect")
	_, g, _, _ = getRGBA(out, 3, 3)
	assert.Equal(t, byte(0), g, "outside relative-placed rect")
	_, g, _, _ = getRGBA(out, 6, 6)
	assert.Equal(t, byte(0), g, "outside relative-placed rect")
}

func TestOverlayRelativeOffsetAddsToAbsolute(t *testing.T) {
	o := configureOverlay(t, 8, 8)
	require.NoError(t, o.SetImage(solidImage(2, 2, color.RGBA{0, 255, 0, 255})))

	in := solidRGBA(t, 8, 8, 255, 0, 0, 255)
	out := newRGBA(t, 8, 8)
	// X=1 plus RelX=0.25 of 8 lands the corner at x=3.
	require.NoError(t, o.Process(in, out, OverlayParams{X: 1, RelX: 0.25, Alpha: 1}))

	_, g, _, _ := getRGBA(out, 3, 0)
	assert.Equal(t, byte(255), g)
	_, g, _, _ = getRGBA(out, 2, 0)
	assert.Equal(t, byte(0), g)
}

func TestOverlayRelativeSize(t *testing.T) {
	o := configureOverlay(t, 8, 8)
	require.NoError(t, o.SetImage(solidImage(2, 2, color.RGBA{0, 255, 0, 255})))

	in := solidRGBA(t, 8, 8, 255, 0, 0, 255)
	out := newRGBA(t, 8, 8)
	// RelW/RelH of 0.5 covers a 4x4 region even though the image is 2x2.
	require.NoError(t, o.Process(in, out, OverlayParams{RelW: 0.5, RelH: 0.5, Alpha: 1}))

	_, g, _, _ := getRGBA(out, 3, 3)
	assert.Equal(t, byte(255), g, "inside 4x4 relative-sized rect")
	_, g, _, _ = getRGBA(out, 4, 4)
	assert.Equal(t, byte(0), g, "outside 4x4 relative-sized rect")
}

func TestOverlayAbsoluteSizeWinsOverRelative(t *testing.T) {
	o := configureOverlay(t, 8, 8)
	require.NoError(t, o.SetImage(solidImage(2, 2, color.RGBA{0, 255, 0, 255})))

	in := solidRGBA(t, 8, 8, 255, 0, 0, 255)
	out := newRGBA(t, 8, 8)
	require.NoError(t, o.Process(in, out, OverlayParams{W: 2, H: 2, RelW: 1, RelH: 1, Alpha: 1}))

	_, g, _, _ := getRGBA(out, 1, 1)
	assert.Equal(t, byte(255), g)
	_, g, _, _ = getRGBA(out, 2, 2)
	assert.Equal(t, byte(0), g, "relative size ignored when absolute is set")
}

func TestOverlayLoadFailureKeepsPrevious(t *testing.T) {
	o := configureOverlay(t, 4, 4)
	require.NoError(t, o.SetImage(solidImage(4, 4, color.RGBA{0, 255, 0, 255})))

	err := o.LoadImageFromFile("/nonexistent/overlay.png")
	assert.ErrorIs(t, err, ErrAssetLoad)

	// The earlier image still applies.
	in := solidRGBA(t, 4, 4, 255, 0, 0, 255)
	out := newRGBA(t, 4, 4)
	require.NoError(t, o.Process(in, out, OverlayParams{W: 4, H: 4, Alpha: 1}))
	_, g, _, _ := getRGBA(out, 2, 2)
	assert.Equal(t, byte(255), g)
}

func TestOverlayClearImage(t *testing.T) {
	o := configureOverlay(t, 4, 4)
	require.NoError(t, o.SetImage(solidImage(4, 4, color.RGBA{0, 255, 0, 255})))
	o.ClearImage()

	in := patternRGBA(t, 4, 4)
	out := newRGBA(t, 4, 4)
	require.NoError(t, o.Process(in, out, OverlayParams{W: 4, H: 4, Alpha: 1}))
	requireFramesEqual(t, in, out, 0)
}

func TestOverlayPartialAlphaBlend(t *testing.T) {
	o := configureOverlay(t, 2, 2)
	require.NoError(t, o.SetImage(solidImage(2, 2, color.RGBA{255, 255, 255, 255})))

	in := solidRGBA(t, 2, 2, 0, 0, 0, 255)
	out := newRGBA(t, 2, 2)
	require.NoError(t, o.Process(in, out, OverlayParams{W: 2, H: 2, Alpha: 0.5}))
	r, _, _, _ := getRGBA(out, 0, 0)
	assert.InDelta(t, 128, int(r), 1, "half-blended white over black")
}
