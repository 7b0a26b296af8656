// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/videofx"
)

func configureFilter(t *testing.T, w, h int) *ColorFilter {
	t.Helper()
	f := NewColorFilter(testContext(t))
	require.NoError(t, f.Configure(FilterConfig{
		Format: videofx.FormatRGBA, Width: w, Height: h,
	}))
	t.Cleanup(f.Cleanup)
	return f
}

func TestFilterDefaultParamsAreIdentity(t *testing.T) {
	f := configureFilter(t, 4, 4)
	in := patternRGBA(t, 4, 4)
	out := newRGBA(t, 4, 4)
	require.NoError(t, f.Process(in, out, DefaultFilterParams()))
	requireFramesEqual(t, in, out, 0)
}

func TestFilterBrightness(t *testing.T) {
	f := configureFilter(t, 2, 2)
	in := solidRGBA(t, 2, 2, 100, 100, 100, 255)
	out := newRGBA(t, 2, 2)

	p := DefaultFilterParams()
	p.Brightness = 0.2
	require.NoError(t, f.Process(in, out, p))
	r, g, b, a := getRGBA(out, 0, 0)
	assert.Equal(t, byte(151), r)
	assert.Equal(t, byte(151), g)
	assert.Equal(t, byte(151), b)
	assert.Equal(t, byte(255), a)
}

func TestFilterInvert(t *testing.T) {
	f := configureFilter(t, 2, 2)
	in := solidRGBA(t, 2, 2, 10, 20, 30, 255)
	out := newRGBA(t, 2, 2)

	p := DefaultFilterParams()
	p.Invert = 1
	require.NoError(t, f.Process(in, out, p))
	r, g, b, _ := getRGBA(out, 0, 0)
	assert.Equal(t, byte(245), r)
	assert.Equal(t, byte(235), g)
	assert.Equal(t, byte(225), b)
}

func TestFilterSaturationZeroIsGray(t *testing.T) {
	f := configureFilter(t, 2, 2)
	in := solidRGBA(t, 2, 2, 255, 0, 0, 255)
	out := newRGBA(t, 2, 2)

	p := DefaultFilterParams()
	p.Saturation = 0
	require.NoError(t, f.Process(in, out, p))
	r, g, b, _ := getRGBA(out, 0, 0)
	// Pure red collapses to its 0.2126 luma.
	assert.InDelta(t, 54, int(r), 1)
	assert.Equal(t, r, g)
	assert.Equal(t, r, b)
}

func TestFilterIdentityLUT(t *testing.T) {
	f := configureFilter(t, 4, 4)
	f.SetLUT(IdentityLUT(8))

	in := patternRGBA(t, 4, 4)
	out := newRGBA(t, 4, 4)
	require.NoError(t, f.Process(in, out, DefaultFilterParams()))
	requireFramesEqual(t, in, out, 1)

	f.ClearLUT()
	require.NoError(t, f.Process(in, out, DefaultFilterParams()))
	requireFramesEqual(t, in, out, 0)
}

func TestFilterVignetteDarkensCorners(t *testing.T) {
	f := configureFilter(t, 8, 8)
	in := solidRGBA(t, 8, 8, 255, 255, 255, 255)
	out := newRGBA(t, 8, 8)

	p := DefaultFilterParams()
	p.Vignette = 1
	require.NoError(t, f.Process(in, out, p))
	corner, _, _, _ := getRGBA(out, 0, 0)
	center, _, _, _ := getRGBA(out, 3, 3)
	assert.Less(t, corner, center)
	assert.Equal(t, byte(255), center, "center is inside the falloff radius")
}

func TestFilterChromaKey(t *testing.T) {
	f := configureFilter(t, 2, 1)
	in := newRGBA(t, 2, 1)
	setRGBA(in, 0, 0, 255, 0, 0, 255)
	setRGBA(in, 1, 0, 0, 0, 255, 255)
	out := newRGBA(t, 2, 1)

	p := DefaultFilterParams()
	p.ChromaKey = ChromaKey{
		Enabled:    true,
		Color:      videofx.ARGB(0xFFFF0000),
		Tolerance:  0.3,
		Smoothness: 0.1,
	}
	require.NoError(t, f.Process(in, out, p))
	_, _, _, a := getRGBA(out, 0, 0)
	assert.Equal(t, byte(0), a, "key-colored pixel is keyed out")
	_, _, _, a = getRGBA(out, 1, 0)
	assert.Equal(t, byte(255), a, "distant color keeps its alpha")
}

func TestFilterNoiseDeterministic(t *testing.T) {
	f := configureFilter(t, 4, 4)
	in := solidRGBA(t, 4, 4, 128, 128, 128, 255)
	a := newRGBA(t, 4, 4)
	b := newRGBA(t, 4, 4)
	c := newRGBA(t, 4, 4)

	p := DefaultFilterParams()
	p.Noise = 0.5
	require.NoError(t, f.Process(in, a, p))
	require.NoError(t, f.Process(in, b, p))
	requireFramesEqual(t, a, b, 0)

	p.FrameIndex = 1
	require.NoError(t, f.Process(in, c, p))
	assert.NotEqual(t, a.Plane(0), c.Plane(0), "grain animates with the frame index")
}

func TestFilterSharpnessUniformIsNoOp(t *testing.T) {
	f := configureFilter(t, 6, 6)
	in := solidRGBA(t, 6, 6, 90, 160, 40, 255)
	out := newRGBA(t, 6, 6)

	p := DefaultFilterParams()
	p.Sharpness = 1
	require.NoError(t, f.Process(in, out, p))
	requireFramesEqual(t, in, out, 0)

	p.Sharpness = -1
	require.NoError(t, f.Process(in, out, p))
	requireFramesEqual(t, in, out, 0)
}

func TestFilterSharpnessSmoothsEdges(t *testing.T) {
	f := configureFilter(t, 16, 1)
	in := newRGBA(t, 16, 1)
	for x := 0; x < 16; x++ {
		v := byte(0)
		if x >= 8 {
			v = 255
		}
		setRGBA(in, x, 0, v, v, v, 255)
	}
	out := newRGBA(t, 16, 1)

	p := DefaultFilterParams()
	p.Sharpness = -1
	require.NoError(t, f.Process(in, out, p))
	r7, _, _, _ := getRGBA(out, 7, 0)
	r8, _, _, _ := getRGBA(out, 8, 0)
	assert.Greater(t, r7, byte(0), "blur bleeds bright pixels left")
	assert.Less(t, r8, byte(255), "blur bleeds dark pixels right")
}

func TestFilterLifecycle(t *testing.T) {
	f := NewColorFilter(testContext(t))
	in := newRGBA(t, 2, 2)
	out := newRGBA(t, 2, 2)
	err := f.Process(in, out, DefaultFilterParams())
	assert.ErrorIs(t, err, ErrNotConfigured)

	require.NoError(t, f.Configure(FilterConfig{Format: videofx.FormatRGBA, Width: 2, Height: 2}))
	f.Cleanup()
	f.Cleanup()
	err = f.Process(in, out, DefaultFilterParams())
	assert.ErrorIs(t, err, ErrRendererClosed)
}
