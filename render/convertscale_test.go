// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/videofx"
)

func configureConvert(t *testing.T, cfg ConvertScaleConfig) *ConvertScale {
	t.Helper()
	c := NewConvertScale(testContext(t))
	require.NoError(t, c.Configure(cfg))
	t.Cleanup(c.Cleanup)
	return c
}

func TestConvertScaleIdentity(t *testing.T) {
	in := patternRGBA(t, 4, 4)
	out := newRGBA(t, 4, 4)
	c := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatRGBA, InWidth: 4, InHeight: 4,
		OutFormat: videofx.FormatRGBA, OutWidth: 4, OutHeight: 4,
	})
	require.NoError(t, c.Process(in, out))
	requireFramesEqual(t, in, out, 0)
}

func TestConvertScaleBGRAToRGBA(t *testing.T) {
	in, err := videofx.NewFrameBuffer(videofx.FormatBGRA, 2, 2)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		// B=10, G=20, R=30, A=255.
		copy(in.Plane(0)[i*4:], []byte{10, 20, 30, 255})
	}
	out := newRGBA(t, 2, 2)
	c := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatBGRA, InWidth: 2, InHeight: 2,
		OutFormat: videofx.FormatRGBA, OutWidth: 2, OutHeight: 2,
	})
	require.NoError(t, c.Process(in, out))
	r, g, b, a := getRGBA(out, 1, 1)
	assert.Equal(t, [4]byte{30, 20, 10, 255}, [4]byte{r, g, b, a})
}

func TestConvertScaleNV12MidGray(t *testing.T) {
	// Uniform luma 128 with neutral chroma decodes to exact mid-gray at
	// every pixel.
	in, err := videofx.NewFrameBuffer(videofx.FormatNV12, 4, 4)
	require.NoError(t, err)
	in.Colorimetry = videofx.ColorimetryBT601
	for i := range in.Plane(0) {
		in.Plane(0)[i] = 128
	}
	for i := range in.Plane(1) {
		in.Plane(1)[i] = 128
	}

	out := newRGBA(t, 4, 4)
	c := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatNV12, InWidth: 4, InHeight: 4,
		OutFormat: videofx.FormatRGBA, OutWidth: 4, OutHeight: 4,
	})
	require.NoError(t, c.Process(in, out))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, g, b, a := getRGBA(out, x, y)
			require.Equal(t, [4]byte{128, 128, 128, 255}, [4]byte{r, g, b, a},
				"pixel (%d, %d)", x, y)
		}
	}
}

func TestConvertScale420RoundTrip(t *testing.T) {
	// RGBA -> NV12 -> RGBA. Gray values survive exactly; a uniform
	// colored frame comes back within chroma quantization tolerance.
	for _, tc := range []struct {
		name    string
		r, g, b byte
		tol     int
	}{
		{"gray", 77, 77, 77, 0},
		{"mid gray", 128, 128, 128, 0},
		{"orange", 220, 120, 40, 3},
		{"teal", 20, 150, 160, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := solidRGBA(t, 8, 8, tc.r, tc.g, tc.b, 255)

			nv12, err := videofx.NewFrameBuffer(videofx.FormatNV12, 8, 8)
			require.NoError(t, err)
			enc := configureConvert(t, ConvertScaleConfig{
				InFormat: videofx.FormatRGBA, InWidth: 8, InHeight: 8,
				OutFormat: videofx.FormatNV12, OutWidth: 8, OutHeight: 8,
			})
			require.NoError(t, enc.Process(in, nv12))

			back := newRGBA(t, 8, 8)
			dec := configureConvert(t, ConvertScaleConfig{
				InFormat: videofx.FormatNV12, InWidth: 8, InHeight: 8,
				OutFormat: videofx.FormatRGBA, OutWidth: 8, OutHeight: 8,
			})
			require.NoError(t, dec.Process(nv12, back))
			requireFramesEqual(t, in, back, tc.tol)
		})
	}
}

func TestConvertScaleI420OddDimensions(t *testing.T) {
	// 5x5 output: chroma planes are exactly 3x3, edge samples replicate.
	in := solidRGBA(t, 5, 5, 200, 60, 90, 255)
	out, err := videofx.NewFrameBuffer(videofx.FormatI420, 5, 5)
	require.NoError(t, err)
	c := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatRGBA, InWidth: 5, InHeight: 5,
		OutFormat: videofx.FormatI420, OutWidth: 5, OutHeight: 5,
	})
	require.NoError(t, c.Process(in, out))
	require.Len(t, out.Plane(1), 9)
	require.Len(t, out.Plane(2), 9)
	// Uniform input: every chroma sample identical, including the
	// replicated edge.
	for i := 1; i < 9; i++ {
		assert.Equal(t, out.Plane(1)[0], out.Plane(1)[i])
		assert.Equal(t, out.Plane(2)[0], out.Plane(2)[i])
	}
}

func TestConvertScalePacked422(t *testing.T) {
	// A black/white pixel pair shares neutral averaged chroma.
	in := newRGBA(t, 2, 1)
	setRGBA(in, 0, 0, 0, 0, 0, 255)
	setRGBA(in, 1, 0, 255, 255, 255, 255)

	uyvy, err := videofx.NewFrameBuffer(videofx.FormatUYVY, 2, 1)
	require.NoError(t, err)
	cu := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatRGBA, InWidth: 2, InHeight: 1,
		OutFormat: videofx.FormatUYVY, OutWidth: 2, OutHeight: 1,
	})
	require.NoError(t, cu.Process(in, uyvy))
	assert.Equal(t, []byte{128, 0, 128, 255}, uyvy.Plane(0)[:4], "UYVY macropixel")

	yuy2, err := videofx.NewFrameBuffer(videofx.FormatYUY2, 2, 1)
	require.NoError(t, err)
	cy := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatRGBA, InWidth: 2, InHeight: 1,
		OutFormat: videofx.FormatYUY2, OutWidth: 2, OutHeight: 1,
	})
	require.NoError(t, cy.Process(in, yuy2))
	assert.Equal(t, []byte{0, 128, 255, 128}, yuy2.Plane(0)[:4], "YUY2 macropixel")
}

func TestConvertScalePacked422Decode(t *testing.T) {
	uyvy, err := videofx.NewFrameBuffer(videofx.FormatUYVY, 2, 1)
	require.NoError(t, err)
	copy(uyvy.Plane(0), []byte{128, 0, 128, 255})

	out := newRGBA(t, 2, 1)
	c := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatUYVY, InWidth: 2, InHeight: 1,
		OutFormat: videofx.FormatRGBA, OutWidth: 2, OutHeight: 1,
	})
	require.NoError(t, c.Process(uyvy, out))
	r0, g0, b0, _ := getRGBA(out, 0, 0)
	r1, g1, b1, _ := getRGBA(out, 1, 0)
	assert.Equal(t, [3]byte{0, 0, 0}, [3]byte{r0, g0, b0})
	assert.Equal(t, [3]byte{255, 255, 255}, [3]byte{r1, g1, b1})
}

func TestConvertScaleLetterbox(t *testing.T) {
	// 2:1 input into a square output: bars above and below, border color
	// in the bars.
	in := solidRGBA(t, 32, 16, 0, 255, 0, 255)
	out := newRGBA(t, 32, 32)
	c := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatRGBA, InWidth: 32, InHeight: 16,
		OutFormat: videofx.FormatRGBA, OutWidth: 32, OutHeight: 32,
		AddBorders: true, BorderColor: 0xFFFF0000,
	})
	require.NoError(t, c.Process(in, out))

	r, g, b, a := getRGBA(out, 16, 0)
	assert.Equal(t, [4]byte{255, 0, 0, 255}, [4]byte{r, g, b, a}, "top bar")
	r, g, b, a = getRGBA(out, 16, 31)
	assert.Equal(t, [4]byte{255, 0, 0, 255}, [4]byte{r, g, b, a}, "bottom bar")
	r, g, b, a = getRGBA(out, 16, 16)
	assert.Equal(t, [4]byte{0, 255, 0, 255}, [4]byte{r, g, b, a}, "video area")
}

func TestConvertScaleUpscaleNearest(t *testing.T) {
	in := newRGBA(t, 2, 1)
	setRGBA(in, 0, 0, 255, 0, 0, 255)
	setRGBA(in, 1, 0, 0, 0, 255, 255)

	out := newRGBA(t, 4, 1)
	c := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatRGBA, InWidth: 2, InHeight: 1,
		OutFormat: videofx.FormatRGBA, OutWidth: 4, OutHeight: 1,
		Method: SamplingNearest,
	})
	require.NoError(t, c.Process(in, out))
	r, _, b, _ := getRGBA(out, 0, 0)
	assert.Equal(t, [2]byte{255, 0}, [2]byte{r, b})
	r, _, b, _ = getRGBA(out, 1, 0)
	assert.Equal(t, [2]byte{255, 0}, [2]byte{r, b}, "nearest keeps hard edge")
	r, _, b, _ = getRGBA(out, 3, 0)
	assert.Equal(t, [2]byte{0, 255}, [2]byte{r, b})
}

func TestConvertScaleLifecycle(t *testing.T) {
	ctx := testContext(t)
	c := NewConvertScale(ctx)
	err := c.Process(patternRGBA(t, 2, 2), newRGBA(t, 2, 2))
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Error(t, c.Configure(ConvertScaleConfig{
		InFormat: videofx.FormatRGBA, InWidth: 0, InHeight: 2,
		OutFormat: videofx.FormatRGBA, OutWidth: 2, OutHeight: 2,
	}))
	err = c.Process(patternRGBA(t, 2, 2), newRGBA(t, 2, 2))
	assert.ErrorIs(t, err, ErrNotConfigured, "failed configure leaves renderer unconfigured")

	c.Cleanup()
	c.Cleanup()
	err = c.Process(patternRGBA(t, 2, 2), newRGBA(t, 2, 2))
	assert.ErrorIs(t, err, ErrRendererClosed)
}

func TestConvertScaleFrameMismatch(t *testing.T) {
	c := configureConvert(t, ConvertScaleConfig{
		InFormat: videofx.FormatRGBA, InWidth: 4, InHeight: 4,
		OutFormat: videofx.FormatRGBA, OutWidth: 4, OutHeight: 4,
	})
	err := c.Process(patternRGBA(t, 2, 2), newRGBA(t, 4, 4))
	assert.ErrorIs(t, err, videofx.ErrFrameMismatch)
}
