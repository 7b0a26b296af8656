// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityLUTSample(t *testing.T) {
	lut := IdentityLUT(8)
	require.Equal(t, 8, lut.Size)
	require.Len(t, lut.Data, 8*8*8*3)

	for _, c := range [][3]float32{
		{0, 0, 0},
		{1, 1, 1},
		{0.5, 0.5, 0.5},
		{0.25, 0.75, 0.1},
	} {
		r, g, b := lut.Sample(c[0], c[1], c[2])
		assert.InDelta(t, c[0], r, 1e-5)
		assert.InDelta(t, c[1], g, 1e-5)
		assert.InDelta(t, c[2], b, 1e-5)
	}
}

func TestLUTSampleClamps(t *testing.T) {
	lut := IdentityLUT(4)
	r, g, b := lut.Sample(-0.5, 1.5, 2)
	assert.InDelta(t, 0, r, 1e-6)
	assert.InDelta(t, 1, g, 1e-6)
	assert.InDelta(t, 1, b, 1e-6)
}

func writeCubeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grade.cube")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCubeFile(t *testing.T) {
	// Size-2 identity, with the headers real grading tools emit.
	path := writeCubeFile(t, `# test cube
TITLE "identity"
DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 1.0 1.0 1.0
LUT_3D_SIZE 2
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
1.0 1.0 0.0
0.0 0.0 1.0
1.0 0.0 1.0
0.0 1.0 1.0
1.0 1.0 1.0
`)
	lut, err := LoadLUTFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, lut.Size)

	r, g, b := lut.Sample(0.3, 0.6, 0.9)
	assert.InDelta(t, 0.3, r, 1e-5)
	assert.InDelta(t, 0.6, g, 1e-5)
	assert.InDelta(t, 0.9, b, 1e-5)
}

func TestLoadCubeFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing size header", "0.0 0.0 0.0\n"},
		{"wrong entry count", "LUT_3D_SIZE 2\n0.0 0.0 0.0\n"},
		{"malformed entry", "LUT_3D_SIZE 2\n0.0 0.0\n"},
		{"bad size", "LUT_3D_SIZE 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLUTFromFile(writeCubeFile(t, tt.content))
			assert.ErrorIs(t, err, ErrAssetLoad)
		})
	}

	_, err := LoadLUTFromFile(filepath.Join(t.TempDir(), "absent.cube"))
	assert.ErrorIs(t, err, ErrAssetLoad)
}

func TestLoadImageLUT(t *testing.T) {
	// Size-4 cube in a 2x2 grid of 4x4 tiles: an 8x8 identity image.
	const size, grid = 4, 2
	img := image.NewRGBA(image.Rect(0, 0, size*grid, size*grid))
	for b := 0; b < size; b++ {
		tileX := (b % grid) * size
		tileY := (b / grid) * size
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				img.SetRGBA(tileX+r, tileY+g, color.RGBA{
					R: byte(r * 85), G: byte(g * 85), B: byte(b * 85), A: 255,
				})
			}
		}
	}
	path := filepath.Join(t.TempDir(), "grade.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	lut, err := LoadLUTFromFile(path)
	require.NoError(t, err)
	require.Equal(t, size, lut.Size)

	r, g, b := lut.Sample(1, 0, 1)
	assert.InDelta(t, 1, r, 1e-2)
	assert.InDelta(t, 0, g, 1e-2)
	assert.InDelta(t, 1, b, 1e-2)

	r, g, b = lut.Sample(0.4, 0.7, 0.2)
	assert.InDelta(t, 0.4, r, 1e-2)
	assert.InDelta(t, 0.7, g, 1e-2)
	assert.InDelta(t, 0.2, b, 1e-2)
}

func TestLoadImageLUTErrors(t *testing.T) {
	dir := t.TempDir()

	// Not square.
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	path := filepath.Join(dir, "wide.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	_, err = LoadLUTFromFile(path)
	assert.ErrorIs(t, err, ErrAssetLoad)

	// Square but not a cube layout.
	img = image.NewRGBA(image.Rect(0, 0, 7, 7))
	path = filepath.Join(dir, "odd.png")
	f, err = os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	_, err = LoadLUTFromFile(path)
	assert.ErrorIs(t, err, ErrAssetLoad)

	// Not an image at all.
	path = filepath.Join(dir, "noise.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))
	_, err = LoadLUTFromFile(path)
	assert.ErrorIs(t, err, ErrAssetLoad)
}
