// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bufio"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/gogpu/videofx"
)

// LookupTable3D is a color cube of edge Size: Size^3 RGB triples with the
// red coordinate varying fastest, then green, then blue.
type LookupTable3D struct {
	Size int
	Data []float32
}

// at returns the table entry at integer lattice coordinates.
func (l *LookupTable3D) at(r, g, b int) (float32, float32, float32) {
	i := ((b*l.Size+g)*l.Size + r) * 3
	return l.Data[i], l.Data[i+1], l.Data[i+2]
}

// Sample looks up the graded color for an input RGB triple with trilinear
// interpolation. Input channels are clamped to [0, 1] and mapped to the
// lattice so the full input range spans the cube, with a half-texel
// inset: c*(N-1)/N + 0.5/N in texture terms.
func (l *LookupTable3D) Sample(r, g, b float32) (float32, float32, float32) {
	n := float32(l.Size)
	fr := clamp01(r) * (n - 1)
	fg := clamp01(g) * (n - 1)
	fb := clamp01(b) * (n - 1)

	r0 := int(math.Floor(float64(fr)))
	g0 := int(math.Floor(float64(fg)))
	b0 := int(math.Floor(float64(fb)))
	r1 := min(r0+1, l.Size-1)
	g1 := min(g0+1, l.Size-1)
	b1 := min(b0+1, l.Size-1)
	dr := fr - float32(r0)
	dg := fg - float32(g0)
	db := fb - float32(b0)

	lerp3 := func(x0, y0, z0, x1, y1, z1, t float32) (float32, float32, float32) {
		return x0 + (x1-x0)*t, y0 + (y1-y0)*t, z0 + (z1-z0)*t
	}

	// Interpolate along red, then green, then blue.
	c000r, c000g, c000b := l.at(r0, g0, b0)
	c100r, c100g, c100b := l.at(r1, g0, b0)
	c010r, c010g, c010b := l.at(r0, g1, b0)
	c110r, c110g, c110b := l.at(r1, g1, b0)
	c001r, c001g, c001b := l.at(r0, g0, b1)
	c101r, c101g, c101b := l.at(r1, g0, b1)
	c011r, c011g, c011b := l.at(r0, g1, b1)
	c111r, c111g, c111b := l.at(r1, g1, b1)

	x00, y00, z00 := lerp3(c000r, c000g, c000b, c100r, c100g, c100b, dr)
	x10, y10, z10 := lerp3(c010r, c010g, c010b, c110r, c110g, c110b, dr)
	x01, y01, z01 := lerp3(c001r, c001g, c001b, c101r, c101g, c101b, dr)
	x11, y11, z11 := lerp3(c011r, c011g, c011b, c111r, c111g, c111b, dr)

	x0, y0, z0 := lerp3(x00, y00, z00, x10, y10, z10, dg)
	x1, y1, z1 := lerp3(x01, y01, z01, x11, y11, z11, dg)
	return lerp3(x0, y0, z0, x1, y1, z1, db)
}

// IdentityLUT builds a pass-through table of the given edge size.
func IdentityLUT(size int) *LookupTable3D {
	l := &LookupTable3D{Size: size, Data: make([]float32, size*size*size*3)}
	n := float32(size - 1)
	i := 0
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				l.Data[i] = float32(r) / n
				l.Data[i+1] = float32(g) / n
				l.Data[i+2] = float32(b) / n
				i += 3
			}
		}
	}
	return l
}

// LoadLUTFromFile loads a 3D lookup table. Files ending in .cube are
// parsed as Adobe/Resolve cube text; anything else is decoded as an
// image-encoded cube.
func LoadLUTFromFile(path string) (*LookupTable3D, error) {
	if strings.EqualFold(filepath.Ext(path), ".cube") {
		return loadCubeFile(path)
	}
	return loadImageLUT(path)
}

// loadCubeFile parses a .cube text file: a LUT_3D_SIZE N header followed
// by N^3 "r g b" lines, red fastest. TITLE, DOMAIN_MIN/MAX and comment
// lines are tolerated and ignored.
func loadCubeFile(path string) (*LookupTable3D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoad, path, err)
	}
	defer f.Close()

	var lut *LookupTable3D
	entries := 0

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "TITLE", "DOMAIN_MIN", "DOMAIN_MAX", "LUT_1D_SIZE":
			continue
		case "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: %s: malformed LUT_3D_SIZE", ErrAssetLoad, path)
			}
			var size int
			if _, err := fmt.Sscanf(fields[1], "%d", &size); err != nil || size < 2 {
				return nil, fmt.Errorf("%w: %s: bad cube size %q", ErrAssetLoad, path, fields[1])
			}
			lut = &LookupTable3D{Size: size, Data: make([]float32, 0, size*size*size*3)}
			continue
		}

		if lut == nil {
			return nil, fmt.Errorf("%w: %s: data before LUT_3D_SIZE", ErrAssetLoad, path)
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %s: malformed entry %q", ErrAssetLoad, path, line)
		}
		var r, g, b float32
		if _, err := fmt.Sscanf(line, "%f %f %f", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("%w: %s: bad entry %q", ErrAssetLoad, path, line)
		}
		lut.Data = append(lut.Data, r, g, b)
		entries++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoad, path, err)
	}
	if lut == nil {
		return nil, fmt.Errorf("%w: %s: missing LUT_3D_SIZE", ErrAssetLoad, path)
	}
	if entries != lut.Size*lut.Size*lut.Size {
		return nil, fmt.Errorf("%w: %s: %d entries, want %d",
			ErrAssetLoad, path, entries, lut.Size*lut.Size*lut.Size)
	}
	videofx.Logger().Info("render: cube LUT loaded", "path", path, "size", lut.Size)
	return lut, nil
}

// loadImageLUT decodes an image-encoded cube: a square image of edge
// S*sqrt(S) holding a sqrt(S) x sqrt(S) grid of S x S tiles. Within a
// tile red varies with x and green with y; the tile index, row-major,
// is the blue coordinate.
func loadImageLUT(path string) (*LookupTable3D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoad, path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoad, path, err)
	}
	bounds := src.Bounds()
	edge := bounds.Dx()
	if bounds.Dy() != edge {
		return nil, fmt.Errorf("%w: %s: image %dx%d is not square",
			ErrAssetLoad, path, bounds.Dx(), bounds.Dy())
	}

	// edge = S * sqrt(S), so S = edge^(2/3).
	size := int(math.Round(math.Pow(float64(edge), 2.0/3.0)))
	grid := int(math.Round(math.Sqrt(float64(size))))
	if grid*grid != size || size*grid != edge {
		return nil, fmt.Errorf("%w: %s: edge %d is not a cube layout",
			ErrAssetLoad, path, edge)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	lut := &LookupTable3D{Size: size, Data: make([]float32, size*size*size*3)}
	i := 0
	for b := 0; b < size; b++ {
		tileX := (b % grid) * size
		tileY := (b / grid) * size
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				o := rgba.PixOffset(tileX+r, tileY+g)
				lut.Data[i] = float32(rgba.Pix[o]) / 255
				lut.Data[i+1] = float32(rgba.Pix[o+1]) / 255
				lut.Data[i+2] = float32(rgba.Pix[o+2]) / 255
				i += 3
			}
		}
	}
	videofx.Logger().Info("render: image LUT loaded", "path", path, "size", size)
	return lut, nil
}
