// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"errors"
	"testing"
)

func newSoftwareContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	t.Cleanup(ctx.Release)
	return ctx
}

func TestSoftwareContext(t *testing.T) {
	ctx := newSoftwareContext(t)
	if ctx.HasDevice() {
		t.Error("software context reports a device")
	}
	lib, err := ctx.CompileShaderSource("test", "not compiled in software")
	if err != nil {
		t.Fatalf("CompileShaderSource: %v", err)
	}
	if lib.Label() != "test" {
		t.Errorf("library label = %q, want %q", lib.Label(), "test")
	}
	if lib.SPIRV() != nil {
		t.Error("software library carries SPIR-V")
	}
	if ctx.Library() == nil {
		t.Error("Library() returned nil")
	}
}

func TestContextRelease(t *testing.T) {
	ctx, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	ctx.Release()
	ctx.Release() // idempotent

	if _, err := ctx.CompileShaderSource("x", ""); !errors.Is(err, ErrContextReleased) {
		t.Errorf("compile after release error = %v, want ErrContextReleased", err)
	}
	if _, err := ctx.NewTexture(4, 4, TextureFormatRGBA8, "x"); !errors.Is(err, ErrContextReleased) {
		t.Errorf("texture after release error = %v, want ErrContextReleased", err)
	}
	if ctx.HasDevice() {
		t.Error("released context reports a device")
	}
}

func TestNewTextureInvalidSize(t *testing.T) {
	ctx := newSoftwareContext(t)
	for _, dims := range [][2]int{{0, 4}, {4, 0}, {-1, 4}} {
		if _, err := ctx.NewTexture(dims[0], dims[1], TextureFormatRGBA8, "bad"); !errors.Is(err, ErrInvalidTextureSize) {
			t.Errorf("NewTexture(%d, %d) error = %v, want ErrInvalidTextureSize",
				dims[0], dims[1], err)
		}
	}
}

func TestSharedContext(t *testing.T) {
	a := Shared()
	b := Shared()
	if a == nil {
		t.Fatal("Shared() returned nil")
	}
	if a != b {
		t.Error("Shared() returned different contexts")
	}
}
